// Package introspect defines the live-schema view the migration engine
// diffs against. Implementations fetch the current constraints and
// indexes from the running database; results are never cached, every
// migration run re-fetches.
package introspect

import "context"

// Kind classifies a live schema entry.
type Kind int

const (
	// KindUnique is a uniqueness constraint (with its implicit backing index)
	KindUnique Kind = iota
	// KindExistence is a property existence constraint
	KindExistence
	// KindIndex is a plain index
	KindIndex
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindUnique:
		return "UNIQUE"
	case KindExistence:
		return "EXISTENCE"
	default:
		return "INDEX"
	}
}

// Entry is one constraint or index as reported by the database. Name is
// the server-assigned schema object name; drops address objects by name.
type Entry struct {
	Name       string
	Label      string
	Properties []string
	Kind       Kind
}

// Introspector fetches the live schema.
type Introspector interface {
	// Constraints returns all node constraints.
	Constraints(ctx context.Context) ([]Entry, error)
	// Indexes returns all plain node indexes, excluding the backing
	// indexes of constraints and any internal lookup indexes.
	Indexes(ctx context.Context) ([]Entry, error)
}

// Package filter defines the predicate tree and filter model used by the
// Cypher generator. Caller-supplied filter objects (LoopBack-style maps)
// are parsed once at this boundary into typed nodes; no type sniffing
// happens downstream.
package filter

import "fmt"

// Op is a comparison operator on a single property.
type Op int

const (
	// OpEq represents equality (=)
	OpEq Op = iota
	// OpNeq represents negated equality
	OpNeq
	// OpGt represents greater than (>)
	OpGt
	// OpGte represents greater or equal (>=)
	OpGte
	// OpLt represents less than (<)
	OpLt
	// OpLte represents less or equal (<=)
	OpLte
	// OpBetween represents an exclusive range test over two values
	OpBetween
	// OpIn represents list membership
	OpIn
	// OpNotIn represents negated list membership
	OpNotIn
	// OpLike represents a substring-style regex match
	OpLike
	// OpNotLike represents a negated substring-style regex match
	OpNotLike
	// OpIsNull represents an explicit null test
	OpIsNull
	// OpUnknown is any operator key the parser did not recognize.
	// Unknown operators compile to nothing; see the generator.
	OpUnknown
)

// String returns the operator's filter-object key for debugging.
func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpNeq:
		return "neq"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpBetween:
		return "between"
	case OpIn:
		return "inq"
	case OpNotIn:
		return "nin"
	case OpLike:
		return "like"
	case OpNotLike:
		return "nlike"
	case OpIsNull:
		return "isnull"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// LogicalOp joins child predicates.
type LogicalOp int

const (
	// And requires all children to hold
	And LogicalOp = iota
	// Or requires at least one child to hold
	Or
	// Xor requires an odd number of children to hold
	Xor
	// Not negates its child group
	Not
)

// String returns the Cypher keyword for the operator.
func (o LogicalOp) String() string {
	switch o {
	case And:
		return "AND"
	case Or:
		return "OR"
	case Xor:
		return "XOR"
	case Not:
		return "NOT"
	default:
		return fmt.Sprintf("LogicalOp(%d)", int(o))
	}
}

// Predicate is a node in the filter tree: either a Logical group or a
// single-property Comparison.
type Predicate interface {
	isPredicate()
}

// Logical groups child predicates under a logical operator.
// Children are ordered; compilation preserves the order.
type Logical struct {
	Op       LogicalOp
	Children []Predicate
}

func (*Logical) isPredicate() {}

// Comparison tests a single property against a value.
// Value carries the operand for single-value operators; Values carries the
// operands for OpBetween (exactly two) and OpIn/OpNotIn (zero or more).
// OpIsNull carries no operand. For OpUnknown, RawOp preserves the
// unrecognized key for diagnostics.
type Comparison struct {
	Field  string
	Op     Op
	Value  any
	Values []any
	RawOp  string
}

func (*Comparison) isPredicate() {}

// OrderEntry is one ORDER BY token, still in its raw "field [direction]"
// form. Direction parsing happens in the generator.
type OrderEntry string

// Filter is a fully parsed query filter: predicate, ordering, projection
// and pagination. Zero value means "match everything, return whole nodes".
type Filter struct {
	Where  Predicate
	Order  []OrderEntry
	Fields []string
	Skip   *int
	Limit  *int
}

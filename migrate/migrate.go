// Package migrate reconciles the schema a set of models requires with the
// live schema of the graph database. It computes desired state from model
// metadata, diffs it against introspected constraints and indexes, and
// issues the corrective Cypher statements as an ordered pipeline of steps.
package migrate

import (
	"context"
	"fmt"

	"github.com/satishbabariya/cypher-go/migrate/introspect"
)

// Mode selects how far reconciliation goes.
type Mode int

const (
	// ModeUpdate only adds missing constraints and indexes. It never
	// drops anything and is safe for incremental use.
	ModeUpdate Mode = iota
	// ModeMigrate drops every constraint and index on the target labels
	// and recreates the full desired state.
	ModeMigrate
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeMigrate {
		return "migrate"
	}
	return "update"
}

// Step identifies one stage of the reconciliation pipeline. Steps always
// run in the order listed here; constraint drops must precede index
// drops, because the index backing a constraint cannot be dropped
// directly.
type Step string

const (
	StepFetchConstraints  Step = "fetch-constraints"
	StepDropConstraints   Step = "drop-constraints"
	StepFetchIndexes      Step = "fetch-indexes"
	StepDropIndexes       Step = "drop-indexes"
	StepCreateConstraints Step = "create-constraints"
	StepCreateIndexes     Step = "create-indexes"
	StepCreateExistence   Step = "create-existence"
)

// StepError reports which pipeline step failed. Reconciliation aborts on
// the first failure; the recovery strategy is to re-run the whole
// migration.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Statement is one executed schema statement, recorded for reporting.
type Statement struct {
	Step   Step
	Cypher string
}

// Result is the aggregate outcome of a completed reconciliation.
type Result struct {
	Mode     Mode
	Executed []Statement
}

// Executor issues schema statements against the database.
type Executor interface {
	Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}

// Engine runs schema reconciliation.
type Engine struct {
	exec  Executor
	intro introspect.Introspector

	// enterprise enables property existence constraints, which the
	// community edition of the target store rejects.
	enterprise bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithEnterprise enables existence-constraint creation.
func WithEnterprise(enabled bool) Option {
	return func(e *Engine) { e.enterprise = enabled }
}

// NewEngine creates a migration engine over the given executor and
// introspector.
func NewEngine(exec Executor, intro introspect.Introspector, opts ...Option) *Engine {
	e := &Engine{exec: exec, intro: intro}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

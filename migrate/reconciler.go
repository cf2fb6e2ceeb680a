package migrate

import (
	"context"

	"github.com/satishbabariya/cypher-go/internal/debug"
	"github.com/satishbabariya/cypher-go/migrate/introspect"
	"github.com/satishbabariya/cypher-go/schema"
)

// Reconcile brings the database schema in line with what the given models
// require.
//
// In ModeMigrate the pipeline is: fetch constraints, drop the unique
// constraints on target labels, fetch indexes, drop the indexes on target
// labels, then recreate the full desired state. Constraints are dropped
// strictly before indexes. In ModeUpdate nothing is dropped; only
// missing constraints and indexes are added.
//
// The first failing step aborts the run and is reported through
// StepError. There is no partial rollback; re-running the whole
// reconciliation is the recovery path.
func (e *Engine) Reconcile(ctx context.Context, models []*schema.Model, mode Mode) (*Result, error) {
	reqs := make([]schema.Requirement, len(models))
	labels := map[string]bool{}
	for i, m := range models {
		reqs[i] = m.Requirement()
		labels[reqs[i].Label] = true
	}

	result := &Result{Mode: mode}
	debug.Debug("starting schema reconciliation", "mode", mode.String(), "models", len(models))

	// Live state consulted during the create phase: in update mode it is
	// what the database already holds, in migrate mode the drop phase
	// leaves the target labels empty.
	existing := map[string]bool{}

	if mode == ModeMigrate {
		if err := e.dropPhase(ctx, labels, result); err != nil {
			return nil, err
		}
	} else {
		var err error
		existing, err = e.fetchExisting(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := e.createPhase(ctx, reqs, existing, result); err != nil {
		return nil, err
	}

	debug.Debug("schema reconciliation complete", "statements", len(result.Executed))
	return result, nil
}

// dropPhase removes every unique constraint and index on the target
// labels. Constraints go first: dropping a constraint also releases its
// implicit backing index, which could not be dropped directly. Unrelated
// labels are never touched.
func (e *Engine) dropPhase(ctx context.Context, labels map[string]bool, result *Result) error {
	constraints, err := e.intro.Constraints(ctx)
	if err != nil {
		return &StepError{Step: StepFetchConstraints, Err: err}
	}
	for _, entry := range constraints {
		if !labels[entry.Label] || entry.Kind != introspect.KindUnique {
			continue
		}
		if entry.Name == "" {
			// Drops address objects by name; every supported server
			// reports one.
			debug.Warn("skipping unnamed constraint", "label", entry.Label)
			continue
		}
		if err := e.run(ctx, StepDropConstraints, dropConstraint(entry.Name), result); err != nil {
			return err
		}
	}

	// Indexes are fetched only after the constraint drops have landed, so
	// implicitly-backed indexes are already gone from the listing.
	indexes, err := e.intro.Indexes(ctx)
	if err != nil {
		return &StepError{Step: StepFetchIndexes, Err: err}
	}
	for _, entry := range indexes {
		if !labels[entry.Label] {
			continue
		}
		if entry.Name == "" {
			debug.Warn("skipping unnamed index", "label", entry.Label)
			continue
		}
		if err := e.run(ctx, StepDropIndexes, dropIndex(entry.Name), result); err != nil {
			return err
		}
	}
	return nil
}

// createPhase issues the desired state: unique constraints first, then
// plain indexes, then existence constraints on enterprise stores.
// Entries already present in existing are skipped (update mode).
func (e *Engine) createPhase(ctx context.Context, reqs []schema.Requirement, existing map[string]bool, result *Result) error {
	for _, req := range reqs {
		for _, prop := range req.UniqueProperties {
			if existing[entryKey(introspect.KindUnique, req.Label, prop)] {
				continue
			}
			if err := e.run(ctx, StepCreateConstraints, createUniqueConstraint(req.Label, prop), result); err != nil {
				return err
			}
		}
	}

	for _, req := range reqs {
		unique := map[string]bool{}
		for _, prop := range req.UniqueProperties {
			unique[prop] = true
		}
		for _, prop := range req.IndexProperties {
			// A unique constraint already maintains a backing index on
			// its property.
			if unique[prop] {
				continue
			}
			if existing[entryKey(introspect.KindIndex, req.Label, prop)] {
				continue
			}
			if err := e.run(ctx, StepCreateIndexes, createIndex(req.Label, prop), result); err != nil {
				return err
			}
		}
	}

	if !e.enterprise {
		return nil
	}
	for _, req := range reqs {
		for _, prop := range req.ExistenceProperties {
			if existing[entryKey(introspect.KindExistence, req.Label, prop)] {
				continue
			}
			if err := e.run(ctx, StepCreateExistence, createExistenceConstraint(req.Label, prop), result); err != nil {
				return err
			}
		}
	}
	return nil
}

// fetchExisting snapshots the live schema for skip-if-present checks in
// update mode.
func (e *Engine) fetchExisting(ctx context.Context) (map[string]bool, error) {
	existing := map[string]bool{}

	constraints, err := e.intro.Constraints(ctx)
	if err != nil {
		return nil, &StepError{Step: StepFetchConstraints, Err: err}
	}
	for _, entry := range constraints {
		for _, prop := range entry.Properties {
			existing[entryKey(entry.Kind, entry.Label, prop)] = true
		}
	}

	indexes, err := e.intro.Indexes(ctx)
	if err != nil {
		return nil, &StepError{Step: StepFetchIndexes, Err: err}
	}
	for _, entry := range indexes {
		for _, prop := range entry.Properties {
			existing[entryKey(introspect.KindIndex, entry.Label, prop)] = true
		}
	}
	return existing, nil
}

func (e *Engine) run(ctx context.Context, step Step, cypher string, result *Result) error {
	debug.Debug("executing schema statement", "step", string(step), "cypher", cypher)
	if _, err := e.exec.Execute(ctx, cypher, nil); err != nil {
		debug.Error("schema statement failed", "step", string(step), "cypher", cypher, "error", err)
		return &StepError{Step: step, Err: err}
	}
	result.Executed = append(result.Executed, Statement{Step: step, Cypher: cypher})
	return nil
}

func entryKey(kind introspect.Kind, label, property string) string {
	return kind.String() + ":" + label + ":" + property
}

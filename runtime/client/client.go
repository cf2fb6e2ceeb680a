// Package client provides the runtime client for cypher-go: CRUD
// operations over compiled Cypher queries, generic over an Executor that
// owns the wire protocol.
package client

import (
	"context"
	"fmt"

	"github.com/satishbabariya/cypher-go/query/cyphergen"
	"github.com/satishbabariya/cypher-go/query/filter"
	"github.com/satishbabariya/cypher-go/schema"
)

// Executor runs a compiled query against the database. Implementations
// own connection management, retries and timeouts; the client issues one
// call per operation and passes executor errors through unchanged.
type Executor interface {
	Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}

// GraphClient is the main database client. It is safe for concurrent use.
type GraphClient struct {
	exec   Executor
	gen    *cyphergen.Generator
	models map[string]*schema.Model
}

// New creates a client over the given executor and model metadata.
func New(exec Executor, models []*schema.Model) *GraphClient {
	byName := make(map[string]*schema.Model, len(models))
	for _, m := range models {
		byName[m.Name] = m
	}
	return &GraphClient{
		exec:   exec,
		gen:    cyphergen.NewGenerator(),
		models: byName,
	}
}

// Models returns the registered model metadata.
func (c *GraphClient) Models() []*schema.Model {
	out := make([]*schema.Model, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, m)
	}
	return out
}

func (c *GraphClient) model(name string) (*schema.Model, error) {
	m, ok := c.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", name)
	}
	return m, nil
}

// CompileFind compiles a read query without executing it.
func (c *GraphClient) CompileFind(model string, f *filter.Filter) (*cyphergen.CypherQuery, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, err
	}
	return c.gen.GenerateFind(m.Label(), f)
}

// CompileCount compiles a count query without executing it.
func (c *GraphClient) CompileCount(model string, where filter.Predicate) (*cyphergen.CypherQuery, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, err
	}
	return c.gen.GenerateCount(m.Label(), where)
}

// CompileUpdateAll compiles a bulk update without executing it.
func (c *GraphClient) CompileUpdateAll(model string, where filter.Predicate, data map[string]any) (*cyphergen.CypherQuery, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, err
	}
	return c.gen.GenerateUpdateAll(m.Label(), where, data)
}

// CompileDestroyAll compiles a bulk delete without executing it.
func (c *GraphClient) CompileDestroyAll(model string, where filter.Predicate) (*cyphergen.CypherQuery, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, err
	}
	return c.gen.GenerateDestroyAll(m.Label(), where)
}

// Find returns the nodes matching the filter.
func (c *GraphClient) Find(ctx context.Context, model string, f *filter.Filter) ([]map[string]any, error) {
	q, err := c.CompileFind(model, f)
	if err != nil {
		return nil, err
	}
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return nil, err
	}
	return nodeRows(rows), nil
}

// FindByID returns the node with the given id, or nil when absent.
func (c *GraphClient) FindByID(ctx context.Context, model string, id any) (map[string]any, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, err
	}
	limit := 1
	rows, err := c.Find(ctx, model, &filter.Filter{
		Where: &filter.Comparison{Field: m.IDProperty, Op: filter.OpEq, Value: id},
		Limit: &limit,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Count returns the number of nodes matching the predicate.
func (c *GraphClient) Count(ctx context.Context, model string, where filter.Predicate) (int64, error) {
	q, err := c.CompileCount(model, where)
	if err != nil {
		return 0, err
	}
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return 0, err
	}
	return countFrom(rows)
}

// Create inserts a new node and returns its stored properties.
func (c *GraphClient) Create(ctx context.Context, model string, props map[string]any) (map[string]any, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, err
	}
	q := c.gen.GenerateCreate(m.Label(), props)
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return nil, err
	}
	return firstNode(rows), nil
}

// Save writes the whole node: created when absent, fully overwritten when
// present. Properties omitted from props are removed from an existing
// node. props must include the model's id property.
func (c *GraphClient) Save(ctx context.Context, model string, props map[string]any) (map[string]any, error) {
	m, id, err := c.modelAndID(model, props)
	if err != nil {
		return nil, err
	}
	q := c.gen.GenerateSave(m.Label(), m.IDProperty, id, props)
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return nil, err
	}
	return firstNode(rows), nil
}

// UpdateOrCreate merges props into the node: created when absent, merged
// when present. Properties omitted from props keep their stored values,
// which is the deliberate counterpart to Save's overwrite.
func (c *GraphClient) UpdateOrCreate(ctx context.Context, model string, props map[string]any) (map[string]any, error) {
	m, id, err := c.modelAndID(model, props)
	if err != nil {
		return nil, err
	}
	q := c.gen.GenerateMergeUpdate(m.Label(), m.IDProperty, id, props)
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return nil, err
	}
	return firstNode(rows), nil
}

// UpdateAll merges data into every node matching the predicate and
// returns the affected count.
func (c *GraphClient) UpdateAll(ctx context.Context, model string, where filter.Predicate, data map[string]any) (int64, error) {
	q, err := c.CompileUpdateAll(model, where, data)
	if err != nil {
		return 0, err
	}
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return 0, err
	}
	return countFrom(rows)
}

// DestroyAll deletes every node matching the predicate and returns the
// deleted count.
func (c *GraphClient) DestroyAll(ctx context.Context, model string, where filter.Predicate) (int64, error) {
	q, err := c.CompileDestroyAll(model, where)
	if err != nil {
		return 0, err
	}
	rows, err := c.exec.Execute(ctx, q.Cypher, q.Params)
	if err != nil {
		return 0, err
	}
	return countFrom(rows)
}

// DeleteByID deletes the node with the given id. It reports whether a
// node was actually deleted.
func (c *GraphClient) DeleteByID(ctx context.Context, model string, id any) (bool, error) {
	m, err := c.model(model)
	if err != nil {
		return false, err
	}
	n, err := c.DestroyAll(ctx, model, &filter.Comparison{Field: m.IDProperty, Op: filter.OpEq, Value: id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *GraphClient) modelAndID(model string, props map[string]any) (*schema.Model, any, error) {
	m, err := c.model(model)
	if err != nil {
		return nil, nil, err
	}
	id, ok := props[m.IDProperty]
	if !ok || id == nil {
		return nil, nil, fmt.Errorf("model %q: property %q is required for save", model, m.IDProperty)
	}
	return m, id, nil
}

// Package cyphergen compiles parsed filters into parameterized Cypher.
//
// Structure comes from trusted model metadata (labels, property names are
// interpolated into the query text); every caller-supplied value travels
// as a bound parameter, including SKIP and LIMIT. That split is a security
// invariant, not a style choice.
package cyphergen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/cypher-go/internal/debug"
	"github.com/satishbabariya/cypher-go/query/filter"
)

// CypherQuery is a compiled query: text plus bound parameters.
type CypherQuery struct {
	Cypher string
	Params map[string]any
}

// Generator compiles filters into Cypher queries. It is stateless and safe
// for concurrent use; parameter naming state is fresh per call.
type Generator struct{}

// NewGenerator creates a new Cypher generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateFind compiles a read query:
// MATCH (n:Label) [WHERE ...] RETURN n|n.f,... [ORDER BY ...] [SKIP $p] [LIMIT $p]
func (g *Generator) GenerateFind(label string, f *filter.Filter) (*CypherQuery, error) {
	if f == nil {
		f = &filter.Filter{}
	}

	parts := []string{matchClause(label)}
	var params map[string]any

	whereFrag, whereParams, err := CompileWhere(f.Where)
	if err != nil {
		return nil, err
	}
	params = whereParams
	if whereFrag != "" {
		parts = append(parts, "WHERE "+whereFrag)
	}

	parts = append(parts, "RETURN "+CompileReturn(f.Fields))

	if order := CompileOrder(f.Order); order != "" {
		parts = append(parts, "ORDER BY "+order)
	}

	if f.Skip != nil {
		p := paramName("skip")
		params[p] = *f.Skip
		parts = append(parts, "SKIP $"+p)
	}
	if f.Limit != nil {
		p := paramName("limit")
		params[p] = *f.Limit
		parts = append(parts, "LIMIT $"+p)
	}

	return finish(parts, params), nil
}

// GenerateCount compiles a counting query over the matching nodes.
func (g *Generator) GenerateCount(label string, where filter.Predicate) (*CypherQuery, error) {
	parts := []string{matchClause(label)}

	whereFrag, params, err := CompileWhere(where)
	if err != nil {
		return nil, err
	}
	if whereFrag != "" {
		parts = append(parts, "WHERE "+whereFrag)
	}
	parts = append(parts, "RETURN COUNT(n) AS count")

	return finish(parts, params), nil
}

// GenerateCreate compiles a node creation. Properties travel as a single
// map parameter.
func (g *Generator) GenerateCreate(label string, props map[string]any) *CypherQuery {
	p := paramName("props")
	parts := []string{
		fmt.Sprintf("CREATE (n:%s $%s)", label, p),
		"RETURN n",
	}
	return finish(parts, map[string]any{p: props})
}

// GenerateSave compiles a whole-node write: the node is created if absent,
// and fully overwritten if present. Properties missing from props are
// removed from an existing node.
func (g *Generator) GenerateSave(label, idProp string, id any, props map[string]any) *CypherQuery {
	return g.generateMerge(label, idProp, id, props, "=")
}

// GenerateMergeUpdate compiles a partial write: the node is created if
// absent, and merged if present. Properties missing from props keep their
// stored values. Callers rely on the distinction from GenerateSave.
func (g *Generator) GenerateMergeUpdate(label, idProp string, id any, props map[string]any) *CypherQuery {
	return g.generateMerge(label, idProp, id, props, "+=")
}

func (g *Generator) generateMerge(label, idProp string, id any, props map[string]any, matchSet string) *CypherQuery {
	idParam := paramName(idProp)
	propsParam := paramName("props")
	parts := []string{
		fmt.Sprintf("MERGE (n:%s {%s: $%s})", label, idProp, idParam),
		fmt.Sprintf("ON CREATE SET n = $%s", propsParam),
		fmt.Sprintf("ON MATCH SET n %s $%s", matchSet, propsParam),
		"RETURN n",
	}
	return finish(parts, map[string]any{idParam: id, propsParam: props})
}

// GenerateUpdateAll compiles a bulk partial update of every matching node,
// returning the affected count.
func (g *Generator) GenerateUpdateAll(label string, where filter.Predicate, props map[string]any) (*CypherQuery, error) {
	parts := []string{matchClause(label)}

	whereFrag, params, err := CompileWhere(where)
	if err != nil {
		return nil, err
	}
	if whereFrag != "" {
		parts = append(parts, "WHERE "+whereFrag)
	}

	p := paramName("props")
	params[p] = props
	parts = append(parts,
		fmt.Sprintf("SET n += $%s", p),
		"RETURN COUNT(n) AS count",
	)

	return finish(parts, params), nil
}

// GenerateDestroyAll compiles a bulk delete of every matching node,
// returning the deleted count. Relationships are detached so the delete
// cannot fail on connected nodes.
func (g *Generator) GenerateDestroyAll(label string, where filter.Predicate) (*CypherQuery, error) {
	parts := []string{matchClause(label)}

	whereFrag, params, err := CompileWhere(where)
	if err != nil {
		return nil, err
	}
	if whereFrag != "" {
		parts = append(parts, "WHERE "+whereFrag)
	}
	parts = append(parts,
		"DETACH DELETE n",
		"RETURN COUNT(n) AS count",
	)

	return finish(parts, params), nil
}

func matchClause(label string) string {
	return fmt.Sprintf("MATCH (n:%s)", label)
}

func finish(parts []string, params map[string]any) *CypherQuery {
	if params == nil {
		params = make(map[string]any)
	}
	q := &CypherQuery{
		Cypher: strings.Join(parts, " "),
		Params: params,
	}
	debug.Debug("compiled cypher", "query", q.Cypher, "params", len(q.Params))
	return q
}

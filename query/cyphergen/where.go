package cyphergen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/cypher-go/internal/debug"
	"github.com/satishbabariya/cypher-go/query/filter"
)

// nodeAlias is the variable bound to the matched node in every generated
// query. Fixed, since the connector never compiles multi-node patterns.
const nodeAlias = "n"

// CompileWhere compiles a predicate tree into a Cypher expression and its
// parameter bindings. The fragment comes back without the WHERE keyword;
// a nil predicate compiles to an empty fragment. Every bound value gets a
// freshly generated parameter name, so fragments from independent calls
// can be merged into one query without collisions.
func CompileWhere(p filter.Predicate) (string, map[string]any, error) {
	params := make(map[string]any)
	frag, err := compilePredicate(p, params)
	if err != nil {
		return "", nil, err
	}
	return frag, params, nil
}

func compilePredicate(p filter.Predicate, params map[string]any) (string, error) {
	switch node := p.(type) {
	case nil:
		return "", nil
	case *filter.Logical:
		return compileLogical(node, params)
	case *filter.Comparison:
		return compileComparison(node, params)
	default:
		return "", fmt.Errorf("unsupported predicate node %T", p)
	}
}

func compileLogical(node *filter.Logical, params map[string]any) (string, error) {
	var parts []string
	for _, child := range node.Children {
		frag, err := compilePredicate(child, params)
		if err != nil {
			return "", err
		}
		// Children can compile to nothing (unknown operators); a join
		// must never produce a dangling AND/OR.
		if frag != "" {
			parts = append(parts, "("+frag+")")
		}
	}
	if len(parts) == 0 {
		return "", nil
	}

	if node.Op == filter.Not {
		// NOT negates its whole child group.
		return "NOT (" + strings.Join(parts, " AND ") + ")", nil
	}
	return "(" + strings.Join(parts, " "+node.Op.String()+" ") + ")", nil
}

func compileComparison(c *filter.Comparison, params map[string]any) (string, error) {
	field := nodeAlias + "." + c.Field

	switch c.Op {
	case filter.OpEq:
		if c.Value == nil {
			return field + " IS NULL", nil
		}
		p := paramName(c.Field)
		params[p] = c.Value
		return fmt.Sprintf("%s = $%s", field, p), nil

	case filter.OpNeq:
		p := paramName(c.Field)
		params[p] = c.Value
		return fmt.Sprintf("NOT %s = $%s", field, p), nil

	case filter.OpGt, filter.OpGte, filter.OpLt, filter.OpLte:
		p := paramName(c.Field)
		params[p] = c.Value
		return fmt.Sprintf("%s %s $%s", field, rangeOperator(c.Op), p), nil

	case filter.OpBetween:
		if len(c.Values) != 2 {
			return "", fmt.Errorf("between on %q requires exactly two values, got %d", c.Field, len(c.Values))
		}
		// Exclusive bounds, matching the historical connector behavior.
		lo := paramName(c.Field)
		hi := paramName(c.Field)
		params[lo] = c.Values[0]
		params[hi] = c.Values[1]
		return fmt.Sprintf("(%s > $%s AND %s < $%s)", field, lo, field, hi), nil

	case filter.OpIn:
		return compileInList(field, c, params, false), nil

	case filter.OpNotIn:
		return compileInList(field, c, params, true), nil

	case filter.OpLike:
		p := paramName(c.Field)
		params[p] = likePattern(c.Value)
		return fmt.Sprintf("%s =~ $%s", field, p), nil

	case filter.OpNotLike:
		p := paramName(c.Field)
		params[p] = likePattern(c.Value)
		return fmt.Sprintf("NOT %s =~ $%s", field, p), nil

	case filter.OpIsNull:
		return field + " IS NULL", nil

	default:
		// Unrecognized operators are dropped without a fragment or a
		// binding. Historical behavior callers depend on.
		debug.Debug("skipping unsupported filter operator", "field", c.Field, "op", c.RawOp)
		return "", nil
	}
}

// compileInList emits one fresh parameter per element. An empty list still
// emits the membership test against an empty literal, which matches zero
// rows rather than all of them.
func compileInList(field string, c *filter.Comparison, params map[string]any, negate bool) string {
	placeholders := make([]string, len(c.Values))
	for i, v := range c.Values {
		p := paramName(c.Field)
		params[p] = v
		placeholders[i] = "$" + p
	}
	frag := fmt.Sprintf("%s IN [%s]", field, strings.Join(placeholders, ", "))
	if negate {
		return "NOT " + frag
	}
	return frag
}

func rangeOperator(op filter.Op) string {
	switch op {
	case filter.OpGt:
		return ">"
	case filter.OpGte:
		return ">="
	case filter.OpLt:
		return "<"
	default:
		return "<="
	}
}

// likePattern anchors the caller's pattern for a substring-style match.
// The pattern is deliberately not regex-escaped: callers may use regex
// metacharacters, and must pre-escape the ones they don't intend as regex.
func likePattern(value any) string {
	if s, ok := value.(string); ok {
		return ".*" + s + ".*"
	}
	return fmt.Sprintf(".*%v.*", value)
}

package filter

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError reports a malformed filter object. It is raised before any
// query is compiled or any network call is made.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid filter: %s", e.Reason)
	}
	return fmt.Sprintf("invalid filter on %q: %s", e.Field, e.Reason)
}

// operator keys recognized inside a condition object
var comparisonOps = map[string]Op{
	"eq":      OpEq,
	"neq":     OpNeq,
	"gt":      OpGt,
	"gte":     OpGte,
	"lt":      OpLt,
	"lte":     OpLte,
	"between": OpBetween,
	"inq":     OpIn,
	"nin":     OpNotIn,
	"like":    OpLike,
	"nlike":   OpNotLike,
}

var logicalOps = map[string]LogicalOp{
	"and": And,
	"or":  Or,
	"xor": Xor,
	"not": Not,
}

// ParseFilter parses a LoopBack-style filter object into a Filter.
// Recognized keys: where, order, fields, skip, limit. Unknown top-level
// keys are ignored.
func ParseFilter(raw map[string]any) (*Filter, error) {
	f := &Filter{}
	if raw == nil {
		return f, nil
	}

	if w, ok := raw["where"]; ok && w != nil {
		wm, ok := w.(map[string]any)
		if !ok {
			return nil, &ParseError{Reason: "where must be an object"}
		}
		where, err := ParseWhere(wm)
		if err != nil {
			return nil, err
		}
		f.Where = where
	}

	if o, ok := raw["order"]; ok && o != nil {
		entries, err := parseOrder(o)
		if err != nil {
			return nil, err
		}
		f.Order = entries
	}

	if fl, ok := raw["fields"]; ok && fl != nil {
		fields, err := parseFields(fl)
		if err != nil {
			return nil, err
		}
		f.Fields = fields
	}

	if s, ok := raw["skip"]; ok && s != nil {
		n, err := asInt("skip", s)
		if err != nil {
			return nil, err
		}
		f.Skip = &n
	}

	if l, ok := raw["limit"]; ok && l != nil {
		n, err := asInt("limit", l)
		if err != nil {
			return nil, err
		}
		f.Limit = &n
	}

	return f, nil
}

// ParseWhere parses a where object into a predicate tree.
// A nil or empty object yields a nil predicate (match everything).
//
// Each key is either a logical operator (and/or/xor/not) whose value is a
// list of nested where objects, or a property name. A property value that
// is itself an object is a condition object ({gt: 5}, {inq: [...]}, ...);
// any other value is a bare equality test, with literal null meaning
// IS NULL. Multiple keys in one object are joined with AND.
func ParseWhere(raw map[string]any) (Predicate, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	// Map iteration order is not defined, so sort keys for deterministic
	// compilation. Source filter objects carry no reliable order anyway.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var children []Predicate
	for _, key := range keys {
		value := raw[key]

		if lop, ok := logicalOps[key]; ok {
			group, err := parseLogical(key, lop, value)
			if err != nil {
				return nil, err
			}
			if group != nil {
				children = append(children, group)
			}
			continue
		}

		conds, err := parseCondition(key, value)
		if err != nil {
			return nil, err
		}
		children = append(children, conds...)
	}

	if len(children) == 0 {
		return nil, nil
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Logical{Op: And, Children: children}, nil
}

func parseLogical(key string, op LogicalOp, value any) (Predicate, error) {
	var rawChildren []any
	switch v := value.(type) {
	case []any:
		rawChildren = v
	case []map[string]any:
		for _, m := range v {
			rawChildren = append(rawChildren, m)
		}
	case map[string]any:
		// not: {cond} is accepted as a one-element group
		rawChildren = []any{v}
	default:
		return nil, &ParseError{Field: key, Reason: "logical operator requires a list of conditions"}
	}

	var children []Predicate
	for _, rc := range rawChildren {
		m, ok := rc.(map[string]any)
		if !ok {
			return nil, &ParseError{Field: key, Reason: "logical operator children must be objects"}
		}
		child, err := ParseWhere(m)
		if err != nil {
			return nil, err
		}
		if child != nil {
			children = append(children, child)
		}
	}

	if len(children) == 0 {
		return nil, nil
	}
	return &Logical{Op: op, Children: children}, nil
}

// parseCondition parses a single property entry. A condition object with
// several operator keys produces one comparison per key.
func parseCondition(field string, value any) ([]Predicate, error) {
	cond, ok := value.(map[string]any)
	if !ok {
		// Bare value: equality, or IS NULL for literal null.
		if value == nil {
			return []Predicate{&Comparison{Field: field, Op: OpIsNull}}, nil
		}
		return []Predicate{&Comparison{Field: field, Op: OpEq, Value: value}}, nil
	}

	opKeys := make([]string, 0, len(cond))
	for k := range cond {
		opKeys = append(opKeys, k)
	}
	sort.Strings(opKeys)

	var out []Predicate
	for _, opKey := range opKeys {
		operand := cond[opKey]
		op, known := comparisonOps[opKey]
		if !known {
			out = append(out, &Comparison{Field: field, Op: OpUnknown, RawOp: opKey, Value: operand})
			continue
		}

		switch op {
		case OpBetween:
			vals, ok := asList(operand)
			if !ok || len(vals) != 2 {
				return nil, &ParseError{Field: field, Reason: "between requires exactly two values"}
			}
			out = append(out, &Comparison{Field: field, Op: op, Values: vals})
		case OpIn, OpNotIn:
			vals, ok := asList(operand)
			if !ok {
				return nil, &ParseError{Field: field, Reason: fmt.Sprintf("%s requires a list of values", opKey)}
			}
			out = append(out, &Comparison{Field: field, Op: op, Values: vals})
		case OpEq:
			if operand == nil {
				out = append(out, &Comparison{Field: field, Op: OpIsNull})
			} else {
				out = append(out, &Comparison{Field: field, Op: OpEq, Value: operand})
			}
		default:
			out = append(out, &Comparison{Field: field, Op: op, Value: operand})
		}
	}
	return out, nil
}

func parseOrder(value any) ([]OrderEntry, error) {
	var tokens []string
	switch v := value.(type) {
	case string:
		tokens = splitCommaList(v)
	case []string:
		tokens = v
	case []any:
		for _, t := range v {
			s, ok := t.(string)
			if !ok {
				return nil, &ParseError{Field: "order", Reason: "order entries must be strings"}
			}
			tokens = append(tokens, s)
		}
	default:
		return nil, &ParseError{Field: "order", Reason: "order must be a string or list of strings"}
	}

	entries := make([]OrderEntry, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			entries = append(entries, OrderEntry(t))
		}
	}
	return entries, nil
}

// parseFields accepts an array of names, a comma-joined string, or a map
// of booleans whose true keys are kept. Array and string forms preserve
// order; the map form is sorted by name since mappings carry no order.
func parseFields(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return splitCommaList(v), nil
	case []string:
		return v, nil
	case []any:
		var fields []string
		for _, f := range v {
			s, ok := f.(string)
			if !ok {
				return nil, &ParseError{Field: "fields", Reason: "field names must be strings"}
			}
			fields = append(fields, s)
		}
		return fields, nil
	case map[string]bool:
		var fields []string
		for name, keep := range v {
			if keep {
				fields = append(fields, name)
			}
		}
		sort.Strings(fields)
		return fields, nil
	case map[string]any:
		var fields []string
		for name, keep := range v {
			if b, ok := keep.(bool); ok && b {
				fields = append(fields, name)
			}
		}
		sort.Strings(fields)
		return fields, nil
	default:
		return nil, &ParseError{Field: "fields", Reason: "fields must be a list, comma string, or boolean map"}
	}
}

func splitCommaList(s string) []string {
	var out []string
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// asList normalizes list operands from their common decoded shapes.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

func asInt(field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, &ParseError{Field: field, Reason: "must be a number"}
	}
}

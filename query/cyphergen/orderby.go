package cyphergen

import (
	"strings"

	"github.com/satishbabariya/cypher-go/query/filter"
)

// CompileOrder compiles order entries into an ORDER BY field list
// (without the ORDER BY keyword). Each entry is a "field" or
// "field <direction>" token; the default direction is ascending.
//
// Direction matching is deliberately loose: only the first two letters of
// the direction token are inspected, case-insensitively, so "DESC",
// "desc" and even a bare "DE" all sort descending and anything else sorts
// ascending. Kept for compatibility with filters written against the
// historical connector.
func CompileOrder(entries []filter.OrderEntry) string {
	if len(entries) == 0 {
		return ""
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		token := strings.TrimSpace(string(entry))
		if token == "" {
			continue
		}

		name := token
		descending := false
		if i := strings.IndexAny(token, " \t"); i >= 0 {
			name = token[:i]
			dir := strings.ToUpper(strings.TrimSpace(token[i+1:]))
			descending = strings.HasPrefix(dir, "DE")
		}

		part := nodeAlias + "." + name
		if descending {
			part += " DESC"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// CompileReturn compiles the RETURN clause body: the whole node when no
// projection is given, otherwise the projected property list in the
// caller's order.
func CompileReturn(fields []string) string {
	if len(fields) == 0 {
		return nodeAlias
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = nodeAlias + "." + f
	}
	return strings.Join(parts, ", ")
}

package cyphergen

import (
	"strings"

	"github.com/google/uuid"
)

// paramName generates a parameter identifier for a bound value. Names are
// the property name plus a random 128-bit hex suffix, so two compilations
// of the same predicate never share a name and nested clauses cannot
// collide. The result is a valid Cypher parameter token (alnum and
// underscore only).
func paramName(field string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return sanitizeToken(field) + suffix
}

// sanitizeToken strips anything that is not legal inside a parameter name.
// Property names come from trusted model metadata, but dotted or bracketed
// names would otherwise break the parameter marker.
func sanitizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "p"
	}
	return b.String()
}

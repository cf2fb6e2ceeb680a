package client

import "fmt"

// nodeRows unwraps whole-node result rows. Queries without a projection
// return each node under the "n" column; projected queries return the
// property columns as-is.
func nodeRows(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if node, ok := row["n"].(map[string]any); ok {
			out = append(out, node)
			continue
		}
		out = append(out, row)
	}
	return out
}

func firstNode(rows []map[string]any) map[string]any {
	nodes := nodeRows(rows)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// countFrom extracts the aggregate from a COUNT(n) AS count result.
func countFrom(rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	switch v := rows[0]["count"].(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("count query returned %T, want a number", rows[0]["count"])
	}
}

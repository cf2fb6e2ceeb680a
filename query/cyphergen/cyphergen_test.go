package cyphergen

import (
	"reflect"
	"testing"

	"github.com/satishbabariya/cypher-go/query/filter"
)

func TestGenerateFind(t *testing.T) {
	g := NewGenerator()
	skip, limit := 10, 5

	tests := []struct {
		name       string
		filter     *filter.Filter
		wantCypher string
		wantValues []any
	}{
		{
			name:       "nil filter matches everything",
			filter:     nil,
			wantCypher: "MATCH (n:Post) RETURN n",
		},
		{
			name: "where clause",
			filter: &filter.Filter{
				Where: &filter.Comparison{Field: "title", Op: filter.OpEq, Value: "My Post"},
			},
			wantCypher: "MATCH (n:Post) WHERE n.title = $p0 RETURN n",
			wantValues: []any{"My Post"},
		},
		{
			name: "projection and order",
			filter: &filter.Filter{
				Fields: []string{"title", "content"},
				Order:  []filter.OrderEntry{"age DESC", "title"},
			},
			wantCypher: "MATCH (n:Post) RETURN n.title, n.content ORDER BY n.age DESC, n.title",
		},
		{
			name: "skip and limit are bound parameters",
			filter: &filter.Filter{
				Skip:  &skip,
				Limit: &limit,
			},
			wantCypher: "MATCH (n:Post) RETURN n SKIP $p0 LIMIT $p1",
			wantValues: []any{10, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := g.GenerateFind("Post", tt.filter)
			if err != nil {
				t.Fatalf("GenerateFind() error = %v", err)
			}
			got, values := normalize(t, q.Cypher, q.Params)
			if got != tt.wantCypher {
				t.Errorf("cypher = %q, want %q", got, tt.wantCypher)
			}
			if len(tt.wantValues) != 0 || len(values) != 0 {
				if !reflect.DeepEqual(values, tt.wantValues) {
					t.Errorf("bound values = %v, want %v", values, tt.wantValues)
				}
			}
		})
	}
}

func TestGenerateCount(t *testing.T) {
	g := NewGenerator()

	q, err := g.GenerateCount("Post", &filter.Comparison{Field: "age", Op: filter.OpGt, Value: 21})
	if err != nil {
		t.Fatalf("GenerateCount() error = %v", err)
	}
	got, _ := normalize(t, q.Cypher, q.Params)
	want := "MATCH (n:Post) WHERE n.age > $p0 RETURN COUNT(n) AS count"
	if got != want {
		t.Errorf("cypher = %q, want %q", got, want)
	}

	q, err = g.GenerateCount("Post", nil)
	if err != nil {
		t.Fatalf("GenerateCount() error = %v", err)
	}
	if q.Cypher != "MATCH (n:Post) RETURN COUNT(n) AS count" {
		t.Errorf("cypher = %q", q.Cypher)
	}
}

func TestGenerateCreate(t *testing.T) {
	g := NewGenerator()
	props := map[string]any{"title": "a", "content": "b"}

	q := g.GenerateCreate("Post", props)
	got, values := normalize(t, q.Cypher, q.Params)
	if want := "CREATE (n:Post $p0) RETURN n"; got != want {
		t.Errorf("cypher = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(values, []any{props}) {
		t.Errorf("bound values = %v", values)
	}
}

// Save overwrites the whole node on match; update-or-create merges. The
// distinction is behavior callers depend on: a partial save loses the
// omitted properties, a partial merge keeps them.
func TestSaveOverwritesAndMergeUpdatePreserves(t *testing.T) {
	g := NewGenerator()
	partial := map[string]any{"id": 7, "content": "AAA"}

	save := g.GenerateSave("Post", "id", 7, partial)
	gotSave, saveValues := normalize(t, save.Cypher, save.Params)
	wantSave := "MERGE (n:Post {id: $p0}) ON CREATE SET n = $p1 ON MATCH SET n = $p1 RETURN n"
	if gotSave != wantSave {
		t.Errorf("save cypher = %q, want %q", gotSave, wantSave)
	}
	if !reflect.DeepEqual(saveValues, []any{7, partial}) {
		t.Errorf("save values = %v", saveValues)
	}

	merge := g.GenerateMergeUpdate("Post", "id", 7, partial)
	gotMerge, _ := normalize(t, merge.Cypher, merge.Params)
	wantMerge := "MERGE (n:Post {id: $p0}) ON CREATE SET n = $p1 ON MATCH SET n += $p1 RETURN n"
	if gotMerge != wantMerge {
		t.Errorf("merge cypher = %q, want %q", gotMerge, wantMerge)
	}
}

func TestGenerateUpdateAll(t *testing.T) {
	g := NewGenerator()
	props := map[string]any{"published": true}

	q, err := g.GenerateUpdateAll("Post", &filter.Comparison{Field: "age", Op: filter.OpLt, Value: 10}, props)
	if err != nil {
		t.Fatalf("GenerateUpdateAll() error = %v", err)
	}
	got, values := normalize(t, q.Cypher, q.Params)
	want := "MATCH (n:Post) WHERE n.age < $p0 SET n += $p1 RETURN COUNT(n) AS count"
	if got != want {
		t.Errorf("cypher = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(values, []any{10, props}) {
		t.Errorf("bound values = %v", values)
	}
}

func TestGenerateDestroyAll(t *testing.T) {
	g := NewGenerator()

	q, err := g.GenerateDestroyAll("Post", &filter.Comparison{Field: "title", Op: filter.OpEq, Value: "x"})
	if err != nil {
		t.Fatalf("GenerateDestroyAll() error = %v", err)
	}
	got, _ := normalize(t, q.Cypher, q.Params)
	want := "MATCH (n:Post) WHERE n.title = $p0 DETACH DELETE n RETURN COUNT(n) AS count"
	if got != want {
		t.Errorf("cypher = %q, want %q", got, want)
	}

	q, err = g.GenerateDestroyAll("Post", nil)
	if err != nil {
		t.Fatalf("GenerateDestroyAll() error = %v", err)
	}
	if q.Cypher != "MATCH (n:Post) DETACH DELETE n RETURN COUNT(n) AS count" {
		t.Errorf("cypher = %q", q.Cypher)
	}
}

package schema

import (
	"fmt"
)

// Property is one declared node property.
type Property struct {
	Name     string
	Type     string
	Optional bool
	ID       bool
	Unique   bool
	Index    bool
	Required bool
}

// Model is the metadata the generator and migration engine work from:
// a label plus its declared properties and index annotations. Instances
// are immutable after conversion.
type Model struct {
	Name       string
	IDProperty string
	Properties []Property

	// indexFields collects the per-property expansions of @@index block
	// attributes, in declaration order.
	indexFields []string
}

// Label returns the node label stored in the graph for this model.
// Model names map to labels verbatim.
func (m *Model) Label() string {
	return m.Name
}

// Requirement is the index/constraint state a model requires of the
// database. Property lists are ordered and deduplicated. The id property
// is always a member of Unique and Existence.
type Requirement struct {
	Label               string
	IDProperty          string
	UniqueProperties    []string
	IndexProperties     []string
	ExistenceProperties []string
}

// ModelsFromAst converts a parse tree into model metadata, validating id
// and attribute usage.
func ModelsFromAst(ast *SchemaAst) ([]*Model, error) {
	models := make([]*Model, 0, len(ast.Nodes))
	seen := map[string]bool{}

	for _, node := range ast.Nodes {
		if seen[node.Name] {
			return nil, fmt.Errorf("node %q declared twice", node.Name)
		}
		seen[node.Name] = true

		model, err := modelFromNode(node)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, nil
}

func modelFromNode(node *NodeDecl) (*Model, error) {
	model := &Model{Name: node.Name}
	fields := map[string]bool{}

	for _, f := range node.Fields {
		if fields[f.Name] {
			return nil, fmt.Errorf("node %q: field %q declared twice", node.Name, f.Name)
		}
		fields[f.Name] = true

		prop := Property{Name: f.Name, Type: f.Type, Optional: f.Optional}
		for _, attr := range f.Attributes {
			switch attr.Name {
			case "id":
				prop.ID = true
			case "unique":
				prop.Unique = true
			case "index":
				prop.Index = true
			case "required":
				prop.Required = true
			default:
				return nil, fmt.Errorf("node %q: unknown attribute @%s on field %q", node.Name, attr.Name, f.Name)
			}
		}

		if prop.ID {
			if model.IDProperty != "" {
				return nil, fmt.Errorf("node %q: multiple @id fields", node.Name)
			}
			if prop.Optional {
				return nil, fmt.Errorf("node %q: @id field %q cannot be optional", node.Name, f.Name)
			}
			model.IDProperty = f.Name
		}
		model.Properties = append(model.Properties, prop)
	}

	if model.IDProperty == "" {
		return nil, fmt.Errorf("node %q: missing @id field", node.Name)
	}

	for _, block := range node.BlockAttributes {
		if block.Name != "index" {
			return nil, fmt.Errorf("node %q: unknown block attribute @@%s", node.Name, block.Name)
		}
		if len(block.Fields) == 0 {
			return nil, fmt.Errorf("node %q: @@index requires at least one field", node.Name)
		}
		for _, name := range block.Fields {
			if !fields[name] {
				return nil, fmt.Errorf("node %q: @@index references unknown field %q", node.Name, name)
			}
			model.indexFields = append(model.indexFields, name)
		}
	}

	return model, nil
}

// Requirement computes the index/constraint state this model requires.
//
// The backing store only enforces single-property uniqueness, so
// composite declarations are not attempted: a multi-property @@index
// degrades to one independent single-property index per named field.
func (m *Model) Requirement() Requirement {
	req := Requirement{
		Label:      m.Label(),
		IDProperty: m.IDProperty,
	}

	addUnique := dedupAppender(&req.UniqueProperties)
	addIndex := dedupAppender(&req.IndexProperties)
	addExistence := dedupAppender(&req.ExistenceProperties)

	addUnique(m.IDProperty)
	addExistence(m.IDProperty)

	for _, p := range m.Properties {
		if p.Unique {
			addUnique(p.Name)
		}
		if p.Index {
			addIndex(p.Name)
		}
		if p.Required {
			addExistence(p.Name)
		}
	}
	for _, name := range m.indexFields {
		addIndex(name)
	}

	return req
}

// dedupAppender appends to the target slice, skipping values already
// present, preserving first-seen order.
func dedupAppender(target *[]string) func(string) {
	seen := map[string]bool{}
	return func(v string) {
		if !seen[v] {
			seen[v] = true
			*target = append(*target, v)
		}
	}
}

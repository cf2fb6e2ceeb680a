package schema

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SchemaAst is the parse tree of a schema file: a sequence of node
// declarations.
type SchemaAst struct {
	Pos   lexer.Position
	Nodes []*NodeDecl `@@*`
}

// NodeDecl represents one node (label) declaration.
type NodeDecl struct {
	Pos             lexer.Position
	Name            string            `"node" @Ident`
	Fields          []*Field          `"{" @@*`
	BlockAttributes []*BlockAttribute `@@* "}"`
}

// Field represents a property declaration inside a node block.
type Field struct {
	Pos        lexer.Position
	Name       string       `@Ident`
	Type       string       `@Ident`
	Optional   bool         `@Question?`
	Attributes []*Attribute `@@*`
}

// HasAttribute reports whether the field carries the named attribute.
func (f *Field) HasAttribute(name string) bool {
	for _, a := range f.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Attribute represents a field-level attribute (@id, @unique, @index,
// @required).
type Attribute struct {
	Pos  lexer.Position
	Name string `"@" @Ident`
}

// BlockAttribute represents a node-level attribute, currently only
// @@index([field, ...]).
type BlockAttribute struct {
	Pos    lexer.Position
	Name   string   `"@@" @Ident`
	Fields []string `("(" "[" @Ident ("," @Ident)* "]" ")")?`
}

// Package schema parses graph model definitions and derives the model
// metadata the query generator and migration engine consume.
//
// The definition language is a small Prisma-flavoured DSL:
//
//	node User {
//	    id    String @id
//	    email String @unique
//	    age   Int    @index
//	    name  String @required
//	    bio   String?
//
//	    @@index([email, age])
//	}
package schema

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/spf13/afero"
)

// parser is the Participle parser instance.
var parser = participle.MustBuild[SchemaAst](
	participle.Lexer(graphLexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// ParseSchema parses a schema from an io.Reader.
func ParseSchema(filename string, r io.Reader) (*SchemaAst, error) {
	return parser.Parse(filename, r)
}

// ParseSchemaString parses a schema from a string.
func ParseSchemaString(filename, input string) (*SchemaAst, error) {
	return ParseSchema(filename, strings.NewReader(input))
}

// ParseSchemaFile parses a schema file from the given filesystem.
func ParseSchemaFile(fs afero.Fs, path string) (*SchemaAst, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSchema(path, f)
}

// ParseModels parses an in-memory schema and converts it to model
// metadata.
func ParseModels(input string) ([]*Model, error) {
	ast, err := ParseSchemaString("schema", input)
	if err != nil {
		return nil, err
	}
	return ModelsFromAst(ast)
}

// LoadModels parses a schema file and converts it to model metadata.
func LoadModels(fs afero.Fs, path string) ([]*Model, error) {
	ast, err := ParseSchemaFile(fs, path)
	if err != nil {
		return nil, err
	}
	return ModelsFromAst(ast)
}

package graphql

import (
	_ "embed"
	"sync"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var sourceData string

var loadSchema = sync.OnceValues(func() (*ast.Schema, error) {
	return gqlparser.LoadSchema(&ast.Source{
		Name:    "schema.graphqls",
		Input:   sourceData,
		BuiltIn: false,
	})
})

// Schema returns the parsed schema served on /graphql.
func Schema() (*ast.Schema, error) {
	return loadSchema()
}

// SDL returns the schema source.
func SDL() string {
	return sourceData
}

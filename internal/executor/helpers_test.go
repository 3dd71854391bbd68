package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/hanpama/bookgraph/internal/language"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(q)
	require.NoError(t, err)
	return doc
}

// objectType declares an object type holding fields in the given order.
func objectType(name string, fields ...*schema.Field) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, "")
	for _, f := range fields {
		t.AddField(f)
	}
	return t
}

// schemaWithQuery registers query as the root query type plus any other types.
func schemaWithQuery(query *schema.Type, others ...*schema.Type) *schema.Schema {
	sch := schema.NewSchema("").SetQueryType(query.Name).AddType(query)
	for _, t := range others {
		sch.AddType(t)
	}
	return sch
}

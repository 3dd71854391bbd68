package introspection

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	executor "github.com/hanpama/bookgraph/internal/executor"
	language "github.com/hanpama/bookgraph/internal/language"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

func buildSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch := schema.NewSchema("")
	pet := schema.NewType("Pet", schema.TypeKindObject, "A pet").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("legs", "Leg count", schema.NamedType("Int")).Deprecate("Count paws"))
	query := schema.NewType("Query", schema.TypeKindObject, "Root").
		AddField(schema.NewField("hello", "", schema.NamedType("String"))).
		AddField(schema.NewField("pets", "", schema.ListType(schema.NamedType("Pet"))).
			AddArgument(schema.NewInputValue("first", "", schema.NamedType("Int")).SetDefault(10)))
	sch.SetQueryType("Query").AddType(query).AddType(pet)
	require.NoError(t, sch.Validate())
	return sch
}

func execute(t *testing.T, sch *schema.Schema, query string) *executor.ExecutionResult {
	t.Helper()
	wrapper := Wrap(executor.NewMockRuntime(nil), sch)
	exec := executor.NewExecutor(wrapper.Runtime, wrapper.Schema)
	doc, err := language.ParseQuery(query)
	require.NoError(t, err)
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Empty(t, res.Errors)
	return res
}

func TestIntrospection_QueryTypeName(t *testing.T) {
	res := execute(t, buildSchema(t), "{__schema{queryType{name} mutationType{name}}}")

	want := map[string]any{"__schema": map[string]any{
		"queryType":    map[string]any{"name": "Query"},
		"mutationType": nil,
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestIntrospection_TypeFields(t *testing.T) {
	res := execute(t, buildSchema(t), `{
		__type(name: "Pet") {
			kind name description
			fields(includeDeprecated: true) {
				name isDeprecated deprecationReason
				type { kind name ofType { kind name } }
			}
		}
	}`)

	want := map[string]any{"__type": map[string]any{
		"kind":        "OBJECT",
		"name":        "Pet",
		"description": "A pet",
		"fields": []any{
			map[string]any{
				"name": "name", "isDeprecated": false, "deprecationReason": nil,
				"type": map[string]any{"kind": "NON_NULL", "name": nil, "ofType": map[string]any{"kind": "SCALAR", "name": "String"}},
			},
			map[string]any{
				"name": "legs", "isDeprecated": true, "deprecationReason": "Count paws",
				"type": map[string]any{"kind": "SCALAR", "name": "Int", "ofType": nil},
			},
		},
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestIntrospection_HidesDeprecatedAndEntryPoints(t *testing.T) {
	res := execute(t, buildSchema(t), `{
		pet: __type(name: "Pet") { fields { name } }
		query: __type(name: "Query") { fields { name args { name defaultValue } } }
	}`)

	want := map[string]any{
		"pet": map[string]any{"fields": []any{map[string]any{"name": "name"}}},
		"query": map[string]any{"fields": []any{
			map[string]any{"name": "hello", "args": []any{}},
			map[string]any{"name": "pets", "args": []any{map[string]any{"name": "first", "defaultValue": "10"}}},
		}},
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestIntrospection_TypesAndDirectives(t *testing.T) {
	res := execute(t, buildSchema(t), `{ __schema { types { name } directives { name locations } } }`)

	sch := res.Data.(map[string]any)["__schema"].(map[string]any)
	var names []string
	for _, typ := range sch["types"].([]any) {
		names = append(names, typ.(map[string]any)["name"].(string))
	}
	assert.Contains(t, names, "Pet")
	assert.Contains(t, names, "__Schema")
	assert.IsIncreasing(t, names)

	wantDirectives := []any{
		map[string]any{"name": "include", "locations": []any{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}},
		map[string]any{"name": "skip", "locations": []any{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}},
	}
	if diff := cmp.Diff(wantDirectives, sch["directives"]); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestIntrospection_UnknownType(t *testing.T) {
	res := execute(t, buildSchema(t), `{ __type(name: "Nope") { name } }`)
	assert.Equal(t, map[string]any{"__type": nil}, res.Data)
}

func TestIntrospection_DelegatesOtherFields(t *testing.T) {
	sch := buildSchema(t)
	base := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.hello": executor.NewMockValueResolver("world"),
	})
	wrapper := Wrap(base, sch)
	exec := executor.NewExecutor(wrapper.Runtime, wrapper.Schema)
	doc, err := language.ParseQuery("{ hello __typename }")
	require.NoError(t, err)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"hello": "world", "__typename": "Query"}, res.Data)
	assert.Len(t, sch.GetQueryType().Fields, 2, "original schema is not modified")
}

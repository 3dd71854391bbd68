package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/bookgraph/internal/schema"
)

var ignoreLocations = cmpopts.IgnoreFields(GraphQLError{}, "Locations")

// shelfSchema is a small two-type schema: Query.book returns a Book whose
// title is non-null.
func shelfSchema() *schema.Schema {
	book := objectType("Book",
		schema.NewField("id", "", schema.NonNullType(schema.NamedType("Int"))),
		schema.NewField("title", "", schema.NonNullType(schema.NamedType("String"))),
		schema.NewField("tags", "", schema.ListType(schema.NonNullType(schema.NamedType("String")))),
	)
	query := objectType("Query",
		schema.NewField("book", "", schema.NamedType("Book")).
			AddArgument(schema.NewInputValue("id", "", schema.NamedType("Int"))),
		schema.NewField("books", "", schema.ListType(schema.NamedType("Book"))),
		schema.NewField("count", "", schema.NonNullType(schema.NamedType("Int"))),
		schema.NewField("greeting", "", schema.NamedType("String")).
			AddArgument(schema.NewInputValue("name", "", schema.NonNullType(schema.NamedType("String")))),
		schema.NewField("limit", "", schema.NamedType("Int")).
			AddArgument(schema.NewInputValue("n", "", schema.NamedType("Int")).SetDefault(10)),
	)
	return schemaWithQuery(query, book)
}

// Pattern: Result comparison
func TestExecute_NestedObjectsAndLists_Result(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.books": NewMockValueResolver([]map[string]any{
			{"id": 1, "title": "A", "tags": []string{"x"}},
			{"id": 2, "title": "B"},
		}),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ books { id title tags } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &ExecutionResult{
		Data: map[string]any{"books": []any{
			map[string]any{"id": 1, "title": "A", "tags": []any{"x"}},
			map[string]any{"id": 2, "title": "B", "tags": nil},
		}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

// Pattern: Result comparison
func TestExecute_NonNullPropagatesToNullableParent_Result(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"id": 1, "title": nil}),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ book(id: 1) { id title } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &ExecutionResult{
		Data: map[string]any{"book": nil},
		Errors: []GraphQLError{{
			Message: "Cannot return null for non-nullable field book.title",
			Path:    Path{"book", "title"},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

// Pattern: Result comparison
func TestExecute_NonNullListItemNullsList_Result(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"id": 1, "title": "A", "tags": []any{"x", nil}}),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ book { tags } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &ExecutionResult{
		Data: map[string]any{"book": map[string]any{"tags": nil}},
		Errors: []GraphQLError{{
			Message: "Cannot return null for non-nullable field book.tags[1]",
			Path:    Path{"book", "tags", 1},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

// Pattern: Result comparison
func TestExecute_NonNullRootNullsData_Result(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.count": NewMockErrorResolver(errors.New("count unavailable")),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ count }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &ExecutionResult{
		Data:   nil,
		Errors: []GraphQLError{{Message: "count unavailable", Path: Path{"count"}}},
	}
	if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_ErrorLocations(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockErrorResolver(errors.New("boom")),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, "{\n  book { id }\n}")

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Len(t, got.Errors, 1)
	assert.Equal(t, []Location{{Line: 2, Column: 3}}, got.Errors[0].Locations)
}

// Pattern: Calls comparison
func TestExecute_Arguments_Calls(t *testing.T) {
	rt := NewMockRuntime(nil)
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `query Q($id: Int) {
		a: book(id: 3) { id }
		b: book(id: $id) { id }
		c: book { id }
		limit
	}`)

	exec.ExecuteRequest(context.Background(), doc, "Q", map[string]any{"id": float64(7)}, nil)

	want := []Call{
		{ObjectType: "Query", Field: "book", Args: map[string]any{"id": 3}},
		{ObjectType: "Query", Field: "book", Args: map[string]any{"id": 7}},
		{ObjectType: "Query", Field: "book", Args: map[string]any{}},
		{ObjectType: "Query", Field: "limit", Args: map[string]any{"n": 10}},
	}
	if diff := cmp.Diff(want, rt.GetCalls()); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

// Pattern: Calls comparison
func TestExecute_UnprovidedVariableLeavesArgumentAbsent_Calls(t *testing.T) {
	rt := NewMockRuntime(nil)
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `query($id: Int) { book(id: $id) { id } }`)

	exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := []Call{{ObjectType: "Query", Field: "book", Args: map[string]any{}}}
	if diff := cmp.Diff(want, rt.GetCalls()); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_MissingRequiredArgument(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{"Query.greeting": NewMockValueResolver("hi")})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ greeting }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &ExecutionResult{
		Data: map[string]any{"greeting": nil},
		Errors: []GraphQLError{{
			Message: `Argument "name" of required type String! was not provided.`,
			Path:    Path{"greeting"},
		}},
	}
	if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, rt.GetCalls())
}

func TestExecute_RequestErrors(t *testing.T) {
	exec := NewExecutor(NewMockRuntime(nil), shelfSchema())

	t.Run("unknown operation", func(t *testing.T) {
		doc := mustParseQuery(t, `query A { count }`)
		got := exec.ExecuteRequest(context.Background(), doc, "Nope", nil, nil)
		want := &ExecutionResult{Errors: []GraphQLError{{Message: `unknown operation named "Nope"`}}, RequestError: true}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ambiguous operation", func(t *testing.T) {
		doc := mustParseQuery(t, `query A { count } query B { count }`)
		got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
		assert.True(t, got.RequestError)
		assert.Nil(t, got.Data)
	})

	t.Run("invalid variable", func(t *testing.T) {
		doc := mustParseQuery(t, `query($n: Int!) { book(id: $n) { id } }`)
		got := exec.ExecuteRequest(context.Background(), doc, "", map[string]any{"n": "42"}, nil)
		require.True(t, got.RequestError)
		require.Len(t, got.Errors, 1)
		assert.Contains(t, got.Errors[0].Message, "variable $n got invalid value")
	})

	t.Run("missing mutation root", func(t *testing.T) {
		doc := mustParseQuery(t, `mutation { count }`)
		got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
		assert.True(t, got.RequestError)
		assert.Equal(t, "schema is not configured for mutations", got.Errors[0].Message)
	})
}

// Pattern: Result comparison
func TestExecute_TypenameAndAliases_Result(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"id": 5, "title": "T"}),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ __typename first: book { kind: __typename id } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &ExecutionResult{
		Data: map[string]any{
			"__typename": "Query",
			"first":      map[string]any{"kind": "Book", "id": 5},
		},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_CanceledContext(t *testing.T) {
	rt := NewMockRuntime(nil)
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ book { id } }`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := exec.ExecuteRequest(ctx, doc, "", nil, nil)

	want := &ExecutionResult{
		Data:   map[string]any{"book": nil},
		Errors: []GraphQLError{{Message: context.Canceled.Error(), Path: Path{"book"}}},
	}
	if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, rt.GetCalls())
}

func TestExecute_LeafSerializationError(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"id": "not-a-number"}),
	})
	exec := NewExecutor(rt, shelfSchema())
	doc := mustParseQuery(t, `{ book { id } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	require.Len(t, got.Errors, 1)
	assert.Equal(t, Path{"book", "id"}, got.Errors[0].Path)
	assert.Equal(t, map[string]any{"book": nil}, got.Data)
}

func TestOperationType(t *testing.T) {
	doc := mustParseQuery(t, `query A { count } mutation B { count }`)
	assert.Equal(t, "query", string(OperationType(doc, "A")))
	assert.Equal(t, "mutation", string(OperationType(doc, "B")))
	assert.Equal(t, "", string(OperationType(doc, "")))
	assert.Equal(t, "", string(OperationType(nil, "A")))
}

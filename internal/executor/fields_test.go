package executor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	language "github.com/hanpama/bookgraph/internal/language"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// Pattern: Result comparison
func TestCollectFields_Result(t *testing.T) {
	sch := schemaWithQuery(objectType("Query",
		schema.NewField("a", "", schema.NamedType("String")),
		schema.NewField("b", "", schema.NamedType("String")),
		schema.NewField("c", "", schema.NamedType("String")),
	))

	t.Run("Fragment merging and typename", func(t *testing.T) {
		doc := mustParseQuery(t, `{
			a
			...F1
			...F2
		}
		fragment F1 on Query { a __typename }
		fragment F2 on Query { __typename }
		`)
		state := &executionState{schema: sch, document: doc, variableValues: map[string]any{}}
		got := collectFields(state, sch.Types["Query"], doc.Operations[0].SelectionSet)

		opSel := doc.Operations[0].SelectionSet
		frag1 := doc.Fragments.ForName("F1").SelectionSet
		frag2 := doc.Fragments.ForName("F2").SelectionSet
		want := []fieldGroup{
			{Key: "a", Nodes: []*language.Field{opSel[0].(*language.Field), frag1[0].(*language.Field)}},
			{Key: "__typename", Nodes: []*language.Field{frag1[1].(*language.Field), frag2[0].(*language.Field)}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Directives with literals", func(t *testing.T) {
		doc := mustParseQuery(t, `{ a b @skip(if: true) c @include(if: false) }`)
		state := &executionState{schema: sch, document: doc, variableValues: map[string]any{}}
		got := collectFields(state, sch.Types["Query"], doc.Operations[0].SelectionSet)

		opSel := doc.Operations[0].SelectionSet
		want := []fieldGroup{{Key: "a", Nodes: []*language.Field{opSel[0].(*language.Field)}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Directives with variables", func(t *testing.T) {
		doc := mustParseQuery(t, `query($hide: Boolean!, $show: Boolean!) { a @skip(if: $hide) b @include(if: $show) }`)
		state := &executionState{schema: sch, document: doc, variableValues: map[string]any{"hide": true, "show": true}}
		got := collectFields(state, sch.Types["Query"], doc.Operations[0].SelectionSet)

		opSel := doc.Operations[0].SelectionSet
		want := []fieldGroup{{Key: "b", Nodes: []*language.Field{opSel[1].(*language.Field)}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Inline fragments and aliases", func(t *testing.T) {
		doc := mustParseQuery(t, `{
			x: a
			... on Query @include(if: true) { b }
			... on Other { c }
			... { x: a }
		}`)
		state := &executionState{schema: sch, document: doc, variableValues: map[string]any{}}
		got := collectFields(state, sch.Types["Query"], doc.Operations[0].SelectionSet)

		opSel := doc.Operations[0].SelectionSet
		inlineB := opSel[1].(*language.InlineFragment).SelectionSet
		untyped := opSel[3].(*language.InlineFragment).SelectionSet
		want := []fieldGroup{
			{Key: "x", Nodes: []*language.Field{opSel[0].(*language.Field), untyped[0].(*language.Field)}},
			{Key: "b", Nodes: []*language.Field{inlineB[0].(*language.Field)}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
		}
	})
}

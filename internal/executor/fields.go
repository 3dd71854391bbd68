package executor

import (
	language "github.com/hanpama/bookgraph/internal/language"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// fieldGroup is every field node sharing one response key, in document order.
type fieldGroup struct {
	Key   string
	Nodes []*language.Field
}

type fieldCollector struct {
	state      *executionState
	objectType *schema.Type
	groups     []fieldGroup
	byKey      map[string]int
	visited    map[string]bool
}

// collectFields groups the selections that apply to objectType by response
// key. Groups keep the order in which each key first appears.
func collectFields(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet) []fieldGroup {
	c := &fieldCollector{
		state:      state,
		objectType: objectType,
		byKey:      map[string]int{},
		visited:    map[string]bool{},
	}
	c.walk(selectionSet)
	return c.groups
}

func (c *fieldCollector) walk(selectionSet language.SelectionSet) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if c.included(sel.Directives) {
				c.add(sel)
			}
		case *language.InlineFragment:
			if c.included(sel.Directives) && c.applies(sel.TypeCondition) {
				c.walk(sel.SelectionSet)
			}
		case *language.FragmentSpread:
			if !c.included(sel.Directives) || c.visited[sel.Name] {
				continue
			}
			c.visited[sel.Name] = true
			def := c.state.document.Fragments.ForName(sel.Name)
			if def != nil && c.applies(def.TypeCondition) {
				c.walk(def.SelectionSet)
			}
		}
	}
}

func (c *fieldCollector) add(f *language.Field) {
	key := f.Alias
	if key == "" {
		key = f.Name
	}
	if i, ok := c.byKey[key]; ok {
		c.groups[i].Nodes = append(c.groups[i].Nodes, f)
		return
	}
	c.byKey[key] = len(c.groups)
	c.groups = append(c.groups, fieldGroup{Key: key, Nodes: []*language.Field{f}})
}

// applies matches a type condition by name; there are no abstract types to
// expand.
func (c *fieldCollector) applies(typeCondition string) bool {
	return typeCondition == "" || typeCondition == c.objectType.Name
}

// included evaluates @skip and @include.
func (c *fieldCollector) included(directives language.DirectiveList) bool {
	if skip, ok := c.directiveIf(directives, "skip"); ok && skip {
		return false
	}
	if include, ok := c.directiveIf(directives, "include"); ok && !include {
		return false
	}
	return true
}

func (c *fieldCollector) directiveIf(directives language.DirectiveList, name string) (value, ok bool) {
	d := directives.ForName(name)
	if d == nil {
		return false, false
	}
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false, false
	}
	v, _ := valueFromAST(arg.Value, c.state.variableValues)
	value, ok = v.(bool)
	return value, ok
}

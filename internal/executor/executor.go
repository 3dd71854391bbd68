package executor

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	language "github.com/hanpama/bookgraph/internal/language"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// Path locates a value in the response: field names and list indexes.
type Path []PathElement

type PathElement any

// with returns a copy of p extended by elem. Paths are shared between
// siblings, so the receiver is never appended to in place.
func (p Path) with(elem PathElement) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, elem)
}

// String renders p as `books[0].author`.
func (p Path) String() string {
	var b strings.Builder
	for i, elem := range p {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		}
	}
	return b.String()
}

type Executor struct {
	runtime Runtime
	schema  *schema.Schema
}

func NewExecutor(runtime Runtime, schema *schema.Schema) *Executor {
	return &Executor{runtime: runtime, schema: schema}
}

// Schema returns the schema the executor runs against.
func (e *Executor) Schema() *schema.Schema { return e.schema }

// executionState is the per-request state threaded through execution.
type executionState struct {
	ctx            context.Context
	runtime        Runtime
	schema         *schema.Schema
	document       *language.QueryDocument
	variableValues map[string]any
	errors         []GraphQLError
}

// ExecuteRequest runs the selected operation of a validated document.
// Unknown operations, bad variables and unsupported roots are request
// errors; everything else is reported per field alongside partial data.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	op, err := selectOperation(document, operationName)
	if err != nil {
		return requestError(err.Error())
	}
	vars, err := coerceVariableValues(op, variableValues)
	if err != nil {
		return requestError(err.Error())
	}
	root, err := e.rootType(op.Operation)
	if err != nil {
		return requestError(err.Error())
	}

	state := &executionState{
		ctx:            ctx,
		runtime:        e.runtime,
		schema:         e.schema,
		document:       document,
		variableValues: vars,
		errors:         []GraphQLError{},
	}
	data := executeSelectionSet(state, root, op.SelectionSet, initialValue, Path{})
	if data == nil {
		// A non-null root field was null; the whole data entry is null.
		return &ExecutionResult{Errors: state.errors}
	}
	return &ExecutionResult{Data: data, Errors: state.errors}
}

func (e *Executor) rootType(op language.Operation) (*schema.Type, error) {
	var root *schema.Type
	switch op {
	case language.Query:
		root = e.schema.GetQueryType()
	case language.Mutation:
		root = e.schema.GetMutationType()
	case language.Subscription:
		root = e.schema.GetSubscriptionType()
	default:
		return nil, fmt.Errorf("unsupported operation type: %s", op)
	}
	if root == nil {
		return nil, fmt.Errorf("schema is not configured for %ss", op)
	}
	return root, nil
}

// OperationType reports the type of the operation ExecuteRequest would run,
// or "" when it cannot be determined.
func OperationType(document *language.QueryDocument, operationName string) language.Operation {
	if document == nil {
		return ""
	}
	op, err := selectOperation(document, operationName)
	if err != nil {
		return ""
	}
	return op.Operation
}

func selectOperation(document *language.QueryDocument, name string) (*language.OperationDefinition, error) {
	if name != "" {
		if op := document.Operations.ForName(name); op != nil {
			return op, nil
		}
		return nil, fmt.Errorf("unknown operation named %q", name)
	}
	switch len(document.Operations) {
	case 0:
		return nil, fmt.Errorf("document contains no operations")
	case 1:
		return document.Operations[0], nil
	}
	return nil, fmt.Errorf("operation name is required when the document contains multiple operations")
}

// executeSelectionSet executes fields one at a time in document order, which
// also makes top-level mutation fields serial. It returns nil when a non-null
// field came back null, telling the caller to null this object.
func executeSelectionSet(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet, source any, path Path) map[string]any {
	groups := collectFields(state, objectType, selectionSet)
	out := make(map[string]any, len(groups))

	for _, g := range groups {
		fieldPath := path.with(g.Key)
		name := g.Nodes[0].Name

		if name == "__typename" {
			out[g.Key] = objectType.Name
			continue
		}
		def := objectType.Field(name)
		if def == nil {
			state.addError(fmt.Sprintf("Cannot query field %q on type %q.", name, objectType.Name), fieldPath, g.Nodes)
			continue
		}

		v := state.executeField(objectType, source, def, g.Nodes, fieldPath)
		if isNullish(v) {
			if schema.IsNonNull(def.Type) {
				return nil
			}
			v = nil
		}
		out[g.Key] = v
	}
	return out
}

func (state *executionState) executeField(objectType *schema.Type, source any, def *schema.Field, nodes []*language.Field, path Path) any {
	if err := state.ctx.Err(); err != nil {
		state.addError(err.Error(), path, nodes)
		return nil
	}
	args, ok := coerceArgumentValues(state, def, nodes[0].Arguments, path, nodes)
	if !ok {
		return nil
	}
	resolved, err := state.runtime.ResolveField(state.ctx, objectType.Name, def.Name, source, args)
	if err != nil {
		state.addError(err.Error(), path, nodes)
		return nil
	}
	return state.complete(def.Type, nodes, resolved, path)
}

// complete shapes a resolved value by its declared type. A nil result for a
// non-null type is an error unless a descendant already reported one.
func (state *executionState) complete(typ *schema.TypeRef, nodes []*language.Field, value any, path Path) any {
	if schema.IsNonNull(typ) {
		if isNullish(value) {
			if !state.hasErrorAt(path) {
				state.addError("Cannot return null for non-nullable field "+path.String(), path, nodes)
			}
			return nil
		}
		return state.complete(schema.Unwrap(typ), nodes, value, path)
	}
	if isNullish(value) {
		return nil
	}
	if schema.IsList(typ) {
		return state.completeList(schema.Unwrap(typ), nodes, value, path)
	}

	name := schema.GetNamedType(typ)
	def := state.schema.Types[name]
	if def == nil {
		state.addError("Unknown type: "+name, path, nodes)
		return nil
	}
	switch def.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		out, err := state.runtime.SerializeLeafValue(state.ctx, name, value)
		if err != nil {
			state.addError(err.Error(), path, nodes)
			return nil
		}
		return out
	case schema.TypeKindObject:
		if obj := executeSelectionSet(state, def, subSelections(nodes), value, path); obj != nil {
			return obj
		}
		return nil
	}
	state.addError(fmt.Sprintf("Cannot complete value of unexpected type: %s", def.Kind), path, nodes)
	return nil
}

// completeList accepts any Go slice or array. A null item of a non-null item
// type nulls the whole list.
func (state *executionState) completeList(item *schema.TypeRef, nodes []*language.Field, value any, path Path) any {
	items, ok := value.([]any)
	if !ok {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			state.addError(fmt.Sprintf("Expected list value, got %T", value), path, nodes)
			return nil
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	out := make([]any, len(items))
	for i, v := range items {
		c := state.complete(item, nodes, v, path.with(i))
		if isNullish(c) {
			if schema.IsNonNull(item) {
				return nil
			}
			c = nil
		}
		out[i] = c
	}
	return out
}

func (state *executionState) addError(message string, path Path, nodes []*language.Field) {
	state.errors = append(state.errors, GraphQLError{Message: message, Locations: fieldLocations(nodes), Path: path})
}

func (state *executionState) hasErrorAt(path Path) bool {
	return slices.ContainsFunc(state.errors, func(e GraphQLError) bool {
		return slices.Equal(e.Path, path)
	})
}

// subSelections concatenates the selection sets of every node merged into
// one response key.
func subSelections(nodes []*language.Field) language.SelectionSet {
	var out language.SelectionSet
	for _, n := range nodes {
		out = append(out, n.SelectionSet...)
	}
	return out
}

func typeRefFromAST(t *language.Type) *schema.TypeRef {
	switch {
	case t == nil:
		return nil
	case t.NonNull:
		return schema.NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	case t.NamedType != "":
		return schema.NamedType(t.NamedType)
	case t.Elem != nil:
		return schema.ListType(typeRefFromAST(t.Elem))
	}
	return nil
}

// isNullish reports nil interfaces and typed nils.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

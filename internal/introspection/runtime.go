// Package introspection answers __schema and __type queries by wrapping
// another executor.Runtime.
package introspection

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	executor "github.com/hanpama/bookgraph/internal/executor"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// IntrospectionWrapper holds both the runtime and extended schema
type IntrospectionWrapper struct {
	Runtime executor.Runtime
	Schema  *schema.Schema
}

// Wrap returns a Runtime that handles GraphQL introspection fields and
// delegates everything else to base. The returned schema must be the one
// handed to the executor.
func Wrap(base executor.Runtime, sch *schema.Schema) *IntrospectionWrapper {
	extended := extendSchemaWithIntrospection(sch)
	return &IntrospectionWrapper{
		Runtime: &runtime{base: base, schema: extended},
		Schema:  extended,
	}
}

type runtime struct {
	base   executor.Runtime
	schema *schema.Schema // extended with introspection types
}

func (r *runtime) ResolveField(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	if strings.HasPrefix(objectType, "__") {
		v, ok := r.resolveMeta(source, field, args)
		if !ok {
			return nil, fmt.Errorf("introspection: cannot resolve %s.%s on %T", objectType, field, source)
		}
		return v, nil
	}
	if objectType == r.schema.QueryType {
		switch field {
		case "__schema":
			return r.schema, nil
		case "__type":
			name, _ := args["name"].(string)
			return optional(r.schema.Types[name]), nil
		}
	}
	return r.base.ResolveField(ctx, objectType, field, source, args)
}

func (r *runtime) SerializeLeafValue(ctx context.Context, typ string, value any) (any, error) {
	if strings.HasPrefix(typ, "__") {
		// __TypeKind and __DirectiveLocation values are already their names.
		return fmt.Sprint(value), nil
	}
	return r.base.SerializeLeafValue(ctx, typ, value)
}

// resolver answers one introspection field for a source of type T.
type resolver[T any] func(r *runtime, v T, args map[string]any) any

type table[T any] map[string]resolver[T]

func (t table[T]) resolve(r *runtime, v T, field string, args map[string]any) (any, bool) {
	fn, ok := t[field]
	if !ok {
		return nil, false
	}
	return fn(r, v, args), true
}

func (r *runtime) resolveMeta(source any, field string, args map[string]any) (any, bool) {
	switch src := source.(type) {
	case *schema.Schema:
		return schemaFields.resolve(r, src, field, args)
	case *schema.Type:
		return typeFields.resolve(r, src, field, args)
	case *schema.TypeRef:
		return r.resolveTypeRef(src, field, args)
	case *schema.Field:
		return fieldFields.resolve(r, src, field, args)
	case *schema.InputValue:
		return inputValueFields.resolve(r, src, field, args)
	case *schema.EnumValue:
		return enumValueFields.resolve(r, src, field, args)
	case *schema.Directive:
		return directiveFields.resolve(r, src, field, args)
	}
	return nil, false
}

// resolveTypeRef answers __Type fields for a field or argument type.
// Wrappers report their own kind; a named reference behaves exactly like the
// type it names.
func (r *runtime) resolveTypeRef(ref *schema.TypeRef, field string, args map[string]any) (any, bool) {
	if ref.Kind == schema.TypeRefKindNamed {
		def := r.schema.Types[ref.Named]
		if def == nil {
			return nil, false
		}
		return typeFields.resolve(r, def, field, args)
	}
	switch field {
	case "kind":
		return string(ref.Kind), true
	case "ofType":
		return ref.OfType, true
	}
	if _, ok := typeFields[field]; ok {
		return nil, true
	}
	return nil, false
}

var schemaFields = table[*schema.Schema]{
	"description": func(_ *runtime, s *schema.Schema, _ map[string]any) any { return optionalString(s.Description) },
	"queryType":   func(_ *runtime, s *schema.Schema, _ map[string]any) any { return optional(s.GetQueryType()) },
	"mutationType": func(_ *runtime, s *schema.Schema, _ map[string]any) any {
		return optional(s.GetMutationType())
	},
	"subscriptionType": func(_ *runtime, s *schema.Schema, _ map[string]any) any {
		return optional(s.GetSubscriptionType())
	},
	"types": func(_ *runtime, s *schema.Schema, _ map[string]any) any {
		return slices.SortedFunc(maps.Values(s.Types), func(a, b *schema.Type) int { return cmp.Compare(a.Name, b.Name) })
	},
	"directives": func(_ *runtime, s *schema.Schema, _ map[string]any) any {
		return slices.SortedFunc(maps.Values(s.Directives), func(a, b *schema.Directive) int { return cmp.Compare(a.Name, b.Name) })
	},
}

var typeFields = table[*schema.Type]{
	"kind":        func(_ *runtime, t *schema.Type, _ map[string]any) any { return string(t.Kind) },
	"name":        func(_ *runtime, t *schema.Type, _ map[string]any) any { return t.Name },
	"description": func(_ *runtime, t *schema.Type, _ map[string]any) any { return optionalString(t.Description) },
	"specifiedByURL": func(_ *runtime, t *schema.Type, _ map[string]any) any {
		if t.SpecifiedByURL == nil {
			return nil
		}
		return *t.SpecifiedByURL
	},
	// Fields keep declaration order; the __schema and __type entry points
	// added to the query root are hidden.
	"fields": func(_ *runtime, t *schema.Type, args map[string]any) any {
		if !hasFields(t) {
			return nil
		}
		fields := slices.DeleteFunc(slices.Clone(t.Fields), func(f *schema.Field) bool {
			return strings.HasPrefix(f.Name, "__")
		})
		return visible(fields, args, func(f *schema.Field) bool { return f.IsDeprecated })
	},
	"interfaces": func(r *runtime, t *schema.Type, _ map[string]any) any {
		if !hasFields(t) {
			return nil
		}
		return r.lookupTypes(t.Interfaces)
	},
	"possibleTypes": func(r *runtime, t *schema.Type, _ map[string]any) any {
		if t.Kind != schema.TypeKindInterface && t.Kind != schema.TypeKindUnion {
			return nil
		}
		types := r.lookupTypes(t.PossibleTypes)
		slices.SortFunc(types, func(a, b *schema.Type) int { return cmp.Compare(a.Name, b.Name) })
		return types
	},
	"enumValues": func(_ *runtime, t *schema.Type, args map[string]any) any {
		if t.Kind != schema.TypeKindEnum {
			return nil
		}
		return visible(t.EnumValues, args, func(v *schema.EnumValue) bool { return v.IsDeprecated })
	},
	"inputFields": func(_ *runtime, t *schema.Type, args map[string]any) any {
		if t.Kind != schema.TypeKindInputObject {
			return nil
		}
		return visibleInputs(t.InputFields, args)
	},
	"isOneOf": func(_ *runtime, t *schema.Type, _ map[string]any) any {
		if t.Kind != schema.TypeKindInputObject {
			return nil
		}
		return t.OneOf
	},
	// Wrappers are TypeRef nodes, so a named type never has ofType.
	"ofType": func(*runtime, *schema.Type, map[string]any) any { return nil },
}

var fieldFields = table[*schema.Field]{
	"name":        func(_ *runtime, f *schema.Field, _ map[string]any) any { return f.Name },
	"description": func(_ *runtime, f *schema.Field, _ map[string]any) any { return optionalString(f.Description) },
	"args":        func(_ *runtime, f *schema.Field, args map[string]any) any { return visibleInputs(f.Arguments, args) },
	"type":        func(_ *runtime, f *schema.Field, _ map[string]any) any { return f.Type },
	"isDeprecated": func(_ *runtime, f *schema.Field, _ map[string]any) any {
		return f.IsDeprecated
	},
	"deprecationReason": func(_ *runtime, f *schema.Field, _ map[string]any) any {
		return deprecationReason(f.IsDeprecated, f.DeprecationReason)
	},
}

var inputValueFields = table[*schema.InputValue]{
	"name":        func(_ *runtime, v *schema.InputValue, _ map[string]any) any { return v.Name },
	"description": func(_ *runtime, v *schema.InputValue, _ map[string]any) any { return optionalString(v.Description) },
	"type":        func(_ *runtime, v *schema.InputValue, _ map[string]any) any { return v.Type },
	"defaultValue": func(_ *runtime, v *schema.InputValue, _ map[string]any) any {
		if v.DefaultValue == nil {
			return nil
		}
		return schema.RenderValue(v.DefaultValue)
	},
	"isDeprecated": func(_ *runtime, v *schema.InputValue, _ map[string]any) any {
		return v.IsDeprecated
	},
	"deprecationReason": func(_ *runtime, v *schema.InputValue, _ map[string]any) any {
		return deprecationReason(v.IsDeprecated, v.DeprecationReason)
	},
}

var enumValueFields = table[*schema.EnumValue]{
	"name":        func(_ *runtime, v *schema.EnumValue, _ map[string]any) any { return v.Name },
	"description": func(_ *runtime, v *schema.EnumValue, _ map[string]any) any { return optionalString(v.Description) },
	"isDeprecated": func(_ *runtime, v *schema.EnumValue, _ map[string]any) any {
		return v.IsDeprecated
	},
	"deprecationReason": func(_ *runtime, v *schema.EnumValue, _ map[string]any) any {
		return deprecationReason(v.IsDeprecated, v.DeprecationReason)
	},
}

var directiveFields = table[*schema.Directive]{
	"name":         func(_ *runtime, d *schema.Directive, _ map[string]any) any { return d.Name },
	"description":  func(_ *runtime, d *schema.Directive, _ map[string]any) any { return optionalString(d.Description) },
	"isRepeatable": func(_ *runtime, d *schema.Directive, _ map[string]any) any { return d.IsRepeatable },
	"locations":    func(_ *runtime, d *schema.Directive, _ map[string]any) any { return slices.Clone(d.Locations) },
	"args":         func(_ *runtime, d *schema.Directive, args map[string]any) any { return visibleInputs(d.Arguments, args) },
}

func hasFields(t *schema.Type) bool {
	return t.Kind == schema.TypeKindObject || t.Kind == schema.TypeKindInterface
}

// lookupTypes resolves names against the schema, skipping unknown ones.
func (r *runtime) lookupTypes(names []string) []*schema.Type {
	out := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		if def := r.schema.Types[name]; def != nil {
			out = append(out, def)
		}
	}
	return out
}

// visible drops deprecated items unless includeDeprecated is true. The
// result is never nil.
func visible[T any](items []T, args map[string]any, deprecated func(T) bool) []T {
	include, _ := args["includeDeprecated"].(bool)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if include || !deprecated(item) {
			out = append(out, item)
		}
	}
	return out
}

func visibleInputs(values []*schema.InputValue, args map[string]any) []*schema.InputValue {
	return visible(values, args, func(v *schema.InputValue) bool { return v.IsDeprecated })
}

// optional keeps a missing type from becoming a typed nil.
func optional(t *schema.Type) any {
	if t == nil {
		return nil
	}
	return t
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deprecationReason(deprecated bool, reason string) any {
	if !deprecated {
		return nil
	}
	return reason
}

package schema

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Render produces SDL from the Schema. Types and directives are sorted by
// name; fields and arguments keep declaration order. Built-in scalars and
// directives and introspection types are omitted, so the output can be
// loaded by a validator that supplies its own prelude.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	w := &sdlWriter{}
	w.schemaDefinition(s)

	for _, name := range slices.Sorted(maps.Keys(s.Types)) {
		if IsBuiltinScalar(name) || isIntrospectionName(name) {
			continue
		}
		w.typeDefinition(s.Types[name])
	}
	for _, name := range slices.Sorted(maps.Keys(s.Directives)) {
		if !isBuiltinDirective(name) {
			w.directive(s.Directives[name])
		}
	}
	return strings.TrimRight(w.String(), "\n") + "\n"
}

func isIntrospectionName(name string) bool { return strings.HasPrefix(name, "__") }

// sdlWriter emits definitions separated by blank lines.
type sdlWriter struct {
	strings.Builder
}

func (w *sdlWriter) line(parts ...string) {
	for _, p := range parts {
		w.WriteString(p)
	}
	w.WriteByte('\n')
}

func (w *sdlWriter) schemaDefinition(s *Schema) {
	if s.QueryType == "" {
		return
	}
	w.description("", s.Description)
	w.line("schema {")
	w.line("  query: ", s.QueryType)
	if s.MutationType != "" {
		w.line("  mutation: ", s.MutationType)
	}
	if s.SubscriptionType != "" {
		w.line("  subscription: ", s.SubscriptionType)
	}
	w.line("}\n")
}

func (w *sdlWriter) typeDefinition(t *Type) {
	w.description("", t.Description)
	switch t.Kind {
	case TypeKindScalar:
		directive := ""
		if t.SpecifiedByURL != nil {
			directive = " @specifiedBy(url: " + strconv.Quote(*t.SpecifiedByURL) + ")"
		}
		w.line("scalar ", t.Name, directive, "\n")
	case TypeKindEnum:
		w.line("enum ", t.Name, " {")
		for _, v := range t.EnumValues {
			w.description("  ", v.Description)
			w.line("  ", v.Name, deprecation(v.IsDeprecated, v.DeprecationReason))
		}
		w.line("}\n")
	case TypeKindInputObject:
		oneOf := ""
		if t.OneOf {
			oneOf = " @oneOf"
		}
		w.line("input ", t.Name, oneOf, " {")
		for _, f := range t.InputFields {
			w.description("  ", f.Description)
			w.line("  ", inputValue(f))
		}
		w.line("}\n")
	case TypeKindObject, TypeKindInterface:
		keyword := "type "
		if t.Kind == TypeKindInterface {
			keyword = "interface "
		}
		implements := ""
		if len(t.Interfaces) > 0 {
			implements = " implements " + strings.Join(t.Interfaces, " & ")
		}
		w.line(keyword, t.Name, implements, " {")
		for _, f := range t.Fields {
			if isIntrospectionName(f.Name) {
				continue
			}
			w.description("  ", f.Description)
			w.line("  ", f.Name, arguments(f.Arguments), ": ", f.Type.String(), deprecation(f.IsDeprecated, f.DeprecationReason))
		}
		w.line("}\n")
	case TypeKindUnion:
		w.line("union ", t.Name, " = ", strings.Join(t.PossibleTypes, " | "), "\n")
	}
}

func (w *sdlWriter) directive(d *Directive) {
	w.description("", d.Description)
	repeatable := ""
	if d.IsRepeatable {
		repeatable = " repeatable"
	}
	w.line("directive @", d.Name, arguments(d.Arguments), repeatable, " on ", strings.Join(d.Locations, " | "), "\n")
}

// description writes a block string; multi-line text gets its own lines.
func (w *sdlWriter) description(indent, desc string) {
	if desc == "" {
		return
	}
	escaped := strings.ReplaceAll(desc, `"""`, `\"""`)
	if !strings.Contains(escaped, "\n") {
		w.line(indent, `"""`, escaped, `"""`)
		return
	}
	w.line(indent, `"""`)
	for l := range strings.SplitSeq(escaped, "\n") {
		w.line(indent, l)
	}
	w.line(indent, `"""`)
}

func deprecation(deprecated bool, reason string) string {
	switch {
	case !deprecated:
		return ""
	case reason == "":
		return " @deprecated"
	}
	return " @deprecated(reason: " + strconv.Quote(reason) + ")"
}

func arguments(args []*InputValue) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = inputValue(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func inputValue(v *InputValue) string {
	s := v.Name + ": " + v.Type.String()
	if v.DefaultValue != nil {
		s += " = " + RenderValue(v.DefaultValue)
	}
	return s + deprecation(v.IsDeprecated, v.DeprecationReason)
}

// RenderValue renders a GraphQL value literal, as used for default values.
// Object keys are sorted; unknown values are printed bare, as enum values.
func RenderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = RenderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		parts := make([]string, 0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			parts = append(parts, k+": "+RenderValue(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(value)
}

package executor

import (
	"fmt"
	"strconv"

	language "github.com/hanpama/bookgraph/internal/language"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// coerceVariableValues checks the supplied variables against the
// operation's definitions. Defaults fill omitted variables; an omitted
// nullable variable without a default stays absent.
func coerceVariableValues(op *language.OperationDefinition, supplied map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		name, typ := def.Variable, def.Type
		v, ok := supplied[name]
		switch {
		case ok:
		case def.DefaultValue != nil:
			v, _ = valueFromAST(def.DefaultValue, nil)
		case typ.NonNull:
			return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, typ)
		default:
			continue
		}
		if v == nil && typ.NonNull {
			return nil, fmt.Errorf("variable $%s of non-null type %s must not be null", name, typ)
		}
		cv, err := coerceValue(v, typeRefFromAST(typ))
		if err != nil {
			return nil, fmt.Errorf("variable $%s got invalid value: %v", name, err)
		}
		out[name] = cv
	}
	return out, nil
}

// coerceArgumentValues builds the argument map for one field. Every problem
// is recorded against the field's path, and false is returned if there was
// any.
func coerceArgumentValues(state *executionState, def *schema.Field, args language.ArgumentList, path Path, nodes []*language.Field) (map[string]any, bool) {
	out := make(map[string]any, len(def.Arguments))
	ok := true
	for _, argDef := range def.Arguments {
		var (
			v        any
			provided bool
		)
		if arg := args.ForName(argDef.Name); arg != nil {
			v, provided = valueFromAST(arg.Value, state.variableValues)
		}
		if !provided {
			switch {
			case argDef.DefaultValue != nil:
				out[argDef.Name] = argDef.DefaultValue
			case schema.IsNonNull(argDef.Type):
				state.addError(fmt.Sprintf("Argument %q of required type %s was not provided.", argDef.Name, argDef.Type), path, nodes)
				ok = false
			}
			continue
		}
		cv, err := coerceValue(v, argDef.Type)
		if err != nil {
			state.addError(fmt.Sprintf("Argument %q has invalid value: %v", argDef.Name, err), path, nodes)
			ok = false
			continue
		}
		out[argDef.Name] = cv
	}
	return out, ok
}

// valueFromAST converts a literal to a Go value, substituting variables.
// It reports false for a variable that was not supplied, which callers
// treat as an absent argument.
func valueFromAST(value *language.Value, vars map[string]any) (any, bool) {
	if value == nil {
		return nil, false
	}
	switch value.Kind {
	case language.Variable:
		v, ok := vars[value.Raw]
		return v, ok
	case language.IntValue:
		if n, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
			return int(n), true
		}
		return value.Raw, true
	case language.FloatValue:
		f, _ := strconv.ParseFloat(value.Raw, 64)
		return f, true
	case language.StringValue, language.BlockValue, language.EnumValue:
		return value.Raw, true
	case language.BooleanValue:
		return value.Raw == "true", true
	case language.NullValue:
		return nil, true
	case language.ListValue:
		list := make([]any, 0, len(value.Children))
		for _, child := range value.Children {
			v, _ := valueFromAST(child.Value, vars)
			list = append(list, v)
		}
		return list, true
	case language.ObjectValue:
		obj := make(map[string]any, len(value.Children))
		for _, child := range value.Children {
			if v, ok := valueFromAST(child.Value, vars); ok {
				obj[child.Name] = v
			}
		}
		return obj, true
	}
	return nil, false
}

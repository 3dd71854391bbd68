package executor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	schema "github.com/hanpama/bookgraph/internal/schema"
)

// inputCoercers convert variable and literal values for the built-in
// scalars. Other named types pass through unchanged.
var inputCoercers = map[string]func(any) (any, error){
	"Int":     coerceInt,
	"Float":   coerceFloat,
	"String":  coerceString,
	"Boolean": coerceBoolean,
	"ID":      coerceID,
}

// coerceValue coerces value to the given input type.
func coerceValue(value any, typ *schema.TypeRef) (any, error) {
	if schema.IsNonNull(typ) {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type")
		}
		return coerceValue(value, schema.Unwrap(typ))
	}
	if value == nil {
		return nil, nil
	}
	if schema.IsList(typ) {
		return coerceList(value, schema.Unwrap(typ))
	}
	if coerce, ok := inputCoercers[schema.GetNamedType(typ)]; ok {
		return coerce(value)
	}
	return value, nil
}

// coerceList coerces each item; a single value becomes a list of one.
func coerceList(value any, item *schema.TypeRef) (any, error) {
	items, ok := value.([]any)
	if !ok {
		items = []any{value}
	}
	out := make([]any, len(items))
	for i, v := range items {
		cv, err := coerceValue(v, item)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

// coerceInt accepts integral numbers in the signed 32-bit range. JSON
// variables arrive as float64 or json.Number.
func coerceInt(value any) (any, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
		n = int64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
		n = i
	default:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
	}
	return int(n), nil
}

func coerceFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
}

func coerceString(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
}

func coerceBoolean(value any) (any, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
}

// coerceID accepts strings and integral numbers, rendering numbers in base 10.
func coerceID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return strconv.FormatInt(n, 10), nil
		}
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}

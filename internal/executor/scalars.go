package executor

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// SerializeBuiltinScalar serializes value as one of the built-in scalars.
// Pointers are dereferenced and named string, int and float kinds are
// accepted, so runtimes can hand over their own field types directly.
func SerializeBuiltinScalar(typeName string, value any) (any, error) {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}

	switch typeName {
	case "Int":
		var n int64
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n = rv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if rv.Uint() > math.MaxInt32 {
				return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", rv.Uint())
			}
			n = int64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("Int cannot represent non-integer value: %v", f)
			}
			n = int64(f)
		case reflect.Bool:
			if rv.Bool() {
				n = 1
			}
		default:
			return nil, fmt.Errorf("Int cannot represent value: %v", value)
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
		}
		return int(n), nil

	case "Float":
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), nil
		}
		return nil, fmt.Errorf("Float cannot represent value: %v", value)

	case "String":
		switch rv.Kind() {
		case reflect.String:
			return rv.String(), nil
		case reflect.Bool:
			return strconv.FormatBool(rv.Bool()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		case reflect.Float32, reflect.Float64:
			return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
		}
		if s, ok := value.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return nil, fmt.Errorf("String cannot represent value: %v", value)

	case "Boolean":
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)

	case "ID":
		switch rv.Kind() {
		case reflect.String:
			return rv.String(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(rv.Uint(), 10), nil
		}
		return nil, fmt.Errorf("ID cannot represent value: %v", value)
	}
	return nil, fmt.Errorf("unknown scalar type %q", typeName)
}

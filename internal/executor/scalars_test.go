package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func TestSerializeBuiltinScalar(t *testing.T) {
	n := 7
	var nilPtr *int
	tests := []struct {
		name    string
		typ     string
		value   any
		want    any
		wantErr bool
	}{
		{name: "int", typ: "Int", value: 3, want: 3},
		{name: "int64", typ: "Int", value: int64(3), want: 3},
		{name: "int pointer", typ: "Int", value: &n, want: 7},
		{name: "nil pointer", typ: "Int", value: nilPtr, want: nil},
		{name: "integral float", typ: "Int", value: 2.0, want: 2},
		{name: "fractional float", typ: "Int", value: 2.5, wantErr: true},
		{name: "int overflow", typ: "Int", value: int64(1) << 33, wantErr: true},
		{name: "string for int", typ: "Int", value: "3", wantErr: true},
		{name: "float", typ: "Float", value: float32(1.5), want: 1.5},
		{name: "float from int", typ: "Float", value: 2, want: float64(2)},
		{name: "string", typ: "String", value: "a", want: "a"},
		{name: "named string", typ: "String", value: label("b"), want: "b"},
		{name: "string from int", typ: "String", value: 9, want: "9"},
		{name: "boolean", typ: "Boolean", value: true, want: true},
		{name: "boolean from int", typ: "Boolean", value: 1, wantErr: true},
		{name: "id from int", typ: "ID", value: 42, want: "42"},
		{name: "id from string", typ: "ID", value: "x1", want: "x1"},
		{name: "unknown scalar", typ: "Date", value: "2020", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SerializeBuiltinScalar(tt.typ, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

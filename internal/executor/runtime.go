package executor

import (
	"context"
)

// Runtime is the host integration surface the Executor calls into.
//
// Object/field identifiers
//   - objectType is the GraphQL type name (e.g. "Book").
//   - field is the GraphQL field name on that type (e.g. "author").
//   - For root fields, objectType is the root type name (e.g. "Query").
//   - source is the parent object value (the root value for root fields).
//   - args holds the coerced argument values, keyed by argument name.
//
// Implementations must not mutate source or args and should be safe for
// concurrent use; an Executor may serve many requests at once.
type Runtime interface {
	// ResolveField returns the raw value of one field. Returning (nil, nil)
	// produces GraphQL null. A non-nil error becomes a located field error.
	ResolveField(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// SerializeLeafValue converts a scalar or enum value to a JSON-safe Go
	// value. Enums serialize to their symbolic name.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

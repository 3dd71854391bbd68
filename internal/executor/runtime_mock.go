package executor

import (
	"context"
	"maps"
	"slices"
	"sync"

	schema "github.com/hanpama/bookgraph/internal/schema"
)

// MockResolver resolves a single field for MockRuntime.
type MockResolver func(ctx context.Context, source any, args map[string]any) (any, error)

// NewMockValueResolver returns a MockResolver that always returns the provided value.
func NewMockValueResolver(val any) MockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return val, nil
	}
}

// NewMockErrorResolver returns a MockResolver that always returns the provided error.
func NewMockErrorResolver(err error) MockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return nil, err
	}
}

// Call records one ResolveField invocation.
type Call struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// MockRuntime implements Runtime with a resolver registry and a call log.
// Fields without a resolver fall back to reading the key of a map source.
type MockRuntime struct {
	mu         sync.Mutex
	resolvers  map[string]MockResolver
	calls      []Call
	serializer func(typeName string, val any) (any, error)
}

// NewMockRuntime creates a MockRuntime with the provided resolvers.
// The resolvers map keys are of the form "ObjectType.Field".
func NewMockRuntime(resolvers map[string]MockResolver) *MockRuntime {
	m := &MockRuntime{
		resolvers:  maps.Clone(resolvers),
		serializer: serializeLeafDefault,
	}
	if m.resolvers == nil {
		m.resolvers = map[string]MockResolver{}
	}
	return m
}

// SetResolver registers or updates a resolver for the given object type and field.
func (m *MockRuntime) SetResolver(objectType, field string, resolver MockResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[objectType+"."+field] = resolver
}

// SetSerializer replaces the leaf serializer.
func (m *MockRuntime) SetSerializer(f func(typeName string, val any) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serializer = f
}

func (m *MockRuntime) ResolveField(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	m.mu.Lock()
	r := m.resolvers[objectType+"."+field]
	m.calls = append(m.calls, Call{ObjectType: objectType, Field: field, Source: source, Args: args})
	m.mu.Unlock()

	if r == nil {
		src, _ := source.(map[string]any)
		return src[field], nil
	}
	return r(ctx, source, args)
}

func (m *MockRuntime) SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error) {
	m.mu.Lock()
	f := m.serializer
	m.mu.Unlock()
	if f == nil {
		return value, nil
	}
	return f(scalarOrEnumTypeName, value)
}

// GetCalls returns a copy of the recorded calls in order.
func (m *MockRuntime) GetCalls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Reset clears recorded calls (resolvers remain).
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func serializeLeafDefault(typeName string, val any) (any, error) {
	if schema.IsBuiltinScalar(typeName) {
		return SerializeBuiltinScalar(typeName, val)
	}
	return val, nil
}

// Package reqid carries a per-request identifier in a context.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header a request id is read from and echoed in.
const Header = "X-Request-Id"

// key is the context key for the request ID.
type key struct{}

// New returns a fresh random request id.
func New() string { return uuid.NewString() }

// NewContext returns a copy of parent carrying id. An empty id is replaced
// by a generated one. It also returns the id stored.
func NewContext(parent context.Context, id string) (context.Context, string) {
	if id == "" {
		id = New()
	}
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the request ID from ctx.
// It returns the ID and whether it was present.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}

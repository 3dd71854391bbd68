package reqid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx, id := NewContext(context.Background(), "")
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated ids are uuids")

	_, ok = FromContext(context.Background())
	assert.False(t, ok, "unexpected id in empty context")
}

func TestNewContextKeepsSuppliedID(t *testing.T) {
	ctx, id := NewContext(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", id)
	got, _ := FromContext(ctx)
	assert.Equal(t, "abc-123", got)
}

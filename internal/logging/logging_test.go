package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventbus "github.com/hanpama/bookgraph/internal/eventbus"
	events "github.com/hanpama/bookgraph/internal/events"
	reqid "github.com/hanpama/bookgraph/internal/reqid"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["message"])
	assert.Equal(t, "warn", got[0]["level"])

	_, err = New(&buf, "loud", "json")
	assert.Error(t, err)
	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "console")
	require.NoError(t, err)
	logger.Info().Str("k", "v").Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "k=")
}

func TestAttach(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	require.NoError(t, err)
	detach := Attach(logger)

	ctx, rid := reqid.NewContext(context.Background(), "rid-1")
	req := httptest.NewRequest("POST", "/graphql", nil)
	eventbus.Publish(ctx, events.EntityAdded{Kind: events.KindBook, ID: 9, Name: "Y"})
	eventbus.Publish(ctx, events.GraphQLFinish{OperationType: "mutation", Errors: []error{errors.New("boom")}})
	eventbus.Publish(ctx, events.HTTPFinish{Request: req, RequestID: rid, Status: 200, Duration: time.Millisecond})

	detach()
	eventbus.Publish(ctx, events.EntityAdded{Kind: events.KindBook, ID: 10})

	got := lines(t, &buf)
	require.Len(t, got, 3)

	assert.Equal(t, "entity added", got[0]["message"])
	assert.Equal(t, "book", got[0]["kind"])
	assert.Equal(t, float64(9), got[0]["id"])
	assert.Equal(t, "rid-1", got[0]["request_id"])

	assert.Equal(t, "graphql operation", got[1]["message"])
	assert.Equal(t, "debug", got[1]["level"])
	assert.Equal(t, "error", got[1]["outcome"])
	assert.Equal(t, "boom", got[1]["first_error"])

	assert.Equal(t, "http request", got[2]["message"])
	assert.Equal(t, float64(200), got[2]["status"])
	assert.Equal(t, "/graphql", got[2]["path"])
}

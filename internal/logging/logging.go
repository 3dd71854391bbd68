// Package logging builds the process logger and logs bus events with it.
package logging

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	eventbus "github.com/hanpama/bookgraph/internal/eventbus"
	events "github.com/hanpama/bookgraph/internal/events"
	reqid "github.com/hanpama/bookgraph/internal/reqid"
)

// New returns a logger writing to out at the given level. format is "json"
// or "console".
func New(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	switch format {
	case "json", "":
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Attach logs HTTP requests, GraphQL operations and created entities from
// the global bus. It returns a function that detaches the subscribers.
func Attach(logger zerolog.Logger) (detach func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
			ev := logger.Info()
			if e.Status >= 500 {
				ev = logger.Error()
			}
			ev.Str("request_id", e.RequestID).
				Str("method", e.Request.Method).
				Str("path", e.Request.URL.Path).
				Int("status", e.Status).
				Dur("duration", e.Duration).
				Msg("http request")
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			ev := logger.Debug()
			if e.Rejected {
				ev = logger.Warn()
			}
			ev.Str("request_id", requestID(ctx)).
				Str("operation", e.OperationName).
				Str("type", e.OperationType).
				Str("outcome", e.Outcome()).
				Int("errors", len(e.Errors)).
				Dur("duration", e.Duration)
			if len(e.Errors) > 0 {
				ev = ev.AnErr("first_error", e.Errors[0])
			}
			ev.Msg("graphql operation")
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.EntityAdded) {
			logger.Info().
				Str("request_id", requestID(ctx)).
				Str("kind", e.Kind).
				Int("id", e.ID).
				Str("name", e.Name).
				Msg("entity added")
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func requestID(ctx context.Context) string {
	id, _ := reqid.FromContext(ctx)
	return id
}

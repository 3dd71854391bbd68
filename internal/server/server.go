// Package server exposes an executor over HTTP following the GraphQL over
// HTTP conventions: JSON POST bodies, GET query strings, batching and an
// optional GraphiQL console.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	eventbus "github.com/hanpama/bookgraph/internal/eventbus"
	events "github.com/hanpama/bookgraph/internal/events"
	executor "github.com/hanpama/bookgraph/internal/executor"
	language "github.com/hanpama/bookgraph/internal/language"
	reqid "github.com/hanpama/bookgraph/internal/reqid"
	schema "github.com/hanpama/bookgraph/internal/schema"
)

// Handler is an http.Handler that serves a GraphQL endpoint.
// It parses and validates requests, runs the executor, and formats responses.
type Handler struct {
	exec      *executor.Executor
	validator *language.Schema
	opt       Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions

	// GraphiQL enables the in-browser IDE when true.
	GraphiQL bool
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

func WithGraphiQL(enable bool) Option { return func(o *Options) { o.GraphiQL = enable } }

// New creates a new GraphQL HTTP handler using the given runtime and schema.
// The schema is rendered to SDL and loaded into the validator once.
func New(runtime executor.Runtime, sch *schema.Schema, opts ...Option) (*Handler, error) {
	validator, err := language.LoadSchema("schema.graphql", schema.Render(sch))
	if err != nil {
		return nil, fmt.Errorf("load schema for validation: %w", err)
	}
	op := Options{Timeout: 10 * time.Second, GraphiQL: true}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{
		exec:      executor.NewExecutor(runtime, sch),
		validator: validator,
		opt:       op,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	ctx, rid := reqid.NewContext(ctx, r.Header.Get(reqid.Header))
	w.Header().Set(reqid.Header, rid)

	status := http.StatusOK
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r, RequestID: rid})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, RequestID: rid, Status: status, Duration: time.Since(start)})
	}()

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	if r.Method == http.MethodOptions {
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeJSON(w, status, errorResponse("GraphQL only supports GET and POST requests."), h.opt.Pretty)
		return
	}

	// Serve GraphiQL IDE when enabled and the client expects HTML.
	if r.Method == http.MethodGet && h.opt.GraphiQL && acceptsHTML(r.Header.Get("Accept")) && r.URL.Query().Get("query") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(graphiqlPage)
		return
	}

	req, batch, err := parseRequest(r, h.opt.MaxBodyBytes)
	if err != nil {
		status = statusOf(err)
		writeJSON(w, status, errorResponse(err.Error()), h.opt.Pretty)
		return
	}

	allowMutation := r.Method == http.MethodPost

	if batch != nil {
		out := make([]any, len(batch))
		for i := range batch {
			out[i], _ = h.executeOne(ctx, batch[i], allowMutation)
		}
		writeJSON(w, status, out, h.opt.Pretty)
		return
	}

	var res any
	res, status = h.executeOne(ctx, req, allowMutation)
	if status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", "POST")
	}
	writeJSON(w, status, res, h.opt.Pretty)
}

// executeOne validates and runs a single request. It returns the response
// body and the HTTP status a standalone request should get.
func (h *Handler) executeOne(ctx context.Context, req GraphQLRequest, allowMutation bool) (any, int) {
	start := time.Now()

	doc, gerrs := language.LoadQuery(h.validator, req.Query)
	opType := string(executor.OperationType(doc, req.OperationName))
	eventbus.Publish(ctx, events.GraphQLStart{Query: req.Query, OperationName: req.OperationName, OperationType: opType})

	reject := func(errs []executor.GraphQLError, status int) (any, int) {
		eventbus.Publish(ctx, events.GraphQLFinish{
			Query:         req.Query,
			OperationName: req.OperationName,
			OperationType: opType,
			Errors:        asErrors(errs),
			Rejected:      true,
			Duration:      time.Since(start),
		})
		return rejection{Errors: errs}, status
	}

	if len(gerrs) > 0 {
		return reject(fromGQLErrors(gerrs), http.StatusBadRequest)
	}
	if opType == string(language.Mutation) && !allowMutation {
		return reject([]executor.GraphQLError{{
			Message: "Can only perform a mutation operation from a POST request.",
		}}, http.StatusMethodNotAllowed)
	}

	result := h.exec.ExecuteRequest(ctx, doc, req.OperationName, req.Variables, nil)
	if result.RequestError {
		return reject(result.Errors, http.StatusBadRequest)
	}
	eventbus.Publish(ctx, events.GraphQLFinish{
		Query:         req.Query,
		OperationName: req.OperationName,
		OperationType: opType,
		Errors:        asErrors(result.Errors),
		Duration:      time.Since(start),
	})
	return result, http.StatusOK
}

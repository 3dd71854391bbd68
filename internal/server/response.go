package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	executor "github.com/hanpama/bookgraph/internal/executor"
	language "github.com/hanpama/bookgraph/internal/language"
	reqid "github.com/hanpama/bookgraph/internal/reqid"
)

// rejection is the body for requests that never executed; it has no data
// entry.
type rejection struct {
	Errors []executor.GraphQLError `json:"errors"`
}

func errorResponse(message string) rejection {
	return rejection{Errors: []executor.GraphQLError{{Message: message}}}
}

// fromGQLErrors converts validator errors, keeping their locations.
func fromGQLErrors(list language.ErrorList) []executor.GraphQLError {
	out := make([]executor.GraphQLError, 0, len(list))
	for _, e := range list {
		ge := executor.GraphQLError{Message: e.Message, Extensions: e.Extensions}
		for _, loc := range e.Locations {
			ge.Locations = append(ge.Locations, executor.Location{Line: loc.Line, Column: loc.Column})
		}
		out = append(out, ge)
	}
	return out
}

func asErrors(errs []executor.GraphQLError) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

// setCORSHeaders answers allowed origins only; a "*" entry allows any.
func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	wildcard := slices.Contains(opts.AllowedOrigins, "*")
	switch {
	case wildcard:
		w.Header().Set("Access-Control-Allow-Origin", "*")
	case slices.Contains(opts.AllowedOrigins, origin):
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	default:
		return
	}
	w.Header().Set("Access-Control-Expose-Headers", reqid.Header)
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	}
}

// acceptsHTML reports whether a browser-style Accept header asks for HTML.
func acceptsHTML(accept string) bool {
	for part := range strings.SplitSeq(accept, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "text/html") || part == "*/*" {
			return true
		}
	}
	return false
}

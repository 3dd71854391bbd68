package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// GraphQLRequest is one operation request, from a JSON body, a batch
// element or a GET query string.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// requestError is a malformed HTTP request, rejected before any GraphQL
// processing.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{status: http.StatusBadRequest, msg: msg} }

func statusOf(err error) int {
	var re *requestError
	if errors.As(err, &re) {
		return re.status
	}
	return http.StatusBadRequest
}

// parseRequest reads a single request or, for a JSON array body, a batch.
func parseRequest(r *http.Request, maxBody int64) (GraphQLRequest, []GraphQLRequest, error) {
	if r.Method == http.MethodGet {
		req, err := parseQueryString(r)
		return req, nil, err
	}

	body, err := readBody(r, maxBody)
	if err != nil {
		return GraphQLRequest{}, nil, err
	}

	var mediaType string
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ = mime.ParseMediaType(ct)
	}
	switch mediaType {
	case "application/graphql":
		if len(body) == 0 {
			return GraphQLRequest{}, nil, badRequest("missing 'query'")
		}
		return GraphQLRequest{Query: string(body), Variables: map[string]any{}}, nil, nil
	case "", "application/json":
	default:
		return GraphQLRequest{}, nil, badRequest("unsupported Content-Type")
	}

	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		var batch []GraphQLRequest
		if err := json.Unmarshal(body, &batch); err != nil {
			return GraphQLRequest{}, nil, badRequest("invalid JSON")
		}
		if len(batch) == 0 {
			return GraphQLRequest{}, nil, badRequest("empty batch")
		}
		return GraphQLRequest{}, batch, nil
	}

	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return GraphQLRequest{}, nil, badRequest("invalid JSON")
	}
	if req.Query == "" {
		return GraphQLRequest{}, nil, badRequest("missing 'query'")
	}
	if req.Variables == nil {
		req.Variables = map[string]any{}
	}
	return req, nil, nil
}

func parseQueryString(r *http.Request) (GraphQLRequest, error) {
	q := r.URL.Query()
	req := GraphQLRequest{
		Query:         q.Get("query"),
		OperationName: q.Get("operationName"),
		Variables:     map[string]any{},
	}
	if req.Query == "" {
		return req, badRequest("missing 'query'")
	}
	if v := q.Get("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return req, badRequest("invalid 'variables' JSON")
		}
	}
	return req, nil
}

// readBody reads at most maxBody bytes (0 means unlimited) and reports 413
// when the body is longer.
func readBody(r *http.Request, maxBody int64) ([]byte, error) {
	defer r.Body.Close()
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, badRequest("failed to read body")
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return nil, &requestError{status: http.StatusRequestEntityTooLarge, msg: "body too large"}
	}
	return body, nil
}

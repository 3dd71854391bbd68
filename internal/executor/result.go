package executor

import language "github.com/hanpama/bookgraph/internal/language"

// Location is a line/column position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// ExecutionResult represents the result of executing a GraphQL query
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`

	// RequestError is set when execution never started, in which case the
	// response carries no data entry at all.
	RequestError bool `json:"-"`
}

func requestError(message string) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{{Message: message}}, RequestError: true}
}

func fieldLocations(fields []*language.Field) []Location {
	var locs []Location
	for _, f := range fields {
		if f == nil || f.Position == nil {
			continue
		}
		locs = append(locs, Location{Line: f.Position.Line, Column: f.Position.Column})
	}
	return locs
}

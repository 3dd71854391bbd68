package events

import "time"

// GraphQLStart is emitted before executing a GraphQL operation.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is emitted after executing a GraphQL operation. Rejected is
// set when the document failed to parse or validate and nothing ran.
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Rejected      bool
	Duration      time.Duration
}

// Outcome classifies the operation as "ok", "error" (executed with field
// errors) or "rejected".
func (e GraphQLFinish) Outcome() string {
	switch {
	case e.Rejected:
		return "rejected"
	case len(e.Errors) > 0:
		return "error"
	default:
		return "ok"
	}
}

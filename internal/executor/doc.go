// Package executor runs validated GraphQL documents against a schema.
//
// # Execution Model
//
// Execution is synchronous and depth-first. For the selected operation the
// executor collects the root selection set (merging aliases, fragments and
// @skip/@include), then for every collected field in document order:
//
//  1. coerces the field arguments from literals and variables,
//  2. calls Runtime.ResolveField with the parent value,
//  3. completes the returned value against the field's declared type,
//     recursing into object sub-selections with the resolved value as the
//     new parent.
//
// Because fields run one after another, the top-level fields of a mutation
// execute serially in the order they are listed, which is what the GraphQL
// specification requires of mutations.
//
// # Value Completion
//
//   - Non-Null: the inner value is completed; a null result records a located
//     error and nulls the nearest nullable ancestor.
//   - List: any Go slice; each element is completed with an index-aware path.
//   - Leaf (Scalar/Enum): Runtime.SerializeLeafValue produces a JSON-safe value.
//   - Object: the merged sub-selection is executed with the value as parent.
//
// # Errors and Partial Success
//
// Request errors (unknown operation, bad variables) stop before any resolver
// runs and are flagged on ExecutionResult.RequestError. Field errors are
// recorded with a response path and source locations; sibling fields keep
// their values.
//
// The executor assumes the document was already validated against the
// schema (see package language). Unknown fields that slip through are
// reported as field errors rather than panicking.
package executor

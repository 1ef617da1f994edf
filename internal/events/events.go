// Package events defines the payloads published on the event bus. The
// request id, when there is one, travels in the publishing context.
package events

import "time"

// SchemaBuildStart is published before SDL sources are turned into an
// executable schema.
type SchemaBuildStart struct {
	Sources int
}

// SchemaBuildFinish is published once the schema is built or the build failed.
type SchemaBuildFinish struct {
	Sources int
	Types   int
	// Directives maps each directive name used by the schema to the class
	// identifier it resolved to.
	Directives map[string]string
	Err        error
	Duration   time.Duration
}

// GraphQLStart is published once an operation parsed, before it runs.
type GraphQLStart struct {
	Query         string
	OperationName string
	// OperationType is query or mutation, or empty when the operation could
	// not be selected.
	OperationType string
	Variables     map[string]any
}

type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}

// ResolverStart is published before a directive-backed field resolver runs.
// ID pairs it with the matching ResolverFinish.
type ResolverStart struct {
	ID         uint64
	ObjectType string
	Field      string
}

type ResolverFinish struct {
	ID         uint64
	ObjectType string
	Field      string
	Err        error
	Duration   time.Duration
}

// Dispatched is published by @event after the annotated field resolved.
type Dispatched struct {
	Name  string
	Field string
	Value any
}

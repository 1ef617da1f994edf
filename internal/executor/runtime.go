package executor

import (
	"context"
)

// Runtime is what the Executor calls out to. Implementations must be safe
// for concurrent operations and must not mutate sources or args.
//
// Errors returned by any method become located GraphQL errors on the field
// being resolved; in a Non-Null position they null the nearest nullable
// ancestor.
type Runtime interface {
	// ResolveSync resolves a field whose schema.Field.Async is false. The raw
	// value is completed by the Executor, nested selections included.
	// Returning (nil, nil) yields null.
	ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// BatchResolveAsync resolves every async field of one depth. It is called
	// once per depth, only with live tasks, and must return exactly one
	// result per task in task order. A failing task does not affect the
	// others.
	BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult

	// ResolveType names the concrete object type of a value of an interface
	// or union. The name must be a possible type of abstractType.
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue turns a scalar or enum value into a JSON-safe Go
	// value. Enums serialize to their name.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

// AsyncResolveTask is one async field to resolve. Source is nil for root
// fields, and Args are already coerced against the schema.
type AsyncResolveTask struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
	// Path is the response path of the field.
	Path Path
}

// AsyncResolveResult is the outcome of one task. Value is ignored when Error
// is set.
type AsyncResolveResult struct {
	Value any
	Error error
}

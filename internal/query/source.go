package query

import "context"

// Source provides the records a query builder filters.
type Source interface {
	Records(ctx context.Context) ([]any, error)
}

// MemorySource serves a fixed slice of records.
type MemorySource []any

func (s MemorySource) Records(ctx context.Context) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]any, len(s))
	copy(out, s)
	return out, nil
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]any, error)

func (f SourceFunc) Records(ctx context.Context) ([]any, error) { return f(ctx) }

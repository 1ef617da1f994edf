package executor_test

import (
	"context"
	"errors"
	"sync"

	executor "github.com/hanpama/beacon/internal/executor"
)

type resolverFunc func(ctx context.Context, source any, args map[string]any) (any, error)

func value(v any) resolverFunc {
	return func(context.Context, any, map[string]any) (any, error) { return v, nil }
}

func fail(err error) resolverFunc {
	return func(context.Context, any, map[string]any) (any, error) { return nil, err }
}

// call is one resolver invocation seen by the recorder. Batch numbers the
// BatchResolveAsync call an async task arrived in, starting at 1.
type call struct {
	Async      bool
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
	Batch      int
	Path       executor.Path
}

// recorder is a Runtime keyed by "Type.field" that records every call.
// Missing resolvers produce null.
type recorder struct {
	mu        sync.Mutex
	resolvers map[string]resolverFunc
	calls     []call
	batches   int
}

func newRecorder(resolvers map[string]resolverFunc) *recorder {
	return &recorder{resolvers: resolvers}
}

func (r *recorder) invoke(ctx context.Context, c call) (any, error) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	fn := r.resolvers[c.ObjectType+"."+c.Field]
	r.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, c.Source, c.Args)
}

func (r *recorder) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	return r.invoke(ctx, call{ObjectType: objectType, Field: field, Source: source, Args: args})
}

// BatchResolveAsync runs tasks grouped by field, groups in order of first
// appearance, and returns results in task order.
func (r *recorder) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	r.mu.Lock()
	r.batches++
	batch := r.batches
	r.mu.Unlock()

	var order []string
	groups := make(map[string][]int)
	for i, task := range tasks {
		key := task.ObjectType + "." + task.Field
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	results := make([]executor.AsyncResolveResult, len(tasks))
	for _, key := range order {
		for _, i := range groups[key] {
			task := tasks[i]
			v, err := r.invoke(ctx, call{
				Async:      true,
				ObjectType: task.ObjectType,
				Field:      task.Field,
				Source:     task.Source,
				Args:       task.Args,
				Batch:      batch,
				Path:       task.Path,
			})
			results[i] = executor.AsyncResolveResult{Value: v, Error: err}
		}
	}
	return results
}

func (r *recorder) ResolveType(_ context.Context, _ string, v any) (string, error) {
	if m, ok := v.(map[string]any); ok {
		if name, ok := m["__typename"].(string); ok {
			return name, nil
		}
	}
	return "", errors.New("cannot resolve type")
}

func (r *recorder) SerializeLeafValue(_ context.Context, _ string, v any) (any, error) {
	return v, nil
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// Package runtime turns schema directives into an executor.Runtime.
//
// Build walks every object type of a built schema document and asks the
// directive factory for the pieces of each field: its resolver directive, the
// argument directives of its arguments, its field middleware and the type
// middleware of its parent. The pieces are composed once. Fields backed by a
// resolver directive are marked async on the schema and resolved concurrently
// per execution depth; every other field reads the property of the same name
// from its parent value.
package runtime

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	directive "github.com/hanpama/beacon/internal/directive"
	eventbus "github.com/hanpama/beacon/internal/eventbus"
	events "github.com/hanpama/beacon/internal/events"
	executor "github.com/hanpama/beacon/internal/executor"
	language "github.com/hanpama/beacon/internal/language"
	query "github.com/hanpama/beacon/internal/query"
	schema "github.com/hanpama/beacon/internal/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Runtime implements executor.Runtime over directive-built resolvers.
type Runtime struct {
	schema        *schema.Schema
	fields        map[string]directive.ResolveFunc
	typeResolvers map[string]directive.TypeResolveFunc
	logger        zerolog.Logger
	concurrency   int
	nextID        atomic.Uint64
}

var _ executor.Runtime = (*Runtime)(nil)

type Option func(*Runtime)

// WithLogger sets the logger used for resolver failures.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithConcurrency bounds the number of async resolvers running at once.
// Zero or less means unbounded.
func WithConcurrency(n int) Option {
	return func(r *Runtime) { r.concurrency = n }
}

// Build composes the resolvers of every object field in doc. doc must be the
// document s was built from, after the directive build pass.
func Build(ctx context.Context, doc *language.SchemaDocument, s *schema.Schema, factory *directive.Factory, services *directive.Services, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		schema:        s,
		fields:        make(map[string]directive.ResolveFunc),
		typeResolvers: make(map[string]directive.TypeResolveFunc),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	args := newArgPlanner(doc, factory)

	for _, def := range doc.Definitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tv := &directive.TypeValue{Document: doc, Definition: def, Services: services}
		switch def.Kind {
		case language.Object:
			if err := r.buildObject(tv, factory, args); err != nil {
				return nil, err
			}
		case language.Interface, language.Union:
			fn, err := buildTypeResolver(tv, factory, s)
			if err != nil {
				return nil, err
			}
			r.typeResolvers[def.Name] = fn
		}
	}
	return r, nil
}

func (r *Runtime) buildObject(tv *directive.TypeValue, factory *directive.Factory, args *argPlanner) error {
	typeMiddleware, err := factory.TypeMiddleware(tv.Definition)
	if err != nil {
		return fmt.Errorf("type %s: %w", tv.Name(), err)
	}
	objectType := r.schema.Types[tv.Name()]
	for _, field := range tv.Definition.Fields {
		fv := &directive.FieldValue{Parent: tv, Definition: field, Factory: factory, Services: tv.Services}
		resolve, async, err := buildField(fv, typeMiddleware, args)
		if err != nil {
			return fmt.Errorf("field %s: %w", fv.Path(), err)
		}
		r.fields[fv.Path()] = resolve
		if async && objectType != nil {
			if sf := objectType.FieldByName(field.Name); sf != nil {
				sf.SetAsync(true)
			}
		}
	}
	return nil
}

// buildField wraps the field resolver with the argument pipeline, then the
// field middleware, then the type middleware. The first declared middleware
// ends up outermost.
func buildField(fv *directive.FieldValue, typeMiddleware []directive.TypeMiddleware, args *argPlanner) (directive.ResolveFunc, bool, error) {
	resolver, err := fv.Factory.FieldResolver(fv.Definition)
	if err != nil {
		return nil, false, err
	}
	var resolve directive.ResolveFunc
	async := resolver != nil
	if async {
		resolve, err = resolver.ResolveField(fv)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", resolver, err)
		}
	} else {
		resolve = propertyResolver(fv.Name())
	}

	plan, err := args.field(fv.Definition)
	if err != nil {
		return nil, false, err
	}
	resolve = plan.wrap(resolve)

	middleware, err := fv.Factory.FieldMiddleware(fv.Definition)
	if err != nil {
		return nil, false, err
	}
	for i := len(middleware) - 1; i >= 0; i-- {
		if resolve, err = middleware[i].HandleField(fv, resolve); err != nil {
			return nil, false, fmt.Errorf("%s: %w", middleware[i], err)
		}
	}
	for i := len(typeMiddleware) - 1; i >= 0; i-- {
		if resolve, err = typeMiddleware[i].HandleType(fv.Parent, fv, resolve); err != nil {
			return nil, false, fmt.Errorf("%s: %w", typeMiddleware[i], err)
		}
	}
	return resolve, async, nil
}

// propertyResolver reads the property named like the field from the parent.
func propertyResolver(name string) directive.ResolveFunc {
	return func(_ context.Context, source any, _ map[string]any) (any, error) {
		v, _ := query.Lookup(source, name)
		return v, nil
	}
}

func (r *Runtime) resolver(objectType, field string) directive.ResolveFunc {
	if fn, ok := r.fields[objectType+"."+field]; ok {
		return fn
	}
	return propertyResolver(field)
}

func (r *Runtime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	return call(ctx, r.resolver(objectType, field), source, args)
}

// BatchResolveAsync runs every task concurrently and reports each outcome in
// task order. Failures stay local to their task.
func (r *Runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = r.resolveTask(ctx, task)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runtime) resolveTask(ctx context.Context, task executor.AsyncResolveTask) executor.AsyncResolveResult {
	if err := ctx.Err(); err != nil {
		return executor.AsyncResolveResult{Error: err}
	}
	id := r.nextID.Add(1)
	eventbus.Publish(ctx, events.ResolverStart{ID: id, ObjectType: task.ObjectType, Field: task.Field})
	start := time.Now()

	v, err := call(ctx, r.resolver(task.ObjectType, task.Field), task.Source, task.Args)

	eventbus.Publish(ctx, events.ResolverFinish{
		ID:         id,
		ObjectType: task.ObjectType,
		Field:      task.Field,
		Err:        err,
		Duration:   time.Since(start),
	})
	if err != nil {
		r.logger.Debug().Err(err).
			Str("field", task.ObjectType+"."+task.Field).
			Msg("resolver failed")
	}
	return executor.AsyncResolveResult{Value: v, Error: err}
}

// call runs fn and turns a panic into an error.
func call(ctx context.Context, fn directive.ResolveFunc, source any, args map[string]any) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, fmt.Errorf("resolver panicked: %v", p)
		}
	}()
	return fn(ctx, source, args)
}

func (r *Runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if fn, ok := r.typeResolvers[abstractType]; ok {
		return fn(ctx, value)
	}
	return defaultTypeResolver(r.schema, abstractType)(ctx, value)
}

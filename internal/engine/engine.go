// Package engine assembles an executable GraphQL schema from SDL sources and
// their directives, and runs operations against it.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	astbuild "github.com/hanpama/beacon/internal/astbuild"
	directive "github.com/hanpama/beacon/internal/directive"
	eventbus "github.com/hanpama/beacon/internal/eventbus"
	events "github.com/hanpama/beacon/internal/events"
	executor "github.com/hanpama/beacon/internal/executor"
	introspection "github.com/hanpama/beacon/internal/introspection"
	language "github.com/hanpama/beacon/internal/language"
	reqid "github.com/hanpama/beacon/internal/reqid"
	runtime "github.com/hanpama/beacon/internal/runtime"
	schema "github.com/hanpama/beacon/internal/schema"
	sdl "github.com/hanpama/beacon/internal/sdl"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2/gqlerror"

	// built-in directives register themselves on import
	_ "github.com/hanpama/beacon/internal/directives"
)

// Engine is a built schema ready to execute operations. It is safe for
// concurrent use.
type Engine struct {
	document *language.SchemaDocument
	schema   *schema.Schema
	factory  *directive.Factory
	exec     *executor.Executor
	sources  []*sdl.SourceMetadata
	logger   zerolog.Logger
	timeout  time.Duration
	root     any
}

type options struct {
	factory     *directive.Factory
	services    *directive.Services
	logger      zerolog.Logger
	concurrency int
	timeout     time.Duration
	root        any
}

type Option func(*options)

// WithFactory replaces the directive factory built from the default
// registry.
func WithFactory(f *directive.Factory) Option { return func(o *options) { o.factory = f } }

// WithServices provides the resolvers, type resolvers and data sources
// directives refer to by name.
func WithServices(s *directive.Services) Option { return func(o *options) { o.services = s } }

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = l } }

// WithConcurrency bounds the resolvers running at once per execution depth.
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

// WithTimeout sets a default timeout for operations whose context has no
// deadline. 0 means no default timeout.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithRootValue sets the value root fields resolve against.
func WithRootValue(v any) Option { return func(o *options) { o.root = v } }

// New loads every source of disc and builds the executable schema.
func New(ctx context.Context, disc sdl.Discovery, opts ...Option) (*Engine, error) {
	o := newOptions(opts)
	ctx, _ = reqid.Ensure(ctx)

	bundle, err := sdl.Load(ctx, disc)
	if err != nil {
		o.logger.Error().Err(err).Msg("loading schema sources failed")
		return nil, err
	}

	start := time.Now()
	eventbus.Publish(ctx, events.SchemaBuildStart{Sources: len(bundle.Sources)})
	e, err := build(ctx, bundle, o)
	finish := events.SchemaBuildFinish{
		Sources:    len(bundle.Sources),
		Directives: o.factory.Resolved(),
		Err:        err,
		Duration:   time.Since(start),
	}
	if e != nil {
		finish.Types = len(e.schema.Types)
	}
	eventbus.Publish(ctx, finish)
	if err != nil {
		o.logger.Error().Err(err).Msg("building schema failed")
		return nil, err
	}
	o.logger.Info().
		Int("sources", len(bundle.Sources)).
		Int("types", finish.Types).
		Int("directives", len(finish.Directives)).
		Dur("duration", finish.Duration).
		Msg("schema built")
	return e, nil
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil {
		o.factory = directive.NewFactory(directive.WithLogger(o.logger))
	}
	return o
}

// Compile loads the sources and runs the directive build pass without
// wiring resolvers, so services are not needed.
func Compile(ctx context.Context, disc sdl.Discovery, opts ...Option) (*schema.Schema, error) {
	o := newOptions(opts)
	bundle, err := sdl.Load(ctx, disc)
	if err != nil {
		return nil, err
	}
	return compile(ctx, bundle.Document, o.factory)
}

func compile(ctx context.Context, doc *language.SchemaDocument, factory *directive.Factory) (*schema.Schema, error) {
	if err := astbuild.Build(ctx, doc, factory); err != nil {
		return nil, err
	}
	if _, err := astbuild.AddDirectiveDefinitions(doc, factory); err != nil {
		return nil, err
	}
	return schema.FromDocument(doc)
}

func build(ctx context.Context, bundle *sdl.Bundle, o options) (*Engine, error) {
	doc := bundle.Document
	s, err := compile(ctx, doc, o.factory)
	if err != nil {
		return nil, err
	}
	rt, err := runtime.Build(ctx, doc, s, o.factory, o.services,
		runtime.WithLogger(o.logger),
		runtime.WithConcurrency(o.concurrency))
	if err != nil {
		return nil, err
	}
	ext := introspection.Extend(s)
	return &Engine{
		document: doc,
		schema:   s,
		factory:  o.factory,
		exec:     executor.NewExecutor(introspection.Wrap(rt, ext), ext),
		sources:  bundle.Sources,
		logger:   o.logger,
		timeout:  o.timeout,
		root:     o.root,
	}, nil
}

// Schema returns the executable schema.
func (e *Engine) Schema() *schema.Schema { return e.schema }

// Document returns the schema document after the directive build pass.
func (e *Engine) Document() *language.SchemaDocument { return e.document }

// SDL renders the built schema.
func (e *Engine) SDL() string { return schema.Render(e.schema) }

// Directives maps every directive name the build resolved to its class
// identifier.
func (e *Engine) Directives() map[string]string { return e.factory.Resolved() }

// Sources lists the loaded schema sources in load order.
func (e *Engine) Sources() []*sdl.SourceMetadata { return e.sources }

// Execute parses and runs one operation. Errors are reported in the result.
func (e *Engine) Execute(ctx context.Context, query, operationName string, variables map[string]any) *executor.ExecutionResult {
	if _, ok := ctx.Deadline(); !ok && e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ctx, rid := reqid.Ensure(ctx)
	log := e.logger.With().Int64("request_id", rid).Logger()

	doc, err := language.ParseQuery(query)
	if err != nil {
		log.Debug().Err(err).Msg("query parse failed")
		return &executor.ExecutionResult{Errors: []executor.GraphQLError{parseError(err)}}
	}

	opType := ""
	if op := doc.Operations.ForName(operationName); op != nil {
		opType = string(op.Operation)
	} else if operationName == "" && len(doc.Operations) == 1 {
		opType = string(doc.Operations[0].Operation)
	}

	start := time.Now()
	eventbus.Publish(ctx, events.GraphQLStart{Query: query, OperationName: operationName, OperationType: opType, Variables: variables})
	result := e.exec.ExecuteRequest(ctx, doc, operationName, variables, e.root)
	errs := make([]error, len(result.Errors))
	for i := range result.Errors {
		errs[i] = result.Errors[i]
	}
	duration := time.Since(start)
	eventbus.Publish(ctx, events.GraphQLFinish{
		Query:         query,
		OperationName: operationName,
		OperationType: opType,
		Errors:        errs,
		Duration:      duration,
	})
	log.Debug().
		Str("operation", operationName).
		Str("type", opType).
		Int("errors", len(errs)).
		Dur("duration", duration).
		Msg("operation executed")
	return result
}

func parseError(err error) executor.GraphQLError {
	gerr := executor.GraphQLError{
		Message:    err.Error(),
		Extensions: map[string]any{"code": "GRAPHQL_PARSE_FAILED"},
	}
	var perr *gqlerror.Error
	if errors.As(err, &perr) {
		gerr.Message = perr.Message
		for _, loc := range perr.Locations {
			gerr.Locations = append(gerr.Locations, executor.Location{Line: loc.Line, Column: loc.Column})
		}
	}
	return gerr
}

// ErrorCode classifies a build error. Located schema violations count as
// invalid arguments.
func ErrorCode(err error) errbuilder.ErrCode {
	var verr sdl.ValidationError
	if errors.As(err, &verr) {
		return errbuilder.CodeInvalidArgument
	}
	return errbuilder.CodeOf(err)
}

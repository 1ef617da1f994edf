// Package otel exports schema builds, operations and resolver calls as
// OpenTelemetry spans.
package otel

import (
	"context"
	"fmt"
	"sync"

	eventbus "github.com/hanpama/beacon/internal/eventbus"
	events "github.com/hanpama/beacon/internal/events"
	reqid "github.com/hanpama/beacon/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(ctx context.Context, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Register(otel.Tracer("beacon"))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Register subscribes span producers backed by tracer to the global bus.
func Register(tracer trace.Tracer) (unsubscribe func()) {
	s := &subscriber{tracer: tracer}
	return s.register()
}

type resolverKey struct {
	rid int64
	id  uint64
}

type subscriber struct {
	tracer        trace.Tracer
	buildSpans    sync.Map // rid -> trace.Span
	gqlSpans      sync.Map // rid -> trace.Span
	resolverSpans sync.Map // resolverKey -> trace.Span
}

func (s *subscriber) register() func() {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.SchemaBuildStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "beacon.schema.build")
			span.SetAttributes(attribute.Int("beacon.schema.sources", e.Sources))
			s.buildSpans.Store(rid, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.SchemaBuildFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.buildSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.Int("beacon.schema.types", e.Types),
				attribute.Int("beacon.schema.directives", len(e.Directives)),
			)
			endWithError(span, e.Err)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "graphql.operation")
			span.SetAttributes(
				attribute.String("graphql.operation.name", e.OperationName),
				attribute.String("graphql.operation.type", e.OperationType),
			)
			s.gqlSpans.Store(rid, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.gqlSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(attribute.Int("graphql.error_count", len(e.Errors)))
			if len(e.Errors) > 0 {
				span.SetStatus(codes.Error, e.Errors[0].Error())
			}
			span.End()
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ResolverStart) {
			rid, _ := reqid.FromContext(ctx)
			parent := ctx
			if v, ok := s.gqlSpans.Load(rid); ok {
				parent = trace.ContextWithSpan(ctx, v.(trace.Span))
			}
			_, span := s.tracer.Start(parent, "graphql.resolve")
			span.SetAttributes(
				attribute.String("graphql.field.parent", e.ObjectType),
				attribute.String("graphql.field.name", e.Field),
			)
			s.resolverSpans.Store(resolverKey{rid: rid, id: e.ID}, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ResolverFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.resolverSpans.LoadAndDelete(resolverKey{rid: rid, id: e.ID})
			if !ok {
				return
			}
			endWithError(v.(trace.Span), e.Err)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.Dispatched) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.gqlSpans.Load(rid)
			if !ok {
				return
			}
			v.(trace.Span).AddEvent("beacon.event", trace.WithAttributes(
				attribute.String("beacon.event.name", e.Name),
				attribute.String("beacon.event.field", e.Field),
				attribute.String("beacon.event.value", fmt.Sprint(e.Value)),
			))
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func endWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package directives

import (
	"context"
	"fmt"

	directive "github.com/hanpama/beacon/internal/directive"
	eventbus "github.com/hanpama/beacon/internal/eventbus"
	events "github.com/hanpama/beacon/internal/events"
)

// EventDirective publishes events.Dispatched with the field result once the
// field resolved without error.
type EventDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &EventDirective{} }) }

func (*EventDirective) Name() string { return "event" }

func (*EventDirective) Definition() string {
	return `"""
Dispatch an event after the field resolved.
"""
directive @event(dispatch: String!) repeatable on FIELD_DEFINITION`
}

func (d *EventDirective) HandleField(f *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	name := d.StringArg("dispatch", "")
	if name == "" {
		return nil, fmt.Errorf("@event on %s requires the dispatch argument", f.Path())
	}
	path := f.Path()
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		v, err := next(ctx, source, args)
		if err != nil {
			return nil, err
		}
		eventbus.Publish(ctx, events.Dispatched{Name: name, Field: path, Value: v})
		return v, nil
	}, nil
}

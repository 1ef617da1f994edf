package directives

import (
	"context"
	"fmt"
	"maps"

	directive "github.com/hanpama/beacon/internal/directive"
	reqid "github.com/hanpama/beacon/internal/reqid"
	viewer "github.com/hanpama/beacon/internal/viewer"
)

// InjectDirective copies a value from the request context into the field
// arguments.
type InjectDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &InjectDirective{} }) }

func (*InjectDirective) Name() string { return "inject" }

func (*InjectDirective) Definition() string {
	return `"""
Inject a value from the request context into the arguments.
"""
directive @inject(
  """
  One of viewer.id or request.id.
  """
  context: String!
  """
  The argument name the value is stored under.
  """
  name: String!
) repeatable on FIELD_DEFINITION`
}

func (d *InjectDirective) HandleField(f *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	name := d.StringArg("name", "")
	if name == "" {
		return nil, fmt.Errorf("@inject on %s requires the name argument", f.Path())
	}
	var read func(ctx context.Context) any
	switch path := d.StringArg("context", ""); path {
	case "viewer.id":
		read = func(ctx context.Context) any {
			if v, ok := viewer.FromContext(ctx); ok {
				return v.ID
			}
			return nil
		}
	case "request.id":
		read = func(ctx context.Context) any {
			if id, ok := reqid.FromContext(ctx); ok {
				return id
			}
			return nil
		}
	default:
		return nil, fmt.Errorf("@inject on %s: unknown context path %q", f.Path(), path)
	}
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		injected := maps.Clone(args)
		if injected == nil {
			injected = make(map[string]any, 1)
		}
		injected[name] = read(ctx)
		return next(ctx, source, injected)
	}, nil
}

package directives

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	directive "github.com/hanpama/beacon/internal/directive"
	viewer "github.com/hanpama/beacon/internal/viewer"
)

// GuardDirective rejects anonymous requests. On a type it guards every field.
type GuardDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &GuardDirective{} }) }

func (*GuardDirective) Name() string { return "guard" }

func (*GuardDirective) Definition() string {
	return `"""
Run authentication through the request viewer before resolving the field.
"""
directive @guard on FIELD_DEFINITION | OBJECT`
}

func (*GuardDirective) HandleField(_ *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	return guarded(next), nil
}

func (*GuardDirective) HandleType(_ *directive.TypeValue, _ *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	return guarded(next), nil
}

func guarded(next directive.ResolveFunc) directive.ResolveFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		if _, ok := viewer.FromContext(ctx); !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("Unauthenticated.")
		}
		return next(ctx, source, args)
	}
}

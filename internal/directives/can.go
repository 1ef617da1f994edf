package directives

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	directive "github.com/hanpama/beacon/internal/directive"
	viewer "github.com/hanpama/beacon/internal/viewer"
)

// CanDirective requires the viewer to hold an ability.
type CanDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &CanDirective{} }) }

func (*CanDirective) Name() string { return "can" }

func (*CanDirective) Definition() string {
	return `"""
Check an ability of the request viewer before resolving the field.
"""
directive @can(ability: String!) repeatable on FIELD_DEFINITION`
}

func (d *CanDirective) HandleField(f *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	ability := d.StringArg("ability", "")
	if ability == "" {
		return nil, fmt.Errorf("@can on %s requires the ability argument", f.Path())
	}
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		v, _ := viewer.FromContext(ctx)
		if !v.Can(ability) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("This action is unauthorized.")
		}
		return next(ctx, source, args)
	}, nil
}

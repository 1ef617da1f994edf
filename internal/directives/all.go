package directives

import (
	"context"

	directive "github.com/hanpama/beacon/internal/directive"
)

// AllDirective lists the records of a data source, filtered and sorted by
// the builder directives on the field arguments.
type AllDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &AllDirective{} }) }

func (*AllDirective) Name() string { return "all" }

func (*AllDirective) Definition() string {
	return `"""
Fetch all records of a data source.
"""
directive @all(source: String!) on FIELD_DEFINITION`
}

func (d *AllDirective) ResolveField(f *directive.FieldValue) (directive.ResolveFunc, error) {
	src, err := f.Services.Source(d.StringArg("source", ""))
	if err != nil {
		return nil, err
	}
	plan, err := newBuilderPlan(f)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, _ any, args map[string]any) (any, error) {
		b, err := plan.build(args)
		if err != nil {
			return nil, err
		}
		records, err := src.Records(ctx)
		if err != nil {
			return nil, err
		}
		return b.Apply(records), nil
	}, nil
}

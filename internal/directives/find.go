package directives

import (
	"context"
	"fmt"

	directive "github.com/hanpama/beacon/internal/directive"
)

// FindDirective returns the single record matching the field arguments, or
// null when none does.
type FindDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &FindDirective{} }) }

func (*FindDirective) Name() string { return "find" }

func (*FindDirective) Definition() string {
	return `"""
Find a single record of a data source by the field arguments.
"""
directive @find(source: String!) on FIELD_DEFINITION`
}

func (d *FindDirective) ResolveField(f *directive.FieldValue) (directive.ResolveFunc, error) {
	src, err := f.Services.Source(d.StringArg("source", ""))
	if err != nil {
		return nil, err
	}
	plan, err := newBuilderPlan(f)
	if err != nil {
		return nil, err
	}
	path := f.Path()
	return func(ctx context.Context, _ any, args map[string]any) (any, error) {
		b, err := plan.build(args)
		if err != nil {
			return nil, err
		}
		records, err := src.Records(ctx)
		if err != nil {
			return nil, err
		}
		matches := b.Apply(records)
		switch len(matches) {
		case 0:
			return nil, nil
		case 1:
			return matches[0], nil
		}
		return nil, fmt.Errorf("%s: the query returned more than one result", path)
	}, nil
}

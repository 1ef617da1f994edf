package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
	query "github.com/hanpama/beacon/internal/query"
)

// InDirective restricts the column to the values of a list argument.
type InDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &InDirective{} }) }

func (*InDirective) Name() string { return "in" }

func (*InDirective) Definition() string {
	return `"""
Restrict a column to the given list of values.
"""
directive @in(key: String) on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *InDirective) HandleBuilder(b *query.Builder, value any) (*query.Builder, error) {
	values, ok := toList(value)
	if !ok {
		values = []any{value}
	}
	return b.WhereIn(d.StringArg("key", d.NodeName()), values), nil
}

package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
	query "github.com/hanpama/beacon/internal/query"
)

// EqDirective adds an equality constraint on the argument value.
type EqDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &EqDirective{} }) }

func (*EqDirective) Name() string { return "eq" }

func (*EqDirective) Definition() string {
	return `"""
Add an equality condition to the query. The column defaults to the argument name.
"""
directive @eq(key: String) on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *EqDirective) HandleBuilder(b *query.Builder, value any) (*query.Builder, error) {
	return b.Where(d.StringArg("key", d.NodeName()), query.OpEq, value), nil
}

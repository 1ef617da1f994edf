package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
	query "github.com/hanpama/beacon/internal/query"
)

// WhereDirective adds a comparison on the argument value.
type WhereDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &WhereDirective{} }) }

func (*WhereDirective) Name() string { return "where" }

func (*WhereDirective) Definition() string {
	return `"""
Compare a column against the argument value.
"""
directive @where(
  """
  The comparison operator: =, !=, >, >=, <, <=, in or like.
  """
  operator: String = "="
  key: String
) on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *WhereDirective) HandleBuilder(b *query.Builder, value any) (*query.Builder, error) {
	op, err := query.ParseOperator(d.StringArg("operator", "="))
	if err != nil {
		return nil, err
	}
	return b.Where(d.StringArg("key", d.NodeName()), op, value), nil
}

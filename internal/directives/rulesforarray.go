package directives

import (
	"context"

	directive "github.com/hanpama/beacon/internal/directive"
)

// RulesForArrayDirective validates a list argument as a whole, for example
// "min=1,max=10" on its length.
type RulesForArrayDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &RulesForArrayDirective{} }) }

func (*RulesForArrayDirective) Name() string { return "rulesForArray" }

func (*RulesForArrayDirective) Definition() string {
	return `"""
Validate a list argument as a whole using validator tags.
"""
directive @rulesForArray(apply: [String!]!) repeatable on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *RulesForArrayDirective) HandleArgArray(ctx context.Context, values []any) error {
	return checkRules(ctx, d.NodeName(), d.StringListArg("apply"), values)
}

package directives

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-playground/validator/v10"
	directive "github.com/hanpama/beacon/internal/directive"
)

// RulesDirective validates an argument value with validator tags such as
// "required", "email" or "min=3".
type RulesDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &RulesDirective{} }) }

func (*RulesDirective) Name() string { return "rules" }

func (*RulesDirective) Definition() string {
	return `"""
Validate an argument using validator tags.
"""
directive @rules(apply: [String!]!) repeatable on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *RulesDirective) HandleArg(ctx context.Context, value any) error {
	return checkRules(ctx, d.NodeName(), d.StringListArg("apply"), value)
}

func checkRules(ctx context.Context, arg string, rules []string, value any) (err error) {
	if len(rules) == 0 {
		return nil
	}
	if value == nil {
		if slices.Contains(rules, "required") {
			return ruleViolation(arg, "required")
		}
		return nil
	}
	defer func() {
		// validator panics on unknown tags
		if r := recover(); r != nil {
			err = errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("invalid rules %v on %s: %v", rules, arg, r))
		}
	}()
	verr := validatorInstance().VarCtx(ctx, value, strings.Join(rules, ","))
	if verr == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(verr, &fieldErrs) && len(fieldErrs) > 0 {
		rule := fieldErrs[0].Tag()
		if p := fieldErrs[0].Param(); p != "" {
			rule += "=" + p
		}
		return ruleViolation(arg, rule)
	}
	return verr
}

func ruleViolation(arg, rule string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("The %s argument failed the %s rule.", arg, rule))
}

package directives

import (
	"context"
	"strings"

	directive "github.com/hanpama/beacon/internal/directive"
)

// TrimDirective strips surrounding whitespace from string arguments,
// including strings nested in lists and input objects.
type TrimDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &TrimDirective{} }) }

func (*TrimDirective) Name() string { return "trim" }

func (*TrimDirective) Definition() string {
	return `"""
Remove whitespace from the beginning and end of a given input.
"""
directive @trim on ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (*TrimDirective) TransformArg(_ context.Context, value any) (any, error) {
	return trim(value), nil
}

func trim(v any) any {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = trim(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = trim(item)
		}
		return out
	}
	return v
}

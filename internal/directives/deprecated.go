package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
)

// DeprecatedDirective marks fields and enum values as deprecated. The schema
// model reads it; it has no build or runtime behavior.
type DeprecatedDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &DeprecatedDirective{} }) }

func (*DeprecatedDirective) Name() string { return "deprecated" }

func (*DeprecatedDirective) Definition() string {
	return `directive @deprecated(reason: String = "No longer supported") on FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION | ENUM_VALUE`
}

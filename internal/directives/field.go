package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
)

// FieldDirective resolves a field with a resolver registered in
// directive.Services under the given name.
type FieldDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &FieldDirective{} }) }

func (*FieldDirective) Name() string { return "field" }

func (*FieldDirective) Definition() string {
	return `"""
Resolve the field with a named resolver function.
"""
directive @field(resolver: String!) on FIELD_DEFINITION`
}

func (d *FieldDirective) ResolveField(f *directive.FieldValue) (directive.ResolveFunc, error) {
	name := d.StringArg("resolver", f.Path())
	return f.Services.Resolver(name)
}

package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
)

// InterfaceDirective resolves the implementing type of interface values with
// a named type resolver.
type InterfaceDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &InterfaceDirective{} }) }

func (*InterfaceDirective) Name() string { return "interface" }

func (*InterfaceDirective) Definition() string {
	return `"""
Use a named type resolver to pick the concrete type of an interface value.
"""
directive @interface(resolveType: String!) on INTERFACE`
}

func (d *InterfaceDirective) ResolveType(t *directive.TypeValue) (directive.TypeResolveFunc, error) {
	return t.Services.TypeResolver(d.StringArg("resolveType", t.Name()))
}

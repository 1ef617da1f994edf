package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
)

// UnionDirective resolves the member type of union values with a named
// type resolver.
type UnionDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &UnionDirective{} }) }

func (*UnionDirective) Name() string { return "union" }

func (*UnionDirective) Definition() string {
	return `"""
Use a named type resolver to pick the concrete type of a union value.
"""
directive @union(resolveType: String!) on UNION`
}

func (d *UnionDirective) ResolveType(t *directive.TypeValue) (directive.TypeResolveFunc, error) {
	return t.Services.TypeResolver(d.StringArg("resolveType", t.Name()))
}

package runtime

import (
	"context"
	"fmt"
	"reflect"

	directive "github.com/hanpama/beacon/internal/directive"
	query "github.com/hanpama/beacon/internal/query"
	schema "github.com/hanpama/beacon/internal/schema"
)

func buildTypeResolver(tv *directive.TypeValue, factory *directive.Factory, s *schema.Schema) (directive.TypeResolveFunc, error) {
	resolver, err := factory.TypeResolver(tv.Definition)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", tv.Name(), err)
	}
	if resolver == nil {
		return defaultTypeResolver(s, tv.Name()), nil
	}
	fn, err := resolver.ResolveType(tv)
	if err != nil {
		return nil, fmt.Errorf("type %s: %s: %w", tv.Name(), resolver, err)
	}
	return fn, nil
}

// defaultTypeResolver names the concrete type from a __typename property,
// falling back to the Go type name of the value.
func defaultTypeResolver(s *schema.Schema, abstract string) directive.TypeResolveFunc {
	return func(_ context.Context, value any) (string, error) {
		if name, ok := query.Lookup(value, "__typename"); ok {
			if str, ok := name.(string); ok && str != "" {
				return str, nil
			}
		}
		if name := goTypeName(value); name != "" && s.IsPossibleType(abstract, name) {
			return name, nil
		}
		return "", fmt.Errorf("cannot resolve the concrete type of %s for value %T", abstract, value)
	}
}

func goTypeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

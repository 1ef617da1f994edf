package introspection

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	executor "github.com/hanpama/beacon/internal/executor"
	schema "github.com/hanpama/beacon/internal/schema"
)

// Runtime answers introspection fields from the schema it describes and
// hands every other field to the wrapped runtime.
type Runtime struct {
	executor.Runtime
	schema *schema.Schema
}

// Wrap returns a runtime for base that resolves the meta fields of s. Use it
// with the schema returned by Extend.
func Wrap(base executor.Runtime, s *schema.Schema) *Runtime {
	return &Runtime{Runtime: base, schema: s}
}

func (r *Runtime) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	if objectType == r.schema.QueryType {
		switch field {
		case "__schema":
			return r.schema, nil
		case "__type":
			name, _ := args["name"].(string)
			if t, ok := r.schema.Types[name]; ok {
				return t, nil
			}
			return nil, nil
		}
	}
	if !IsMetaType(objectType) {
		return r.Runtime.ResolveSync(ctx, objectType, field, source, args)
	}

	includeDeprecated, _ := args["includeDeprecated"].(bool)
	switch src := source.(type) {
	case *schema.Schema:
		return r.schemaField(src, field), nil
	case *schema.Type:
		return r.typeField(src, field, includeDeprecated), nil
	case *schema.TypeRef:
		return r.typeRefField(src, field, includeDeprecated), nil
	case *schema.Field:
		return fieldField(src, field, includeDeprecated), nil
	case *schema.InputValue:
		return inputValueField(src, field), nil
	case *schema.EnumValue:
		return enumValueField(src, field), nil
	case *schema.Directive:
		return directiveField(src, field, includeDeprecated), nil
	}
	return nil, fmt.Errorf("cannot resolve %s.%s from %T", objectType, field, source)
}

func (r *Runtime) schemaField(s *schema.Schema, field string) any {
	switch field {
	case "description":
		return optional(s.Description)
	case "types":
		return sortedValues(s.Types, func(t *schema.Type) string { return t.Name })
	case "queryType":
		return s.GetQueryType()
	case "mutationType":
		return typeOrNil(s.GetMutationType())
	case "subscriptionType":
		return typeOrNil(s.GetSubscriptionType())
	case "directives":
		return sortedValues(s.Directives, func(d *schema.Directive) string { return d.Name })
	}
	return nil
}

func (r *Runtime) typeField(t *schema.Type, field string, includeDeprecated bool) any {
	hasFields := t.Kind == schema.TypeKindObject || t.Kind == schema.TypeKindInterface
	switch field {
	case "kind":
		return string(t.Kind)
	case "name":
		return t.Name
	case "description":
		return optional(t.Description)
	case "specifiedByURL":
		if t.SpecifiedByURL == nil {
			return nil
		}
		return *t.SpecifiedByURL
	case "fields":
		if !hasFields {
			return nil
		}
		return visible(t.Fields, includeDeprecated, func(f *schema.Field) bool { return f.IsDeprecated })
	case "interfaces":
		if !hasFields {
			return nil
		}
		return r.named(t.Interfaces)
	case "possibleTypes":
		if t.Kind != schema.TypeKindInterface && t.Kind != schema.TypeKindUnion {
			return nil
		}
		return r.named(t.PossibleTypes)
	case "enumValues":
		if t.Kind != schema.TypeKindEnum {
			return nil
		}
		return visible(t.EnumValues, includeDeprecated, func(v *schema.EnumValue) bool { return v.IsDeprecated })
	case "inputFields":
		if t.Kind != schema.TypeKindInputObject {
			return nil
		}
		return visible(t.InputFields, includeDeprecated, func(v *schema.InputValue) bool { return v.IsDeprecated })
	case "isOneOf":
		if t.Kind != schema.TypeKindInputObject {
			return nil
		}
		return t.OneOf
	}
	// named types never wrap another type, so ofType stays null
	return nil
}

// typeRefField answers for a possibly wrapped type reference. Named
// references stand for the type they name.
func (r *Runtime) typeRefField(ref *schema.TypeRef, field string, includeDeprecated bool) any {
	if ref.Kind == schema.TypeRefKindNamed {
		t, ok := r.schema.Types[ref.Named]
		if !ok {
			return nil
		}
		return r.typeField(t, field, includeDeprecated)
	}
	switch field {
	case "kind":
		return string(ref.Kind)
	case "ofType":
		return ref.OfType
	}
	return nil
}

func (r *Runtime) named(names []string) []*schema.Type {
	out := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		if t, ok := r.schema.Types[name]; ok {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *schema.Type) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func fieldField(f *schema.Field, field string, includeDeprecated bool) any {
	switch field {
	case "name":
		return f.Name
	case "description":
		return optional(f.Description)
	case "args":
		return visible(f.Arguments, includeDeprecated, func(v *schema.InputValue) bool { return v.IsDeprecated })
	case "type":
		return f.Type
	case "isDeprecated":
		return f.IsDeprecated
	case "deprecationReason":
		return reason(f.IsDeprecated, f.DeprecationReason)
	}
	return nil
}

func inputValueField(v *schema.InputValue, field string) any {
	switch field {
	case "name":
		return v.Name
	case "description":
		return optional(v.Description)
	case "type":
		return v.Type
	case "defaultValue":
		if v.DefaultLiteral != "" {
			return v.DefaultLiteral
		}
		if v.DefaultValue != nil {
			return fmt.Sprint(v.DefaultValue)
		}
		return nil
	case "isDeprecated":
		return v.IsDeprecated
	case "deprecationReason":
		return reason(v.IsDeprecated, v.DeprecationReason)
	}
	return nil
}

func enumValueField(v *schema.EnumValue, field string) any {
	switch field {
	case "name":
		return v.Name
	case "description":
		return optional(v.Description)
	case "isDeprecated":
		return v.IsDeprecated
	case "deprecationReason":
		return reason(v.IsDeprecated, v.DeprecationReason)
	}
	return nil
}

func directiveField(d *schema.Directive, field string, includeDeprecated bool) any {
	switch field {
	case "name":
		return d.Name
	case "description":
		return optional(d.Description)
	case "isRepeatable":
		return d.IsRepeatable
	case "locations":
		return slices.Sorted(slices.Values(d.Locations))
	case "args":
		return visible(d.Arguments, includeDeprecated, func(v *schema.InputValue) bool { return v.IsDeprecated })
	}
	return nil
}

// visible keeps declaration order and drops deprecated items unless asked
// for.
func visible[T any](items []T, includeDeprecated bool, deprecated func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if includeDeprecated || !deprecated(item) {
			out = append(out, item)
		}
	}
	return out
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(key(a), key(b)) })
	return out
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func reason(deprecated bool, r string) any {
	if !deprecated {
		return nil
	}
	return r
}

func typeOrNil(t *schema.Type) any {
	if t == nil {
		return nil
	}
	return t
}

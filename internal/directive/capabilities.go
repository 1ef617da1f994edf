package directive

import (
	"context"

	language "github.com/hanpama/beacon/internal/language"
	query "github.com/hanpama/beacon/internal/query"
)

// ResolveFunc produces the value of a field.
type ResolveFunc func(ctx context.Context, source any, args map[string]any) (any, error)

// TypeResolveFunc names the concrete object type of an abstract value.
type TypeResolveFunc func(ctx context.Context, value any) (string, error)

// TypeValue is the type a resolver or middleware is built for.
type TypeValue struct {
	Document   *language.SchemaDocument
	Definition *language.Definition
	Services   *Services
}

func (t *TypeValue) Name() string { return t.Definition.Name }

// FieldValue is the field a resolver or middleware is built for.
type FieldValue struct {
	Parent     *TypeValue
	Definition *language.FieldDefinition
	Factory    *Factory
	Services   *Services
}

func (f *FieldValue) Name() string { return f.Definition.Name }

// Path is Parent.field, the key used in logs and resolver registries.
func (f *FieldValue) Path() string { return f.Parent.Name() + "." + f.Definition.Name }

// TypeManipulator rewrites a type definition during the build pass.
type TypeManipulator interface {
	Directive
	ManipulateTypeDefinition(doc *language.SchemaDocument, def *language.Definition) error
}

// TypeExtensionManipulator rewrites an `extend type` definition before it is
// merged into its base type.
type TypeExtensionManipulator interface {
	Directive
	ManipulateTypeExtension(doc *language.SchemaDocument, ext *language.Definition) error
}

type FieldManipulator interface {
	Directive
	ManipulateFieldDefinition(doc *language.SchemaDocument, field *language.FieldDefinition, parent *language.Definition) error
}

type ArgManipulator interface {
	Directive
	ManipulateArgDefinition(doc *language.SchemaDocument, arg *language.ArgumentDefinition, field *language.FieldDefinition, parent *language.Definition) error
}

// TypeResolver picks the concrete type of interface and union values.
type TypeResolver interface {
	Directive
	ResolveType(t *TypeValue) (TypeResolveFunc, error)
}

// FieldResolver supplies the resolver of a field. A field has at most one.
type FieldResolver interface {
	Directive
	ResolveField(f *FieldValue) (ResolveFunc, error)
}

// TypeMiddleware wraps the resolver of every field on a type.
type TypeMiddleware interface {
	Directive
	HandleType(t *TypeValue, f *FieldValue, next ResolveFunc) (ResolveFunc, error)
}

// FieldMiddleware wraps the resolver of a field. The first declared
// middleware runs outermost.
type FieldMiddleware interface {
	Directive
	HandleField(f *FieldValue, next ResolveFunc) (ResolveFunc, error)
}

// ArgTransformer rewrites an argument value before resolution.
type ArgTransformer interface {
	Directive
	TransformArg(ctx context.Context, value any) (any, error)
}

// ArgDirective checks an argument value before resolution.
type ArgDirective interface {
	Directive
	HandleArg(ctx context.Context, value any) error
}

// ArgDirectiveForArray checks list arguments as a whole.
type ArgDirectiveForArray interface {
	Directive
	HandleArgArray(ctx context.Context, values []any) error
}

// ArgBuilderDirective turns an argument value into query constraints.
type ArgBuilderDirective interface {
	Directive
	HandleBuilder(b *query.Builder, value any) (*query.Builder, error)
}

// Capabilities names the capability interfaces v implements, in build order.
func Capabilities(v any) []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	_, ok := v.(TypeManipulator)
	add(ok, "TypeManipulator")
	_, ok = v.(TypeExtensionManipulator)
	add(ok, "TypeExtensionManipulator")
	_, ok = v.(FieldManipulator)
	add(ok, "FieldManipulator")
	_, ok = v.(ArgManipulator)
	add(ok, "ArgManipulator")
	_, ok = v.(TypeResolver)
	add(ok, "TypeResolver")
	_, ok = v.(FieldResolver)
	add(ok, "FieldResolver")
	_, ok = v.(TypeMiddleware)
	add(ok, "TypeMiddleware")
	_, ok = v.(FieldMiddleware)
	add(ok, "FieldMiddleware")
	_, ok = v.(ArgTransformer)
	add(ok, "ArgTransformer")
	_, ok = v.(ArgDirective)
	add(ok, "ArgDirective")
	_, ok = v.(ArgDirectiveForArray)
	add(ok, "ArgDirectiveForArray")
	_, ok = v.(ArgBuilderDirective)
	add(ok, "ArgBuilderDirective")
	return out
}

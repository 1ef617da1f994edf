package directive

import (
	language "github.com/hanpama/beacon/internal/language"
)

func typeNode(def *language.Definition) language.Node { return language.TypeDefinitionNode{Definition: def} }

func extensionNode(def *language.Definition) language.Node {
	return language.TypeExtensionNode{Definition: def}
}

func fieldNode(field *language.FieldDefinition) language.Node {
	return language.FieldDefinitionNode{FieldDefinition: field}
}

func argNode(arg *language.ArgumentDefinition) language.Node {
	return language.InputValueDefinitionNode{ArgumentDefinition: arg}
}

func (f *Factory) TypeManipulators(def *language.Definition) ([]TypeManipulator, error) {
	return OfCapability[TypeManipulator](f, typeNode(def))
}

func (f *Factory) TypeExtensionManipulators(ext *language.Definition) ([]TypeExtensionManipulator, error) {
	return OfCapability[TypeExtensionManipulator](f, extensionNode(ext))
}

func (f *Factory) FieldManipulators(field *language.FieldDefinition) ([]FieldManipulator, error) {
	return OfCapability[FieldManipulator](f, fieldNode(field))
}

func (f *Factory) ArgManipulators(arg *language.ArgumentDefinition) ([]ArgManipulator, error) {
	return OfCapability[ArgManipulator](f, argNode(arg))
}

// TypeResolver returns the type resolver directive of an interface or union,
// or nil.
func (f *Factory) TypeResolver(def *language.Definition) (TypeResolver, error) {
	return SingleOfCapability[TypeResolver](f, typeNode(def))
}

func (f *Factory) HasTypeResolver(def *language.Definition) (bool, error) {
	r, err := f.TypeResolver(def)
	return r != nil, err
}

// FieldResolver returns the resolver directive of field, or nil.
func (f *Factory) FieldResolver(field *language.FieldDefinition) (FieldResolver, error) {
	return SingleOfCapability[FieldResolver](f, fieldNode(field))
}

func (f *Factory) HasFieldResolver(field *language.FieldDefinition) (bool, error) {
	r, err := f.FieldResolver(field)
	return r != nil, err
}

func (f *Factory) TypeMiddleware(def *language.Definition) ([]TypeMiddleware, error) {
	return OfCapability[TypeMiddleware](f, typeNode(def))
}

func (f *Factory) HasTypeMiddleware(def *language.Definition) (bool, error) {
	m, err := f.TypeMiddleware(def)
	return len(m) > 0, err
}

func (f *Factory) FieldMiddleware(field *language.FieldDefinition) ([]FieldMiddleware, error) {
	return OfCapability[FieldMiddleware](f, fieldNode(field))
}

func (f *Factory) HasFieldMiddleware(field *language.FieldDefinition) (bool, error) {
	m, err := f.FieldMiddleware(field)
	return len(m) > 0, err
}

func (f *Factory) ArgTransformers(arg *language.ArgumentDefinition) ([]ArgTransformer, error) {
	return OfCapability[ArgTransformer](f, argNode(arg))
}

func (f *Factory) ArgDirectives(arg *language.ArgumentDefinition) ([]ArgDirective, error) {
	return OfCapability[ArgDirective](f, argNode(arg))
}

func (f *Factory) ArgDirectivesForArray(arg *language.ArgumentDefinition) ([]ArgDirectiveForArray, error) {
	return OfCapability[ArgDirectiveForArray](f, argNode(arg))
}

func (f *Factory) ArgBuilderDirectives(arg *language.ArgumentDefinition) ([]ArgBuilderDirective, error) {
	return OfCapability[ArgBuilderDirective](f, argNode(arg))
}

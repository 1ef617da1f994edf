package directives

import (
	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
)

// GroupDirective applies middleware directives to every field of a type
// extension.
type GroupDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &GroupDirective{} }) }

func (*GroupDirective) Name() string { return "group" }

func (*GroupDirective) Definition() string {
	return `"""
Apply common settings to all fields of an extension.
"""
directive @group(
  """
  Names of argument-less middleware directives added to each field.
  """
  middleware: [String!]
) on OBJECT`
}

func (d *GroupDirective) ManipulateTypeExtension(_ *language.SchemaDocument, ext *language.Definition) error {
	names := d.StringListArg("middleware")
	for _, field := range ext.Fields {
		var prepend language.DirectiveList
		for _, name := range names {
			if field.Directives.ForName(name) == nil {
				prepend = append(prepend, &language.Directive{Name: name, Position: ext.Position})
			}
		}
		field.Directives = append(prepend, field.Directives...)
	}
	return nil
}

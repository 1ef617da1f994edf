// Package astbuild runs the manipulator directives over a schema document
// and folds type extensions into their base types.
package astbuild

import (
	"context"
	"fmt"

	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
	sdl "github.com/hanpama/beacon/internal/sdl"
)

// Build rewrites doc in place:
//  1. type manipulators on every type definition,
//  2. type extension manipulators on every extension, then the extension is
//     merged into its base type,
//  3. field manipulators on every object and interface field,
//  4. argument manipulators on every field argument.
//
// Definitions added by a manipulator are visited by the later passes.
func Build(ctx context.Context, doc *language.SchemaDocument, factory *directive.Factory) error {
	// manipulators may append definitions; iterate by index
	for i := 0; i < len(doc.Definitions); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		def := doc.Definitions[i]
		ms, err := factory.TypeManipulators(def)
		if err != nil {
			return err
		}
		for _, m := range ms {
			if err := m.ManipulateTypeDefinition(doc, def); err != nil {
				return fmt.Errorf("%s on %s: %w", directive.Describe(m), def.Name, err)
			}
		}
	}

	var violations sdl.ValidationError
	for _, ext := range doc.Extensions {
		ms, err := factory.TypeExtensionManipulators(ext)
		if err != nil {
			return err
		}
		for _, m := range ms {
			if err := m.ManipulateTypeExtension(doc, ext); err != nil {
				return fmt.Errorf("%s on extension of %s: %w", directive.Describe(m), ext.Name, err)
			}
		}
		if v := mergeExtension(doc, ext); v != nil {
			violations = append(violations, v)
		}
	}
	if len(violations) > 0 {
		return violations
	}
	doc.Extensions = nil

	for _, def := range doc.Definitions {
		if def.Kind != language.Object && def.Kind != language.Interface {
			continue
		}
		for i := 0; i < len(def.Fields); i++ {
			field := def.Fields[i]
			ms, err := factory.FieldManipulators(field)
			if err != nil {
				return err
			}
			for _, m := range ms {
				if err := m.ManipulateFieldDefinition(doc, field, def); err != nil {
					return fmt.Errorf("%s on %s.%s: %w", directive.Describe(m), def.Name, field.Name, err)
				}
			}
		}
	}

	for _, def := range doc.Definitions {
		if def.Kind != language.Object && def.Kind != language.Interface {
			continue
		}
		for _, field := range def.Fields {
			for _, arg := range field.Arguments {
				ms, err := factory.ArgManipulators(arg)
				if err != nil {
					return err
				}
				for _, m := range ms {
					if err := m.ManipulateArgDefinition(doc, arg, field, def); err != nil {
						return fmt.Errorf("%s on %s.%s(%s): %w", directive.Describe(m), def.Name, field.Name, arg.Name, err)
					}
				}
			}
		}
	}
	return nil
}

func mergeExtension(doc *language.SchemaDocument, ext *language.Definition) *sdl.Violation {
	base := doc.Definitions.ForName(ext.Name)
	if base == nil {
		return sdl.NewViolation(fmt.Sprintf("Cannot extend type %q because it is not defined", ext.Name), ext.Position)
	}
	if base.Kind != ext.Kind {
		return sdl.NewViolation(fmt.Sprintf("Cannot extend %s %q with a %s extension", base.Kind, ext.Name, ext.Kind), ext.Position)
	}
	for _, f := range ext.Fields {
		if base.Fields.ForName(f.Name) != nil {
			return sdl.NewViolation(fmt.Sprintf("Duplicate field %q found in extension of %q", f.Name, ext.Name), f.Position)
		}
		base.Fields = append(base.Fields, f)
	}
	for _, iface := range ext.Interfaces {
		if !contains(base.Interfaces, iface) {
			base.Interfaces = append(base.Interfaces, iface)
		}
	}
	for _, t := range ext.Types {
		if !contains(base.Types, t) {
			base.Types = append(base.Types, t)
		}
	}
	for _, v := range ext.EnumValues {
		if base.EnumValues.ForName(v.Name) != nil {
			return sdl.NewViolation(fmt.Sprintf("Duplicate enum value %q found in extension of %q", v.Name, ext.Name), v.Position)
		}
		base.EnumValues = append(base.EnumValues, v)
	}
	base.Directives = append(base.Directives, ext.Directives...)
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

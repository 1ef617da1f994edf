package astbuild

import (
	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
)

// AddDirectiveDefinitions declares every directive used in doc that ships an
// SDL definition and is not declared yet. It returns the names it added, in
// order of first use.
func AddDirectiveDefinitions(doc *language.SchemaDocument, factory *directive.Factory) ([]string, error) {
	var added []string
	add := func(list language.DirectiveList) error {
		for _, d := range list {
			if doc.Directives.ForName(d.Name) != nil {
				continue
			}
			def, err := factory.Definition(d.Name)
			if err != nil {
				return err
			}
			if def == nil {
				continue
			}
			doc.Directives = append(doc.Directives, def)
			added = append(added, d.Name)
		}
		return nil
	}
	for _, def := range doc.Definitions {
		if err := add(def.Directives); err != nil {
			return nil, err
		}
		for _, field := range def.Fields {
			if err := add(field.Directives); err != nil {
				return nil, err
			}
			for _, arg := range field.Arguments {
				if err := add(arg.Directives); err != nil {
					return nil, err
				}
			}
		}
		for _, v := range def.EnumValues {
			if err := add(v.Directives); err != nil {
				return nil, err
			}
		}
	}
	return added, nil
}

package directives

import (
	"context"
	"fmt"

	directive "github.com/hanpama/beacon/internal/directive"
	query "github.com/hanpama/beacon/internal/query"
)

// RenameDirective reads the field value from a differently named attribute
// of the parent.
type RenameDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &RenameDirective{} }) }

func (*RenameDirective) Name() string { return "rename" }

func (*RenameDirective) Definition() string {
	return `"""
Change the internal name of a field.
"""
directive @rename(attribute: String!) on FIELD_DEFINITION | INPUT_FIELD_DEFINITION`
}

func (d *RenameDirective) ResolveField(f *directive.FieldValue) (directive.ResolveFunc, error) {
	attribute := d.StringArg("attribute", "")
	if attribute == "" {
		return nil, fmt.Errorf("@rename on %s requires the attribute argument", f.Path())
	}
	return func(_ context.Context, source any, _ map[string]any) (any, error) {
		v, _ := query.Lookup(source, attribute)
		return v, nil
	}, nil
}

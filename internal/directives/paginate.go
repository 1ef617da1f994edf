package directives

import (
	"context"
	"fmt"

	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
)

// PaginateDirective adds first/offset arguments to a list field and pages the
// resolved list with them.
type PaginateDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &PaginateDirective{} }) }

func (*PaginateDirective) Name() string { return "paginate" }

func (*PaginateDirective) Definition() string {
	return `"""
Page a list field with first and offset arguments.
"""
directive @paginate(
  """
  Page size used when the client omits first.
  """
  defaultCount: Int = 10
  """
  Largest page size a client may request.
  """
  maxCount: Int
) on FIELD_DEFINITION`
}

func (d *PaginateDirective) ManipulateFieldDefinition(_ *language.SchemaDocument, field *language.FieldDefinition, _ *language.Definition) error {
	if field.Type == nil || field.Type.Elem == nil {
		return fmt.Errorf("field requires a list type, got %s", field.Type)
	}
	if field.Arguments.ForName("first") == nil {
		field.Arguments = append(field.Arguments, &language.ArgumentDefinition{
			Name:         "first",
			Description:  "Limits number of fetched items.",
			Type:         language.NamedType("Int"),
			DefaultValue: &language.Value{Kind: language.IntValue, Raw: fmt.Sprint(d.IntArg("defaultCount", 10))},
		})
	}
	if field.Arguments.ForName("offset") == nil {
		field.Arguments = append(field.Arguments, &language.ArgumentDefinition{
			Name:         "offset",
			Description:  "Number of items to skip.",
			Type:         language.NamedType("Int"),
			DefaultValue: &language.Value{Kind: language.IntValue, Raw: "0"},
		})
	}
	return nil
}

func (d *PaginateDirective) HandleField(f *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	defaultCount := d.IntArg("defaultCount", 10)
	maxCount := d.IntArg("maxCount", 0)
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		first := intArg(args["first"], defaultCount)
		offset := intArg(args["offset"], 0)
		if first < 0 || offset < 0 {
			return nil, fmt.Errorf("first and offset must not be negative")
		}
		if maxCount > 0 && first > maxCount {
			return nil, fmt.Errorf("Maximum number of %d requested items exceeded, got %d. Fetch smaller chunks.", maxCount, first)
		}
		v, err := next(ctx, source, args)
		if err != nil || v == nil {
			return v, err
		}
		items, ok := toList(v)
		if !ok {
			return nil, fmt.Errorf("%s: @paginate expects a list, got %T", f.Path(), v)
		}
		if offset >= len(items) {
			return []any{}, nil
		}
		items = items[offset:]
		if first < len(items) {
			items = items[:first]
		}
		return items, nil
	}, nil
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

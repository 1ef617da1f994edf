package directives

import (
	"fmt"
	"slices"
	"strings"

	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
	query "github.com/hanpama/beacon/internal/query"
)

const (
	orderByClauseType = "OrderByClause"
	sortOrderType     = "SortOrder"
)

// OrderByDirective turns an argument into a list of sort clauses and sorts
// query results by them.
type OrderByDirective struct{ directive.Base }

func init() { directive.Register(func() any { return &OrderByDirective{} }) }

func (*OrderByDirective) Name() string { return "orderBy" }

func (*OrderByDirective) Definition() string {
	return `"""
Sort the result by the given clauses. The argument type is replaced with [OrderByClause!].
"""
directive @orderBy(
  """
  Restrict the columns clients may sort by.
  """
  columns: [String!]
) on ARGUMENT_DEFINITION`
}

func (d *OrderByDirective) ManipulateArgDefinition(doc *language.SchemaDocument, arg *language.ArgumentDefinition, _ *language.FieldDefinition, _ *language.Definition) error {
	if doc.Definitions.ForName(sortOrderType) == nil {
		doc.Definitions = append(doc.Definitions, &language.Definition{
			Kind:        language.Enum,
			Name:        sortOrderType,
			Description: "Directions for ordering a list of records.",
			EnumValues: language.EnumValueList{
				{Name: "ASC", Description: "Sort records in ascending order."},
				{Name: "DESC", Description: "Sort records in descending order."},
			},
		})
	}
	if doc.Definitions.ForName(orderByClauseType) == nil {
		doc.Definitions = append(doc.Definitions, &language.Definition{
			Kind:        language.InputObject,
			Name:        orderByClauseType,
			Description: "Allows ordering a list of records.",
			Fields: language.FieldList{
				{Name: "column", Description: "The column that is used for ordering.", Type: language.NonNullNamedType("String")},
				{Name: "order", Description: "The direction that is used for ordering.", Type: language.NonNullNamedType(sortOrderType)},
			},
		})
	}
	arg.Type = language.ListType(language.NonNullNamedType(orderByClauseType))
	return nil
}

func (d *OrderByDirective) HandleBuilder(b *query.Builder, value any) (*query.Builder, error) {
	clauses, ok := toList(value)
	if !ok {
		clauses = []any{value}
	}
	allowed := d.StringListArg("columns")
	for _, c := range clauses {
		clause, ok := c.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid order clause %v", c)
		}
		column, _ := clause["column"].(string)
		if len(allowed) > 0 && !slices.Contains(allowed, column) {
			return nil, fmt.Errorf("ordering by %q is not allowed", column)
		}
		order, _ := clause["order"].(string)
		b = b.OrderBy(column, strings.EqualFold(order, "DESC"))
	}
	return b, nil
}

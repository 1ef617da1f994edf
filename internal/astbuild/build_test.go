package astbuild_test

import (
	"context"
	"errors"
	"testing"

	astbuild "github.com/hanpama/beacon/internal/astbuild"
	directive "github.com/hanpama/beacon/internal/directive"
	_ "github.com/hanpama/beacon/internal/directives"
	language "github.com/hanpama/beacon/internal/language"
	sdl "github.com/hanpama/beacon/internal/sdl"
	"github.com/stretchr/testify/require"
)

const schemaSDL = `
type Query {
  users(sort: String @orderBy(columns: ["name"])): [User!]! @all(source: "users") @paginate(defaultCount: 5)
}

type User @node {
  name: String
}

extend type Query @group(middleware: ["guard"]) {
  me: User
  admins: [User!] @guard
}
`

func mustParse(t *testing.T, src string) *language.SchemaDocument {
	t.Helper()
	doc, err := language.ParseSchema("schema.graphql", src)
	require.NoError(t, err)
	return doc
}

func directiveNames(list language.DirectiveList) []string {
	var out []string
	for _, d := range list {
		out = append(out, d.Name)
	}
	return out
}

func TestBuildRunsManipulators(t *testing.T) {
	doc := mustParse(t, schemaSDL)
	require.NoError(t, astbuild.Build(context.Background(), doc, directive.NewFactory()))

	require.Empty(t, doc.Extensions)

	query := doc.Definitions.ForName("Query")
	require.NotNil(t, query)
	require.NotNil(t, query.Fields.ForName("me"))
	require.Equal(t, []string{"guard"}, directiveNames(query.Fields.ForName("me").Directives))
	require.Equal(t, []string{"guard"}, directiveNames(query.Fields.ForName("admins").Directives))
	require.Equal(t, []string{"group"}, directiveNames(query.Directives))

	users := query.Fields.ForName("users")
	require.NotNil(t, users.Arguments.ForName("first"))
	require.Equal(t, "5", users.Arguments.ForName("first").DefaultValue.Raw)
	require.NotNil(t, users.Arguments.ForName("offset"))
	require.Equal(t, "[OrderByClause!]", users.Arguments.ForName("sort").Type.String())

	user := doc.Definitions.ForName("User")
	require.Equal(t, []string{"Node"}, user.Interfaces)
	require.Equal(t, "id", user.Fields[0].Name)
	require.Equal(t, "ID!", user.Fields[0].Type.String())

	node := doc.Definitions.ForName("Node")
	require.NotNil(t, node)
	require.Equal(t, language.Interface, node.Kind)
	require.NotNil(t, doc.Definitions.ForName("OrderByClause"))
	require.NotNil(t, doc.Definitions.ForName("SortOrder"))
}

func TestBuildRejectsOrphanExtension(t *testing.T) {
	doc := mustParse(t, `type Query { a: String }
extend type Missing { b: String }`)
	err := astbuild.Build(context.Background(), doc, directive.NewFactory())

	var verr sdl.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr, 1)
	require.Equal(t, `Cannot extend type "Missing" because it is not defined`, verr[0].Message)
	require.Equal(t, 2, verr[0].Line)
}

func TestBuildRejectsDuplicateExtensionField(t *testing.T) {
	doc := mustParse(t, `type Query { a: String }
extend type Query { a: Int }`)
	err := astbuild.Build(context.Background(), doc, directive.NewFactory())
	require.ErrorContains(t, err, `Duplicate field "a" found in extension of "Query"`)
}

func TestBuildWrapsManipulatorErrors(t *testing.T) {
	doc := mustParse(t, `type Query { one: String @paginate }`)
	err := astbuild.Build(context.Background(), doc, directive.NewFactory())
	require.ErrorContains(t, err, "@paginate on Query.one")
	require.ErrorContains(t, err, "requires a list type")
}

func TestBuildUnknownDirective(t *testing.T) {
	doc := mustParse(t, `type Query @bogus { one: String }`)
	err := astbuild.Build(context.Background(), doc, directive.NewFactory())
	require.ErrorContains(t, err, "No directive found for `bogus`")
}

func TestAddDirectiveDefinitions(t *testing.T) {
	doc := mustParse(t, `
directive @all(source: String!) on FIELD_DEFINITION

type Query {
  users(name: String @eq @trim): [String] @all(source: "users") @deprecated(reason: "gone")
}
`)
	added, err := astbuild.AddDirectiveDefinitions(doc, directive.NewFactory())
	require.NoError(t, err)
	require.Equal(t, []string{"deprecated", "eq", "trim"}, added)
	require.Len(t, doc.Directives, 4)
	require.Equal(t, []language.DirectiveLocation{"ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION"}, doc.Directives.ForName("eq").Locations)
}

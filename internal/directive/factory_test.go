package directive_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	directive "github.com/hanpama/beacon/internal/directive"
	language "github.com/hanpama/beacon/internal/language"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type appEq struct{ directive.Base }

func (*appEq) Name() string { return "eq" }

type libEq struct{ directive.Base }

func (*libEq) Name() string { return "eq" }

type pluginEq struct{ directive.Base }

func (*pluginEq) Name() string { return "eq" }

type alpha struct{ directive.Base }

func (*alpha) Name() string { return "alpha" }

func (d *alpha) ResolveField(*directive.FieldValue) (directive.ResolveFunc, error) {
	value := d.StringArg("value", "")
	return func(context.Context, any, map[string]any) (any, error) { return value, nil }, nil
}

type beta struct{ directive.Base }

func (*beta) Name() string { return "beta" }

func (*beta) ResolveField(*directive.FieldValue) (directive.ResolveFunc, error) { return nil, nil }

type logged struct{ directive.Base }

func (*logged) Name() string { return "logged" }

func (*logged) HandleField(_ *directive.FieldValue, next directive.ResolveFunc) (directive.ResolveFunc, error) {
	return next, nil
}

type broken struct{}

const testSDL = `
type Query {
  plain: String
  both: String @alpha @beta
  first: String @alpha(value: "x") @logged
  second: String @logged @alpha(value: "y")
  repeated: String @logged(tag: "read") @logged(tag: "admin")
}
`

func newTestRegistry(t *testing.T) *directive.Registry {
	t.Helper()
	reg := directive.NewRegistry()
	require.NoError(t, reg.RegisterClass("app.EqDirective", func() any { return &appEq{} }))
	require.NoError(t, reg.RegisterClass("lib.EqDirective", func() any { return &libEq{} }))
	require.NoError(t, reg.RegisterClass("lib.AlphaDirective", func() any { return &alpha{} }))
	require.NoError(t, reg.RegisterClass("lib.BetaDirective", func() any { return &beta{} }))
	require.NoError(t, reg.RegisterClass("lib.LoggedDirective", func() any { return &logged{} }))
	require.NoError(t, reg.RegisterClass("lib.BrokenDirective", func() any { return &broken{} }))
	return reg
}

func newTestFactory(t *testing.T) *directive.Factory {
	t.Helper()
	cfg := viper.New()
	cfg.Set(directive.ConfigKey, []any{"app"})
	return directive.NewFactory(
		directive.WithRegistry(newTestRegistry(t)),
		directive.WithConfig(cfg),
		directive.WithBuiltinNamespace("lib"),
	)
}

func mustField(t *testing.T, typeName, fieldName string) *language.FieldDefinition {
	t.Helper()
	doc, err := language.ParseSchema("test.graphql", testSDL)
	require.NoError(t, err)
	def := doc.Definitions.ForName(typeName)
	require.NotNil(t, def)
	field := def.Fields.ForName(fieldName)
	require.NotNil(t, field)
	return field
}

type mapConfig map[string]any

func (m mapConfig) Get(key string) any { return m[key] }

func TestNamespaces(t *testing.T) {
	cfg := mapConfig{directive.ConfigKey: []any{"app", []any{"nested", ""}, "app"}}
	got := directive.Namespaces(cfg, []directive.NamespaceProvider{
		func() []string { return []string{"plugin", ""} },
		func() []string { return nil },
	}, "lib")
	want := []string{"app", "nested", "app", "plugin", "lib"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("namespaces mismatch (-want +got):\n%s", diff)
	}

	got = directive.Namespaces(mapConfig{directive.ConfigKey: "single"}, nil, "")
	require.Equal(t, []string{"single"}, got)
}

func TestFactoryNamespacesFromOptions(t *testing.T) {
	f := directive.NewFactory(
		directive.WithRegistry(directive.NewRegistry()),
		directive.WithConfig(mapConfig{directive.ConfigKey: "app"}),
		directive.WithNamespaceProviders(func() []string { return []string{"plugin"} }),
	)
	require.Equal(t, []string{"app", "plugin", directive.BuiltinNamespace}, f.Namespaces())
}

func TestRegisteredProvidersShadowBuiltin(t *testing.T) {
	t.Cleanup(directive.RegisterNamespaces(func() []string { return []string{"plugin"} }))
	t.Cleanup(directive.RegisterNamespaces(func() []string { return []string{"plugin2"} }))

	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterClass("plugin.EqDirective", func() any { return &pluginEq{} }))

	f := directive.NewFactory(
		directive.WithRegistry(reg),
		directive.WithNamespaceProviders(func() []string { return []string{"option"} }),
		directive.WithBuiltinNamespace("lib"),
	)
	require.Equal(t, []string{"plugin", "plugin2", "option", "lib"}, f.Namespaces())
	d, err := f.Create("eq", nil)
	require.NoError(t, err)
	require.IsType(t, &pluginEq{}, d)
	require.Equal(t, map[string]string{"eq": "plugin.EqDirective"}, f.Resolved())

	f = directive.NewFactory(
		directive.WithRegistry(reg),
		directive.WithConfig(mapConfig{directive.ConfigKey: "app"}),
		directive.WithBuiltinNamespace("lib"),
	)
	require.Equal(t, []string{"app", "plugin", "plugin2", "lib"}, f.Namespaces())
	d, err = f.Create("eq", nil)
	require.NoError(t, err)
	require.IsType(t, &appEq{}, d)
}

func TestUnregisterNamespaces(t *testing.T) {
	unregister := directive.RegisterNamespaces(func() []string { return []string{"gone"} })
	unregister()
	f := directive.NewFactory(directive.WithRegistry(directive.NewRegistry()), directive.WithBuiltinNamespace("lib"))
	require.Equal(t, []string{"lib"}, f.Namespaces())
}

func TestCreatePrefersHigherPriorityNamespace(t *testing.T) {
	f := newTestFactory(t)

	d, err := f.Create("eq", nil)
	require.NoError(t, err)
	require.IsType(t, &appEq{}, d)
	require.Equal(t, map[string]string{"eq": "app.EqDirective"}, f.Resolved())
}

func TestCreateNotFound(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Create("bogus", nil)
	require.ErrorContains(t, err, "bogus")
	require.True(t, directive.IsNotFound(err))
	require.Empty(t, f.Resolved())
}

func TestCreateNotADirective(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Create("broken", nil)
	require.ErrorContains(t, err, "lib.BrokenDirective")
	require.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestResolvedCache(t *testing.T) {
	f := newTestFactory(t)

	f.AddResolved("eq", "lib.EqDirective")
	f.AddResolved("eq", "app.EqDirective")
	require.Equal(t, "lib.EqDirective", f.Resolved()["eq"])

	d, err := f.Create("eq", nil)
	require.NoError(t, err)
	require.IsType(t, &libEq{}, d)

	f.SetResolved("eq", "app.EqDirective")
	d, err = f.Create("eq", nil)
	require.NoError(t, err)
	require.IsType(t, &appEq{}, d)

	f.SetResolved("eq", "lib.EqDirective")
	f.ClearResolved()
	require.Empty(t, f.Resolved())

	d, err = f.Create("eq", nil)
	require.NoError(t, err)
	require.IsType(t, &appEq{}, d)
	require.Equal(t, "app.EqDirective", f.Resolved()["eq"])
}

func TestSetResolvedUnknownClass(t *testing.T) {
	f := newTestFactory(t)
	f.SetResolved("eq", "gone.EqDirective")

	_, err := f.Create("eq", nil)
	require.ErrorContains(t, err, "gone.EqDirective")
	require.True(t, directive.IsNotFound(err))
}

func TestHydrationBindsEachNode(t *testing.T) {
	f := newTestFactory(t)
	first := mustField(t, "Query", "first")
	second := mustField(t, "Query", "second")

	a, err := f.FieldResolver(first)
	require.NoError(t, err)
	b, err := f.FieldResolver(second)
	require.NoError(t, err)

	require.NotSame(t, a, b)
	require.Equal(t, "x", a.(*alpha).StringArg("value", ""))
	require.Equal(t, "y", b.(*alpha).StringArg("value", ""))
	require.Equal(t, "first", a.(*alpha).NodeName())
	require.Equal(t, "second", b.(*alpha).NodeName())

	resolve, err := a.ResolveField(nil)
	require.NoError(t, err)
	v, err := resolve(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, "x", v)
}

func TestAccessorsOnBareNode(t *testing.T) {
	f := newTestFactory(t)
	field := mustField(t, "Query", "plain")

	has, err := f.HasFieldResolver(field)
	require.NoError(t, err)
	require.False(t, has)

	r, err := f.FieldResolver(field)
	require.NoError(t, err)
	require.Nil(t, r)

	mws, err := f.FieldMiddleware(field)
	require.NoError(t, err)
	require.Empty(t, mws)

	manipulators, err := f.FieldManipulators(field)
	require.NoError(t, err)
	require.Empty(t, manipulators)

	doc, err := language.ParseSchema("bare.graphql", `type Bare { id: ID }`)
	require.NoError(t, err)
	def := doc.Definitions.ForName("Bare")

	hasType, err := f.HasTypeResolver(def)
	require.NoError(t, err)
	require.False(t, hasType)

	hasTypeMW, err := f.HasTypeMiddleware(def)
	require.NoError(t, err)
	require.False(t, hasTypeMW)

	typeManipulators, err := f.TypeManipulators(def)
	require.NoError(t, err)
	require.Empty(t, typeManipulators)
}

func TestFieldResolverConflict(t *testing.T) {
	f := newTestFactory(t)
	field := mustField(t, "Query", "both")

	_, err := f.FieldResolver(field)
	require.Error(t, err)
	require.True(t, directive.IsConflict(err))
	require.ErrorContains(t, err, "Node [both] can only have one directive of type [FieldResolver] but found [@alpha, @beta]")

	_, err = f.HasFieldResolver(field)
	require.Error(t, err)

	all, err := directive.OfCapability[directive.FieldResolver](f, language.FieldDefinitionNode{FieldDefinition: field})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.IsType(t, &alpha{}, all[0])
	require.IsType(t, &beta{}, all[1])
}

func TestFieldMiddlewareKeepsDeclarationOrder(t *testing.T) {
	f := newTestFactory(t)
	field := mustField(t, "Query", "second")

	has, err := f.HasFieldMiddleware(field)
	require.NoError(t, err)
	require.True(t, has)

	mws, err := f.FieldMiddleware(field)
	require.NoError(t, err)
	require.Len(t, mws, 1)
	require.Equal(t, "@logged", mws[0].(*logged).String())
}

func TestRepeatedDirectivesBindTheirOwnArguments(t *testing.T) {
	f := newTestFactory(t)
	field := mustField(t, "Query", "repeated")

	mws, err := f.FieldMiddleware(field)
	require.NoError(t, err)
	require.Len(t, mws, 2)

	var tags []string
	for _, mw := range mws {
		l := mw.(*logged)
		tags = append(tags, l.StringArg("tag", ""))
		require.Equal(t, "@logged", l.String())
		require.Equal(t, "repeated", l.NodeName())
	}
	if diff := cmp.Diff([]string{"read", "admin"}, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	require.NotSame(t, mws[0].(*logged).DirectiveNode(), mws[1].(*logged).DirectiveNode())

	// Create binds the first annotation of a name.
	d, err := f.Create("logged", language.FieldDefinitionNode{FieldDefinition: field})
	require.NoError(t, err)
	require.Equal(t, "read", d.(*logged).StringArg("tag", ""))
}

func TestCreateOnNodeWithoutAnnotation(t *testing.T) {
	f := newTestFactory(t)
	field := mustField(t, "Query", "plain")

	d, err := f.Create("alpha", language.FieldDefinitionNode{FieldDefinition: field})
	require.NoError(t, err)
	a := d.(*alpha)
	require.Equal(t, "@alpha", a.String())
	require.Equal(t, "plain", a.NodeName())
	require.Equal(t, "fallback", a.StringArg("value", "fallback"))
}

func TestUnknownDirectiveOnNodeFailsClassification(t *testing.T) {
	f := newTestFactory(t)
	doc, err := language.ParseSchema("bad.graphql", `type Query { x: String @nope }`)
	require.NoError(t, err)
	field := doc.Definitions.ForName("Query").Fields.ForName("x")

	_, err = f.FieldMiddleware(field)
	require.ErrorContains(t, err, "No directive found for `nope`")
}

func TestRegistryRegister(t *testing.T) {
	reg := directive.NewRegistry()

	id, err := reg.Register(func() any { return &appEq{} })
	require.NoError(t, err)
	require.Equal(t, reflect.TypeOf(appEq{}).PkgPath()+".appEq", id)

	_, err = reg.Register(func() any { return &appEq{} })
	require.ErrorContains(t, err, "already registered")
	require.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))

	id, err = reg.RegisterIn("custom", func() any { return &libEq{} })
	require.NoError(t, err)
	require.Equal(t, "custom.libEq", id)

	_, err = reg.RegisterIn("", func() any { return &libEq{} })
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = reg.Register(func() any { return func() {} })
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	require.Equal(t, []string{"custom.libEq", reflect.TypeOf(appEq{}).PkgPath() + ".appEq"}, reg.Classes())
}

func TestStudly(t *testing.T) {
	for in, want := range map[string]string{
		"eq":              "Eq",
		"rulesForArray":   "RulesForArray",
		"rules_for_array": "RulesForArray",
		"order-by":        "OrderBy",
		"":                "",
	} {
		require.Equal(t, want, directive.Studly(in), in)
	}
	require.Equal(t, "app.OrderByDirective", directive.ClassID("app", "orderBy"))
}

package executor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	executor "github.com/hanpama/beacon/internal/executor"
	language "github.com/hanpama/beacon/internal/language"
	schema "github.com/hanpama/beacon/internal/schema"
	"github.com/stretchr/testify/require"
)

var ignoreLocations = cmpopts.IgnoreFields(executor.GraphQLError{}, "Locations")

func mustSchema(t *testing.T, sdl string, async ...string) *schema.Schema {
	t.Helper()
	s, err := schema.FromSDL(sdl)
	require.NoError(t, err)
	for _, coord := range async {
		typeName, fieldName, _ := strings.Cut(coord, ".")
		f := s.Types[typeName].FieldByName(fieldName)
		require.NotNil(t, f, coord)
		f.SetAsync(true)
	}
	return s
}

func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	require.NoError(t, err)
	return d
}

func prop(key string) resolverFunc {
	return func(_ context.Context, source any, _ map[string]any) (any, error) {
		return source.(map[string]any)[key], nil
	}
}

func run(t *testing.T, rt executor.Runtime, s *schema.Schema, query string, vars map[string]any) *executor.ExecutionResult {
	t.Helper()
	return executor.NewExecutor(rt, s).ExecuteRequest(context.Background(), mustParseQuery(t, query), "", vars, nil)
}

func TestSyncAndAsyncRouting(t *testing.T) {
	s := mustSchema(t, `
type Query { a: String b: String objs: [Obj!]! }
type Obj { id: ID! slow: String }
`, "Query.b", "Obj.slow")

	rt := newRecorder(map[string]resolverFunc{
		"Query.a": value("A"),
		"Query.b": value("B"),
		"Query.objs": value([]any{
			map[string]any{"id": "1"},
			map[string]any{"id": "2"},
		}),
		"Obj.id": prop("id"),
		"Obj.slow": func(_ context.Context, source any, _ map[string]any) (any, error) {
			return "s" + source.(map[string]any)["id"].(string), nil
		},
	})

	got := run(t, rt, s, "{ a b objs { id slow } }", nil)

	want := &executor.ExecutionResult{Data: map[string]any{
		"a": "A",
		"b": "B",
		"objs": []any{
			map[string]any{"id": "1", "slow": "s1"},
			map[string]any{"id": "2", "slow": "s2"},
		},
	}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	obj1 := map[string]any{"id": "1"}
	obj2 := map[string]any{"id": "2"}
	wantCalls := []call{
		{ObjectType: "Query", Field: "a"},
		{ObjectType: "Query", Field: "objs"},
		{ObjectType: "Obj", Field: "id", Source: obj1},
		{ObjectType: "Obj", Field: "id", Source: obj2},
		{Async: true, ObjectType: "Query", Field: "b", Batch: 1, Path: executor.Path{"b"}},
		{Async: true, ObjectType: "Obj", Field: "slow", Source: obj1, Batch: 1, Path: executor.Path{"objs", 0, "slow"}},
		{Async: true, ObjectType: "Obj", Field: "slow", Source: obj2, Batch: 1, Path: executor.Path{"objs", 1, "slow"}},
	}
	if diff := cmp.Diff(wantCalls, rt.Calls(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestAsyncDepthsAreBatchedSeparately(t *testing.T) {
	s := mustSchema(t, `
type Query { obj: Obj }
type Obj { child: Obj name: String }
`, "Query.obj", "Obj.child")

	rt := newRecorder(map[string]resolverFunc{
		"Query.obj": value(map[string]any{"name": "root"}),
		"Obj.child": value(map[string]any{"name": "leaf"}),
		"Obj.name":  prop("name"),
	})

	got := run(t, rt, s, "{ obj { name child { name } } }", nil)
	want := map[string]any{"obj": map[string]any{"name": "root", "child": map[string]any{"name": "leaf"}}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}

	var batches []int
	for _, c := range rt.Calls() {
		if c.Async {
			batches = append(batches, c.Batch)
		}
	}
	require.Equal(t, []int{1, 2}, batches)
}

func TestNonNullPropagation(t *testing.T) {
	t.Run("sync child nulls its parent", func(t *testing.T) {
		s := mustSchema(t, `
type Query { obj: Obj }
type Obj { a: String! b: String }
`)
		rt := newRecorder(map[string]resolverFunc{
			"Query.obj": value(map[string]any{}),
			"Obj.a":     fail(errors.New("boom")),
		})

		got := run(t, rt, s, "{ obj { a b } }", nil)
		want := &executor.ExecutionResult{
			Data: map[string]any{"obj": nil},
			Errors: []executor.GraphQLError{{
				Message:   "boom",
				Path:      executor.Path{"obj", "a"},
				Locations: []executor.Location{{Line: 1, Column: 9}},
			}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("async child nulls the top level field", func(t *testing.T) {
		s := mustSchema(t, `
type Query { obj: Obj other: String }
type Obj { slow: String! }
`, "Obj.slow")
		rt := newRecorder(map[string]resolverFunc{
			"Query.obj":   value(map[string]any{}),
			"Query.other": value("kept"),
			"Obj.slow":    fail(errors.New("down")),
		})

		got := run(t, rt, s, "{ obj { slow } other }", nil)
		want := &executor.ExecutionResult{
			Data:   map[string]any{"obj": nil, "other": "kept"},
			Errors: []executor.GraphQLError{{Message: "down", Path: executor.Path{"obj", "slow"}}},
		}
		if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("null item in non-null list", func(t *testing.T) {
		s := mustSchema(t, `type Query { list: [String!] }`)
		rt := newRecorder(map[string]resolverFunc{
			"Query.list": value([]any{"a", nil}),
		})

		got := run(t, rt, s, "{ list }", nil)
		want := &executor.ExecutionResult{
			Data:   map[string]any{"list": nil},
			Errors: []executor.GraphQLError{{Message: "Cannot return null for non-nullable field list.[1]", Path: executor.Path{"list", 1}}},
		}
		if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

const petsSDL = `
interface Named { name: String }
type Cat implements Named { name: String lives: Int }
type Dog implements Named { name: String barks: Boolean }
union Pet = Cat | Dog
type Query { pets: [Pet] named: Named }
`

func petsRuntime(named any) *recorder {
	return newRecorder(map[string]resolverFunc{
		"Query.pets": value([]any{
			map[string]any{"__typename": "Cat", "name": "Tom", "lives": 9},
			map[string]any{"__typename": "Dog", "name": "Rex", "barks": true},
		}),
		"Query.named": value(named),
		"Cat.name":    prop("name"),
		"Cat.lives":   prop("lives"),
		"Dog.name":    prop("name"),
		"Dog.barks":   prop("barks"),
	})
}

func TestAbstractTypeFragments(t *testing.T) {
	s := mustSchema(t, petsSDL)

	got := run(t, petsRuntime(nil), s, `
{
  pets {
    __typename
    ... on Named { name }
    ... on Cat { lives }
    ...DogBits
  }
}
fragment DogBits on Dog { barks }
`, nil)

	want := &executor.ExecutionResult{Data: map[string]any{
		"pets": []any{
			map[string]any{"__typename": "Cat", "name": "Tom", "lives": 9},
			map[string]any{"__typename": "Dog", "name": "Rex", "barks": true},
		},
	}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestAbstractTypeMustBePossible(t *testing.T) {
	s := mustSchema(t, petsSDL)

	got := run(t, petsRuntime(map[string]any{"__typename": "Query"}), s, "{ named { name } }", nil)
	want := &executor.ExecutionResult{
		Data:   map[string]any{"named": nil},
		Errors: []executor.GraphQLError{{Message: "Runtime Object type Query is not a possible type for Named", Path: executor.Path{"named"}}},
	}
	if diff := cmp.Diff(want, got, ignoreLocations); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestArgumentCoercion(t *testing.T) {
	s := mustSchema(t, `
enum Role { ADMIN USER }
input Filter { role: Role = USER limit: Int = 10 }
type Query { users(filter: Filter, first: Int = 5, role: Role): [String] }
`)

	for _, tc := range []struct {
		name     string
		query    string
		vars     map[string]any
		wantArgs map[string]any
		wantErr  string
	}{
		{name: "defaults", query: "{ users }", wantArgs: map[string]any{"first": 5}},
		{
			name:     "input object defaults",
			query:    "{ users(filter: {}) }",
			wantArgs: map[string]any{"first": 5, "filter": map[string]any{"role": "USER", "limit": 10}},
		},
		{name: "enum literal", query: "{ users(role: ADMIN, first: 2) }", wantArgs: map[string]any{"first": 2, "role": "ADMIN"}},
		{name: "enum variable", query: "query($r: Role) { users(role: $r) }", vars: map[string]any{"r": "ADMIN"}, wantArgs: map[string]any{"first": 5, "role": "ADMIN"}},
		{name: "omitted variable", query: "query($r: Role) { users(role: $r) }", wantArgs: map[string]any{"first": 5}},
		{name: "json number variable", query: "query($n: Int) { users(first: $n) }", vars: map[string]any{"n": float64(3)}, wantArgs: map[string]any{"first": 3}},
		{name: "bad enum", query: "{ users(role: GUEST) }", wantErr: "argument 'role' cannot be coerced: value GUEST is not a member of enum Role"},
		{name: "unknown argument", query: "{ users(bogus: 1) }", wantErr: "Unknown argument 'bogus' on field 'users'"},
		{name: "unknown input field", query: "{ users(filter: {size: 1}) }", wantErr: `argument 'filter' cannot be coerced: field "size" is not defined by Filter`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var gotArgs map[string]any
			called := false
			rt := newRecorder(map[string]resolverFunc{
				"Query.users": func(_ context.Context, _ any, args map[string]any) (any, error) {
					called = true
					gotArgs = args
					return nil, nil
				},
			})

			res := run(t, rt, s, tc.query, tc.vars)
			if tc.wantErr != "" {
				require.False(t, called)
				require.Len(t, res.Errors, 1)
				require.Equal(t, tc.wantErr, res.Errors[0].Message)
				require.Equal(t, map[string]any{"users": nil}, res.Data)
				return
			}
			require.Empty(t, res.Errors)
			if diff := cmp.Diff(tc.wantArgs, gotArgs); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariableErrors(t *testing.T) {
	s := mustSchema(t, `type Query { echo(v: Int): Int }`)
	rt := newRecorder(nil)

	got := run(t, rt, s, "query($v: Int!) { echo(v: $v) }", nil)
	require.Equal(t, []executor.GraphQLError{{Message: "variable $v of required type Int! was not provided"}}, got.Errors)
	require.Nil(t, got.Data)

	got = run(t, rt, s, "query($v: Int!) { echo(v: $v) }", map[string]any{"v": nil})
	require.Equal(t, "variable $v of type Int! cannot be null", got.Errors[0].Message)
}

func TestOperationSelection(t *testing.T) {
	s := mustSchema(t, `type Query { a: String } type Mutation { m: String } type Subscription { s: String }`)
	rt := newRecorder(map[string]resolverFunc{
		"Query.a":    value("A"),
		"Mutation.m": value("M"),
	})
	exec := executor.NewExecutor(rt, s)
	ctx := context.Background()
	doc := mustParseQuery(t, "query One { a } mutation Two { m } subscription Three { s }")

	for _, tc := range []struct {
		name     string
		op       string
		wantData any
		wantErr  string
	}{
		{name: "query by name", op: "One", wantData: map[string]any{"a": "A"}},
		{name: "mutation by name", op: "Two", wantData: map[string]any{"m": "M"}},
		{name: "ambiguous", op: "", wantErr: "must provide operation name if query contains multiple operations"},
		{name: "unknown", op: "Four", wantErr: `unknown operation named "Four"`},
		{name: "subscription", op: "Three", wantErr: "subscriptions are not supported"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res := exec.ExecuteRequest(ctx, doc, tc.op, nil, nil)
			if tc.wantErr != "" {
				require.Len(t, res.Errors, 1)
				require.Equal(t, tc.wantErr, res.Errors[0].Message)
				return
			}
			require.Empty(t, res.Errors)
			require.Equal(t, tc.wantData, res.Data)
		})
	}
}

func TestCodedErrorsExposeExtensions(t *testing.T) {
	s := mustSchema(t, `type Query { a: String b: String }`, "Query.b")
	denied := errbuilder.New().WithCode(errbuilder.CodePermissionDenied).WithMsg("Unauthenticated.")
	rt := newRecorder(map[string]resolverFunc{
		"Query.a": fail(denied),
		"Query.b": fail(errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad")),
	})

	got := run(t, rt, s, "{ a b }", nil)
	want := []executor.GraphQLError{
		{
			Message:    "Unauthenticated.",
			Path:       executor.Path{"a"},
			Locations:  []executor.Location{{Line: 1, Column: 3}},
			Extensions: map[string]any{"code": "FORBIDDEN"},
		},
		{
			Message:    "bad",
			Path:       executor.Path{"b"},
			Locations:  []executor.Location{{Line: 1, Column: 5}},
			Extensions: map[string]any{"code": "BAD_USER_INPUT"},
		},
	}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSkipAndInclude(t *testing.T) {
	s := mustSchema(t, `type Query { a: String b: String }`)
	rt := newRecorder(map[string]resolverFunc{
		"Query.a": value("A"),
		"Query.b": value("B"),
	})

	got := run(t, rt, s, "query($no: Boolean!) { a @skip(if: true) b @include(if: $no) }", map[string]any{"no": false})
	require.Empty(t, got.Errors)
	require.Equal(t, map[string]any{}, got.Data)

	got = run(t, rt, s, "{ first: a second: a }", nil)
	require.Equal(t, map[string]any{"first": "A", "second": "A"}, got.Data)
}

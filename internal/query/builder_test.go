package query

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID    string `json:"id"`
	Name  string
	Age   int
	Admin bool `json:"is_admin"`
}

func TestBuilderApply(t *testing.T) {
	records := []any{
		map[string]any{"id": "1", "name": "ada", "age": int64(36)},
		map[string]any{"id": "2", "name": "grace", "age": int64(45)},
		map[string]any{"id": "3", "name": "alan", "age": int64(41)},
		map[string]any{"id": "4", "name": "edsger"},
	}

	for _, tc := range []struct {
		name    string
		build   func(b *Builder)
		wantIDs []string
	}{
		{name: "no conditions", build: func(b *Builder) {}, wantIDs: []string{"1", "2", "3", "4"}},
		{name: "eq", build: func(b *Builder) { b.Where("name", OpEq, "alan") }, wantIDs: []string{"3"}},
		{name: "numeric gt across int kinds", build: func(b *Builder) { b.Where("age", OpGt, 40) }, wantIDs: []string{"2", "3"}},
		{name: "missing column excludes", build: func(b *Builder) { b.Where("age", OpLte, 100) }, wantIDs: []string{"1", "2", "3"}},
		{name: "in", build: func(b *Builder) { b.WhereIn("id", []any{"4", "1"}) }, wantIDs: []string{"1", "4"}},
		{name: "like", build: func(b *Builder) { b.Where("name", OpLike, "a%") }, wantIDs: []string{"1", "3"}},
		{name: "order desc", build: func(b *Builder) { b.OrderBy("age", true) }, wantIDs: []string{"2", "3", "1", "4"}},
		{name: "order then page", build: func(b *Builder) { b.OrderBy("name", false).Offset(1).Limit(2) }, wantIDs: []string{"3", "4"}},
		{name: "offset past end", build: func(b *Builder) { b.Offset(10) }, wantIDs: []string{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder()
			tc.build(b)
			got := []string{}
			for _, r := range b.Apply(records) {
				id, _ := Lookup(r, "id")
				got = append(got, id.(string))
			}
			if diff := cmp.Diff(tc.wantIDs, got); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupStruct(t *testing.T) {
	u := &user{ID: "u1", Name: "ada", Age: 36, Admin: true}

	v, ok := Lookup(u, "id")
	require.True(t, ok)
	require.Equal(t, "u1", v)

	v, ok = Lookup(u, "name")
	require.True(t, ok)
	require.Equal(t, "ada", v)

	v, ok = Lookup(*u, "is_admin")
	require.True(t, ok)
	require.Equal(t, true, v)

	_, ok = Lookup(u, "missing")
	require.False(t, ok)

	_, ok = Lookup((*user)(nil), "id")
	require.False(t, ok)
}

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator(" GTE ")
	require.NoError(t, err)
	require.Equal(t, OpGte, op)

	_, err = ParseOperator("between")
	require.ErrorContains(t, err, "between")
}

func TestMemorySourceCopies(t *testing.T) {
	src := MemorySource{map[string]any{"id": "1"}}
	got, err := src.Records(context.Background())
	require.NoError(t, err)
	got[0] = nil
	require.NotNil(t, src[0])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Records(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

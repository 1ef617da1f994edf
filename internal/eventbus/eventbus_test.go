package eventbus

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type started struct{ Name string }
type finished struct{ Name string }

func useBus(t *testing.T) *Bus {
	t.Helper()
	b := New()
	Use(b)
	t.Cleanup(func() { Use(nil) })
	return b
}

func TestPublishDispatchesByType(t *testing.T) {
	useBus(t)
	var got []string
	Subscribe(func(_ context.Context, e started) { got = append(got, "a:"+e.Name) })
	Subscribe(func(_ context.Context, e started) { got = append(got, "b:"+e.Name) })
	Subscribe(func(_ context.Context, e finished) { got = append(got, "finished:"+e.Name) })

	Publish(context.Background(), started{Name: "q"})
	Publish(context.Background(), finished{Name: "q"})

	want := []string{"a:q", "b:q", "finished:q"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := useBus(t)
	var got []string
	unsubA := Subscribe(func(_ context.Context, e started) { got = append(got, "a") })
	Subscribe(func(_ context.Context, e started) { got = append(got, "b") })
	require.Equal(t, 2, Len[started](b))

	unsubA()
	unsubA()
	require.Equal(t, 1, Len[started](b))

	Publish(context.Background(), started{})
	require.Equal(t, []string{"b"}, got)
}

func TestPublishWithoutBus(t *testing.T) {
	Use(nil)
	called := false
	unsub := Subscribe(func(context.Context, started) { called = true })
	Publish(context.Background(), started{})
	unsub()
	require.False(t, called)
	require.Nil(t, Current())
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	b := useBus(t)
	var calls int
	var unsub func()
	unsub = SubscribeTo(b, func(context.Context, started) {
		calls++
		unsub()
	})
	Publish(context.Background(), started{})
	Publish(context.Background(), started{})
	require.Equal(t, 1, calls)
	require.Zero(t, Len[started](b))
}

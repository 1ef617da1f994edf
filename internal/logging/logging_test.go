package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	eventbus "github.com/hanpama/beacon/internal/eventbus"
	events "github.com/hanpama/beacon/internal/events"
	reqid "github.com/hanpama/beacon/internal/reqid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func resetLevel(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestSetupLevels(t *testing.T) {
	resetLevel(t)
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for level, want := range tests {
		Setup(level, "json", &bytes.Buffer{})
		require.Equal(t, want, zerolog.GlobalLevel(), "level %q", level)
	}
}

func TestSetupFormats(t *testing.T) {
	resetLevel(t)

	var buf bytes.Buffer
	logger := Setup("info", "json", &buf)
	logger.Info().Str("k", "v").Msg("hello")
	got := lines(t, &buf)
	require.Len(t, got, 1)
	require.Equal(t, "hello", got[0]["message"])
	require.Equal(t, "v", got[0]["k"])

	buf.Reset()
	logger = Setup("info", "console", &buf)
	logger.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSubscribeLogsEvents(t *testing.T) {
	resetLevel(t)
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var buf bytes.Buffer
	logger := Setup("trace", "json", &buf)
	unsubscribe := Subscribe(logger)

	ctx, rid := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.SchemaBuildFinish{Sources: 1, Types: 3, Directives: map[string]string{"all": "x.AllDirective"}})
	eventbus.Publish(ctx, events.GraphQLStart{OperationName: "Q", OperationType: "query"})
	eventbus.Publish(ctx, events.ResolverFinish{ID: 1, ObjectType: "Query", Field: "users"})
	eventbus.Publish(ctx, events.GraphQLFinish{OperationName: "Q", OperationType: "query", Errors: []error{errors.New("boom")}})
	eventbus.Publish(ctx, events.Dispatched{Name: "registered", Field: "Mutation.register"})

	got := lines(t, &buf)
	var messages []string
	for _, l := range got {
		messages = append(messages, l["message"].(string))
		require.Equal(t, json.Number(strconv.FormatInt(rid, 10)), l["request_id"])
	}
	require.Equal(t, []string{
		"schema build finished",
		"graphql operation started",
		"resolver finished",
		"graphql operation finished",
		"event dispatched",
	}, messages)
	require.Equal(t, "x.AllDirective", got[0]["@all"])
	require.Equal(t, "warn", got[3]["level"])

	unsubscribe()
	buf.Reset()
	eventbus.Publish(ctx, events.Dispatched{Name: "ignored"})
	require.Empty(t, buf.String())
}

func TestSubscribeLogsBuildFailure(t *testing.T) {
	resetLevel(t)
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var buf bytes.Buffer
	t.Cleanup(Subscribe(Setup("info", "json", &buf)))

	eventbus.Publish(context.Background(), events.SchemaBuildFinish{Sources: 2, Err: errors.New("bad sdl")})
	got := lines(t, &buf)
	require.Len(t, got, 1)
	require.Equal(t, "error", got[0]["level"])
	require.Equal(t, "bad sdl", got[0]["error"])
	require.NotContains(t, got[0], "request_id")
}

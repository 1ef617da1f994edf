// Package logging configures zerolog and logs engine events.
package logging

import (
	"context"
	"io"
	"strings"

	eventbus "github.com/hanpama/beacon/internal/eventbus"
	events "github.com/hanpama/beacon/internal/events"
	reqid "github.com/hanpama/beacon/internal/reqid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global level and the output format, "json" or "console",
// and returns the configured logger. Unknown levels fall back to info.
func Setup(level, format string, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	var out io.Writer = w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Subscribe logs schema builds, operations, resolver calls and dispatched
// events published on the global bus.
func Subscribe(logger zerolog.Logger) (unsubscribe func()) {
	withRequest := func(ctx context.Context) *zerolog.Logger {
		l := logger
		if rid, ok := reqid.FromContext(ctx); ok {
			l = logger.With().Int64("request_id", rid).Logger()
		}
		return &l
	}

	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.SchemaBuildFinish) {
			l := withRequest(ctx)
			if e.Err != nil {
				l.Error().Err(e.Err).Int("sources", e.Sources).Msg("schema build failed")
				return
			}
			ev := l.Debug().Int("sources", e.Sources).Int("types", e.Types).Dur("duration", e.Duration)
			for name, classID := range e.Directives {
				ev = ev.Str("@"+name, classID)
			}
			ev.Msg("schema build finished")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLStart) {
			withRequest(ctx).Debug().
				Str("operation", e.OperationName).
				Str("type", e.OperationType).
				Int("variables", len(e.Variables)).
				Msg("graphql operation started")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			l := withRequest(ctx)
			ev := l.Debug()
			if len(e.Errors) > 0 {
				ev = l.Warn().Errs("errors", e.Errors)
			}
			ev.Str("operation", e.OperationName).
				Str("type", e.OperationType).
				Dur("duration", e.Duration).
				Msg("graphql operation finished")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.ResolverFinish) {
			withRequest(ctx).Trace().
				Uint64("resolver_id", e.ID).
				Str("field", e.ObjectType+"."+e.Field).
				Dur("duration", e.Duration).
				AnErr("error", e.Err).
				Msg("resolver finished")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.Dispatched) {
			withRequest(ctx).Info().
				Str("event", e.Name).
				Str("field", e.Field).
				Msg("event dispatched")
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

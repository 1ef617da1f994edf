package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	config "github.com/hanpama/beacon/internal/config"
	directive "github.com/hanpama/beacon/internal/directive"
	engine "github.com/hanpama/beacon/internal/engine"
	eventbus "github.com/hanpama/beacon/internal/eventbus"
	logging "github.com/hanpama/beacon/internal/logging"
	otel "github.com/hanpama/beacon/internal/otel"
	sdl "github.com/hanpama/beacon/internal/sdl"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

type rootOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

// app is the state shared by subcommands once the root pre-run loaded the
// configuration.
type app struct {
	config  *viper.Viper
	logger  zerolog.Logger
	closers []func(context.Context) error
}

func Execute() {
	root, a := newRootCommand()
	if err := execute(context.Background(), root, a); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeForError(err))
	}
}

// execute runs root and releases what the pre-run set up. Cobra skips
// post-run hooks when a command fails, so closing happens here.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)
	if cerr := a.close(context.WithoutCancel(ctx)); cerr != nil {
		a.logger.Warn().Err(cerr).Msg("shutdown failed")
		if err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCommand() (*cobra.Command, *app) {
	opts := rootOptions{}
	a := &app{config: config.New(), logger: zerolog.Nop()}
	cmd := &cobra.Command{
		Use:           "beacon",
		Short:         "Build and run GraphQL schemas driven by schema directives",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		return a.init(c, cmd, opts)
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "console", "Log format: console or json")

	cmd.AddCommand(newCompileCommand(a))
	cmd.AddCommand(newDirectivesCommand(a))
	cmd.AddCommand(newExecCommand(a))
	return cmd, a
}

func (a *app) init(cmd, root *cobra.Command, opts rootOptions) error {
	v, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}
	_ = v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, root.PersistentFlags().Lookup("log-format"))
	a.config = v

	a.logger = logging.Setup(v.GetString(config.KeyLogLevel), v.GetString(config.KeyLogFormat), cmd.ErrOrStderr())
	eventbus.Use(eventbus.New())
	unsubscribe := logging.Subscribe(a.logger)
	a.closers = append(a.closers, func(context.Context) error {
		unsubscribe()
		eventbus.Use(nil)
		return nil
	})

	shutdown, err := otel.Setup(cmd.Context(), v.GetString(config.KeyOTelEndpoint), v.GetString(config.KeyOTelService))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to set up tracing").
			WithCause(err)
	}
	a.closers = append(a.closers, shutdown)
	return nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) factory() *directive.Factory {
	return directive.NewFactory(directive.WithConfig(a.config), directive.WithLogger(a.logger))
}

// discovery opens the schema root given by flag, or by schema.root.
func (a *app) discovery(cmd *cobra.Command, dir string) (sdl.Discovery, error) {
	if !flagChanged(cmd, "schema") {
		dir = a.config.GetString(config.KeySchemaRoot)
	}
	disc, err := sdl.NewFileSystemDiscovery(cmd.Context(), dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open schema root " + dir).
			WithCause(err)
	}
	return disc, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}

func exitCodeForError(err error) int {
	switch engine.ErrorCode(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

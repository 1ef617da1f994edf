package cli

import (
	"fmt"

	engine "github.com/hanpama/beacon/internal/engine"
	schema "github.com/hanpama/beacon/internal/schema"
	"github.com/spf13/cobra"
)

type compileOptions struct {
	Schema string
}

func newCompileCommand(a *app) *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile-sdl",
		Short: "Print the schema after the directive build pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", ".", "Schema root directory")
	return cmd
}

func runCompile(cmd *cobra.Command, a *app, opts compileOptions) error {
	disc, err := a.discovery(cmd, opts.Schema)
	if err != nil {
		return err
	}
	s, err := engine.Compile(cmd.Context(), disc,
		engine.WithFactory(a.factory()),
		engine.WithLogger(a.logger))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), schema.Render(s))
	return err
}

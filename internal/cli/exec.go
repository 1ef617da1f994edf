package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	config "github.com/hanpama/beacon/internal/config"
	directive "github.com/hanpama/beacon/internal/directive"
	engine "github.com/hanpama/beacon/internal/engine"
	query "github.com/hanpama/beacon/internal/query"
	viewer "github.com/hanpama/beacon/internal/viewer"
	"github.com/spf13/cobra"
)

type execOptions struct {
	Schema    string
	Sources   []string
	Query     string
	QueryFile string
	Operation string
	Variables string
	Viewer    string
	Abilities []string
}

func newExecCommand(a *app) *cobra.Command {
	opts := execOptions{}
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute a GraphQL operation against JSON fixture sources",
		Example: `  beacon exec --schema ./graphql --source users=users.json \
    --query '{ users(first: 5) { id name } }'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExec(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", ".", "Schema root directory")
	cmd.Flags().StringArrayVar(&opts.Sources, "source", nil, "Data source as name=path.json, repeatable")
	cmd.Flags().StringVar(&opts.Query, "query", "", "GraphQL document")
	cmd.Flags().StringVar(&opts.QueryFile, "query-file", "", "File holding the GraphQL document")
	cmd.Flags().StringVar(&opts.Operation, "operation", "", "Operation name")
	cmd.Flags().StringVar(&opts.Variables, "variables", "", "Variables as a JSON object")
	cmd.Flags().StringVar(&opts.Viewer, "viewer", "", "Run as this viewer id")
	cmd.Flags().StringSliceVar(&opts.Abilities, "ability", nil, "Abilities granted to the viewer")
	cmd.MarkFlagsMutuallyExclusive("query", "query-file")
	return cmd
}

func runExec(cmd *cobra.Command, a *app, opts execOptions) error {
	doc, err := readQuery(opts)
	if err != nil {
		return err
	}
	variables, err := parseVariables(opts.Variables)
	if err != nil {
		return err
	}
	sources, err := loadSources(opts.Sources)
	if err != nil {
		return err
	}
	disc, err := a.discovery(cmd, opts.Schema)
	if err != nil {
		return err
	}

	e, err := engine.New(cmd.Context(), disc,
		engine.WithFactory(a.factory()),
		engine.WithLogger(a.logger),
		engine.WithServices(&directive.Services{Sources: sources}),
		engine.WithConcurrency(a.config.GetInt(config.KeyConcurrency)),
		engine.WithTimeout(a.config.GetDuration(config.KeyTimeout)))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.Viewer != "" {
		ctx = viewer.NewContext(ctx, &viewer.Viewer{ID: opts.Viewer, Abilities: opts.Abilities})
	}
	result := e.Execute(ctx, doc, opts.Operation, variables)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("operation finished with %d error(s)", len(result.Errors)))
	}
	return nil
}

func readQuery(opts execOptions) (string, error) {
	if opts.QueryFile != "" {
		b, err := os.ReadFile(opts.QueryFile)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to read query file").
				WithCause(err)
		}
		return string(b), nil
	}
	if strings.TrimSpace(opts.Query) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("one of --query or --query-file is required")
	}
	return opts.Query, nil
}

func parseVariables(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var vars map[string]any
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--variables must be a JSON object").
			WithCause(err)
	}
	return vars, nil
}

// loadSources reads each name=path.json pair into an in-memory source. The
// file must hold a JSON array of records.
func loadSources(entries []string) (map[string]query.Source, error) {
	sources := make(map[string]query.Source, len(entries))
	for _, entry := range entries {
		name, path, ok := strings.Cut(entry, "=")
		if !ok || name == "" || path == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid --source %q, want name=path.json", entry))
		}
		records, err := readRecords(path)
		if err != nil {
			return nil, err
		}
		sources[name] = records
	}
	return sources, nil
}

func readRecords(path string) (query.MemorySource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read source file " + path).
			WithCause(err)
	}
	var records []any
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source file " + path + " must hold a JSON array").
			WithCause(err)
	}
	return query.MemorySource(records), nil
}

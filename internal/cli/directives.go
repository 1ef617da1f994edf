package cli

import (
	"slices"
	"strings"

	directive "github.com/hanpama/beacon/internal/directive"
	engine "github.com/hanpama/beacon/internal/engine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type directivesOptions struct {
	Schema string
}

type directivesReport struct {
	Namespaces []string          `yaml:"namespaces"`
	Directives []directiveEntry  `yaml:"directives"`
	Resolved   map[string]string `yaml:"resolved,omitempty"`
}

type directiveEntry struct {
	Name         string   `yaml:"name"`
	Class        string   `yaml:"class"`
	Capabilities []string `yaml:"capabilities,omitempty"`
}

func newDirectivesCommand(a *app) *cobra.Command {
	opts := directivesOptions{}
	cmd := &cobra.Command{
		Use:   "directives",
		Short: "List the directive namespaces and registered directives",
		Long: "List the namespaces searched for directive classes, highest priority first, " +
			"and every registered directive. With --schema, also show which class each " +
			"directive used by the schema resolved to.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDirectives(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema root directory to resolve directives against")
	return cmd
}

func runDirectives(cmd *cobra.Command, a *app, opts directivesOptions) error {
	factory := a.factory()
	report := directivesReport{Namespaces: factory.Namespaces()}

	registry := factory.Registry()
	for _, classID := range registry.Classes() {
		if !inNamespaces(classID, report.Namespaces) {
			continue
		}
		ctor, _ := registry.Lookup(classID)
		v := ctor()
		d, ok := v.(directive.Directive)
		if !ok {
			continue
		}
		report.Directives = append(report.Directives, directiveEntry{
			Name:         d.Name(),
			Class:        classID,
			Capabilities: directive.Capabilities(v),
		})
	}
	slices.SortFunc(report.Directives, func(x, y directiveEntry) int {
		return strings.Compare(x.Name, y.Name)
	})

	if flagChanged(cmd, "schema") {
		disc, err := a.discovery(cmd, opts.Schema)
		if err != nil {
			return err
		}
		if _, err := engine.Compile(cmd.Context(), disc, engine.WithFactory(factory), engine.WithLogger(a.logger)); err != nil {
			return err
		}
		report.Resolved = factory.Resolved()
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

func inNamespaces(classID string, namespaces []string) bool {
	i := strings.LastIndex(classID, ".")
	if i < 0 {
		return false
	}
	return slices.Contains(namespaces, classID[:i])
}

package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/graph"
)

// graphCommand creates the graph command group.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect the stored dependency graph",
	}

	cmd.AddCommand(c.graphDOTCommand())

	return cmd
}

// graphDOTCommand creates the "graph dot" subcommand.
func (c *CLI) graphDOTCommand() *cobra.Command {
	var (
		svgPath  string
		detailed bool
		kinds    []string
	)

	cmd := &cobra.Command{
		Use:   "dot <fmri>",
		Short: "Write the subgraph of everything depending on a package",
		Long: `Write the stem of <fmri> and every package reaching it as Graphviz DOT on
stdout, or render it to SVG with --svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edgeKinds []catalog.Kind
			for _, name := range kinds {
				k, ok := catalog.ParseKind(name)
				if !ok {
					return errors.New(errors.ErrCodeInvalidConfig, "unknown dependency kind %q", name)
				}
				edgeKinds = append(edgeKinds, k)
			}

			runner, err := c.newRunner(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			dot, err := runner.DOT(cmd.Context(), args[0], detailed, edgeKinds...)
			if err != nil {
				return err
			}
			if svgPath == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}

			svg, err := graph.RenderSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			if err := afero.WriteFile(c.Fs, svgPath, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", svgPath, err)
			}
			printSuccess(cmd.OutOrStdout(), "Rendered %s", StyleHighlight.Render(args[0]))
			printFile(cmd.OutOrStdout(), svgPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "render to this SVG file instead of printing DOT")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with state, version and component")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only follow dependencies of these kinds (repeatable)")

	return cmd
}

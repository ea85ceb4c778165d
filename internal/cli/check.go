package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

// checkFMRICommand creates the check-fmri command.
func (c *CLI) checkFMRICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-fmri <fmri> <components-path>",
		Short: "List the components that depend on a package",
		Long: `List every component whose declared or resolved dependencies reach the stem of
<fmri>, directly or transitively, using the graph stored by the last data run.

Component locations are printed relative to <components-path>, normally the
components directory of an oi-userland checkout.`,
		Example: `  pkgcheck check-fmri pkg:/library/zlib ~/oi-userland/components`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			runner, err := c.newRunner(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			comps, err := runner.Dependents(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(comps) == 0 {
				printInfo(out, "No dependents found for %s", StyleHighlight.Render(args[0]))
				return nil
			}

			printSuccess(out, "%d components depend on %s", len(comps), StyleHighlight.Render(args[0]))
			for _, comp := range comps {
				printFile(out, filepath.Join(args[1], filepath.FromSlash(comp.Path)))
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/observability"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// dataCommand creates the data command group.
func (c *CLI) dataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Run the analysis and manage its inputs",
	}

	cmd.AddCommand(c.dataRunCommand())
	cmd.AddCommand(c.dataUpdateAssetsCommand())

	return cmd
}

// dataRunCommand creates the "data run" subcommand.
func (c *CLI) dataRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze the catalogs and components and store the results",
		Long: `Ingest every configured catalog and the component tree, build the dependency
graph, run all problem detectors and atomically replace data.bin and problems.bin.

Nothing is written if any stage fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			runner, err := c.newRunner(logger)
			if err != nil {
				return err
			}

			var metrics *observability.Metrics
			if c.cfg.MetricsFile != "" {
				metrics = observability.NewMetrics()
				observability.SetPipelineHooks(metrics)
				observability.SetDetectHooks(metrics)
				observability.SetArtifactHooks(metrics)
				defer observability.Reset()
			}

			prog := newProgress(logger)
			res, runErr := runner.Run(ctx)
			if metrics != nil {
				if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
					logger.Warn("could not write metrics", "file", c.cfg.MetricsFile, "err", err)
				} else {
					logger.Debug("wrote metrics", "file", c.cfg.MetricsFile)
				}
			}
			if runErr != nil {
				prog.fail(runErr)
				return runErr
			}
			prog.done("Analysis complete", "run", res.Run, "problems", len(res.Problems))

			printSuccess(out, "Analyzed %s packages and %s components",
				StyleNumber.Render(fmt.Sprint(res.Stats.Packages)),
				StyleNumber.Render(fmt.Sprint(res.Stats.Components)))
			printStats(out,
				stat{res.Graph.NodeCount(), "nodes"},
				stat{res.Graph.EdgeCount(), "edges"},
				stat{res.Stats.Skipped, "skipped components"},
			)
			if res.Stats.Skipped > 0 {
				printWarning(out, "%d component definitions could not be parsed (see log)", res.Stats.Skipped)
			}

			counts := problem.Count(res.Problems)
			printNewline(out)
			printKeyValue(out, "problems", fmt.Sprint(len(res.Problems)))
			for _, k := range problem.Kinds {
				if n := counts[k]; n > 0 {
					printKeyValue(out, "  "+string(k), fmt.Sprint(n))
				}
			}
			printKeyValue(out, "run", res.Run.String())
			printFile(out, runner.Options().GraphPath())
			printFile(out, runner.Options().ProblemsPath())
			printNewline(out)
			printNextStep(out, "Show problems", appName+" print-problems")
			return nil
		},
	}

	cmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics for the run")
	_ = c.viper.BindPFlag("metrics_file", cmd.Flags().Lookup("metrics-file"))

	return cmd
}

// dataUpdateAssetsCommand creates the "data update-assets" subcommand.
func (c *CLI) dataUpdateAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update-assets",
		Short: "Check that the configured catalogs and component tree are usable",
		Long: `Read every configured catalog asset and scan the component tree, reporting
how many records and definitions a run would ingest.

Assets are expected to be kept up to date externally; this command never
downloads anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			runner, err := c.newRunner(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}

			failed := 0
			statuses := runner.CheckAssets(cmd.Context())
			for _, s := range statuses {
				label := s.Path
				if s.Publisher != "" {
					label += " (" + s.Publisher + ")"
				}
				if s.Err != nil {
					failed++
					printError(out, "%s", label)
					printDetail(out, "%s", errors.UserMessage(s.Err))
					continue
				}
				printSuccess(out, "%s", label)
				printDetail(out, "%d entries", s.Items)
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidAsset, "%d of %d assets are unusable", failed, len(statuses))
			}
			return cmd.Context().Err()
		},
	}
}

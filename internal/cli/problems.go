package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// jsonReport is the --json output of print-problems.
type jsonReport struct {
	Run      string        `json:"run"`
	Total    int           `json:"total"`
	Problems []jsonProblem `json:"problems"`
}

type jsonProblem struct {
	Kind      string   `json:"kind"`
	Subject   string   `json:"subject"`
	Related   []string `json:"related,omitempty"`
	Component string   `json:"component,omitempty"`
}

// printProblemsCommand creates the print-problems command.
func (c *CLI) printProblemsCommand() *cobra.Command {
	var (
		kinds  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "print-problems",
		Short: "Print the problems found by the last data run",
		Long: `Print the problem report stored by the last data run, grouped by kind.

Valid kinds: ` + kindList() + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseKinds(kinds)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			report, err := runner.Problems(cmd.Context())
			if err != nil {
				return err
			}

			problems := problem.Filter(report.Problems, filter...)
			if asJSON {
				return writeProblemsJSON(cmd.OutOrStdout(), report.Run.String(), problems)
			}
			printProblems(cmd.OutOrStdout(), problems)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only print problems of these kinds (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, k := range problem.Kinds {
			names = append(names, string(k))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func parseKinds(names []string) ([]problem.Kind, error) {
	var out []problem.Kind
	for _, name := range names {
		k, ok := problem.ParseKind(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown problem kind %q (valid: %s)", name, kindList())
		}
		out = append(out, k)
	}
	return out, nil
}

func kindList() string {
	var names []string
	for _, k := range problem.Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func writeProblemsJSON(w io.Writer, run string, problems []problem.Problem) error {
	out := jsonReport{Run: run, Total: len(problems), Problems: make([]jsonProblem, 0, len(problems))}
	for _, p := range problems {
		out.Problems = append(out.Problems, jsonProblem{
			Kind:      string(p.Kind),
			Subject:   p.Subject,
			Related:   p.Related,
			Component: p.Component,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

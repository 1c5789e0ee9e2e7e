package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/compare"
	"github.com/cleared-dev/reclass/internal/report"
)

func newCompareCommand() *cobra.Command {
	var ws workspaceFlags
	var raw bool

	cmd := &cobra.Command{
		Use:   "compare <file|dir>...",
		Short: "Compare ratios across periods",
		Long:  "Compare ratios across two or more extracts. Directories contribute every CSV extract they contain, in name order.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := ws.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			datasets, err := loadDatasets(ctx, args)
			if err != nil {
				return err
			}
			if len(datasets) < 2 {
				return fmt.Errorf("%w: got %d", compare.ErrTooFewDatasets, len(datasets))
			}

			results, err := analysis.NewService(opts, cfg.Workers).AnalyzeAll(ctx, datasets)
			if err != nil {
				return err
			}
			warnUnbalanced(ctx, datasets, results)

			named := make([]compare.Named, 0, len(results))
			for i, a := range results {
				named = append(named, compare.Named{Name: datasets[i].Name, Analysis: a})
			}
			table, err := compare.Build(named)
			if err != nil {
				return err
			}

			out := report.CompareMarkdown(table)
			if !raw {
				out, err = report.Render(out, report.StylePlain, report.DefaultWidth)
				if err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if ws.workspace != "" {
				return logRun(ws.workspace, "compare", datasets, results)
			}
			return nil
		},
	}

	ws.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown instead of rendered text")

	return cmd
}

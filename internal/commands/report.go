package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/report"
)

func newReportCommand() *cobra.Command {
	var ws workspaceFlags
	var raw bool
	var output string
	var width int
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Write a Markdown report with commentary for one extract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := ws.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			datasets, err := loadDatasets(ctx, args[:1])
			if err != nil {
				return err
			}
			if len(datasets) != 1 {
				return fmt.Errorf("report takes a single extract, %s holds %d", args[0], len(datasets))
			}
			ds := datasets[0]

			a, err := analysis.NewService(opts, 1).Analyze(ctx, ds)
			if err != nil {
				return err
			}
			warnUnbalanced(ctx, datasets, []*analysis.Analysis{a})

			markdown := report.Markdown(ds.Name, a, report.Options{
				Currency:    cfg.Currency,
				GeneratedAt: time.Now(),
				Commentary:  true,
				Tolerance:   opts.Tolerance,
			})

			if asHTML {
				page, err := report.HTML("Financial analysis: "+ds.Name, markdown)
				if err != nil {
					return err
				}
				if output != "" {
					return writeReport(ctx, output, page)
				}
				_, err = cmd.OutOrStdout().Write(page)
				return err
			}
			if output != "" {
				return writeReport(ctx, output, []byte(markdown))
			}
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), markdown)
				return nil
			}
			out, err := report.Render(markdown, "", width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	ws.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown instead of rendering it for the terminal")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&asHTML, "html", false, "emit the report as an HTML page")
	cmd.Flags().IntVar(&width, "width", report.DefaultWidth, "word-wrap width of the rendered report")

	return cmd
}

func writeReport(ctx context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("path", path).Msg("report written")
	return nil
}

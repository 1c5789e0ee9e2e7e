package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/id"
	"github.com/cleared-dev/reclass/internal/report"
	"github.com/cleared-dev/reclass/internal/runlog"
)

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func newAnalyzeCommand() *cobra.Command {
	var ws workspaceFlags
	var format string
	var showEmpty bool

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Reclassify extracts and print statements, ratios and diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatMarkdown, formatJSON:
			default:
				return fmt.Errorf("unknown format %q: want text, markdown or json", format)
			}

			cfg, opts, err := ws.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			datasets, err := loadDatasets(ctx, args)
			if err != nil {
				return err
			}
			results, err := analysis.NewService(opts, cfg.Workers).AnalyzeAll(ctx, datasets)
			if err != nil {
				return err
			}
			warnUnbalanced(ctx, datasets, results)

			out, err := renderAnalyses(datasets, results, format, report.Options{
				Currency:  cfg.Currency,
				ShowEmpty: showEmpty,
				Tolerance: opts.Tolerance,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if ws.workspace != "" {
				if err := logRun(ws.workspace, "analyze", datasets, results); err != nil {
					return err
				}
				zerolog.Ctx(ctx).Debug().Str("log", runlog.Path(ws.workspace)).Msg("run logged")
			}
			return nil
		},
	}

	ws.register(cmd)
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, markdown or json")
	cmd.Flags().BoolVar(&showEmpty, "show-empty", false, "keep balance-sheet lines no account contributed to")

	return cmd
}

func renderAnalyses(datasets []analysis.Dataset, results []*analysis.Analysis, format string, opts report.Options) (string, error) {
	if format == formatJSON && len(results) == 1 {
		data, err := report.JSON(datasets[0].Name, opts.Currency, results[0])
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}
	if format == formatJSON {
		docs := make([]report.Document, 0, len(results))
		for i, a := range results {
			docs = append(docs, report.NewDocument(datasets[i].Name, opts.Currency, a))
		}
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding analysis: %w", err)
		}
		return string(data) + "\n", nil
	}

	parts := make([]string, 0, len(results))
	for i, a := range results {
		parts = append(parts, report.Markdown(datasets[i].Name, a, opts))
	}
	markdown := strings.Join(parts, "\n")
	if format == formatMarkdown {
		return markdown, nil
	}
	return report.Render(markdown, report.StylePlain, report.DefaultWidth)
}

// logRun appends one analysis-log row per dataset under a shared run ID.
func logRun(root, command string, datasets []analysis.Dataset, results []*analysis.Analysis) error {
	now := time.Now()
	runID, err := runlog.NextRunID(root, now)
	if err != nil {
		return err
	}

	entries := make([]runlog.Entry, 0, len(results))
	for i, a := range results {
		d := a.Diagnostics
		entries = append(entries, runlog.Entry{
			Timestamp: now,
			RunID:     runID,
			Command:   command,
			Dataset:   datasets[i].Name,
			Digest:    id.Dataset(datasets[i].Records),
			Balanced:  d.Balanced,
			Details: fmt.Sprintf("records=%d coerced=%d unclassified=%d",
				len(datasets[i].Records), d.CoercedAmounts,
				len(d.UnclassifiedBalance)+len(d.UnclassifiedIncome)),
		})
	}
	return runlog.Append(root, entries)
}

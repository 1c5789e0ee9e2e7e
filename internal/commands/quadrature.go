package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/quadrature"
	"github.com/cleared-dev/reclass/internal/report"
)

func newQuadratureCommand() *cobra.Command {
	var ws workspaceFlags
	var strict bool
	var raw bool

	cmd := &cobra.Command{
		Use:   "quadrature <file>...",
		Short: "Check that assets equal liabilities in each extract",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := ws.load(cmd)
			if err != nil {
				return err
			}
			datasets, err := loadDatasets(cmd.Context(), args)
			if err != nil {
				return err
			}

			ropts := report.Options{Currency: cfg.Currency, Tolerance: opts.Tolerance}
			parts := make([]string, 0, len(datasets))
			var unbalanced []string
			for _, ds := range datasets {
				q := quadrature.Check(ds.Records)
				if !q.BalancedWithin(opts.Tolerance) {
					unbalanced = append(unbalanced, ds.Name)
				}
				parts = append(parts, report.QuadratureMarkdown(ds.Name, q, ropts))
			}

			out := strings.Join(parts, "\n")
			if !raw {
				out, err = report.Render(out, report.StylePlain, report.DefaultWidth)
				if err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if len(unbalanced) == 0 {
				return nil
			}
			if strict {
				return fmt.Errorf("quadrature failed for %d of %d extracts: %s",
					len(unbalanced), len(datasets), strings.Join(unbalanced, ", "))
			}
			zerolog.Ctx(cmd.Context()).Warn().
				Strs("datasets", unbalanced).
				Msg("assets and liabilities do not balance")
			return nil
		},
	}

	ws.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any extract is unbalanced")
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown instead of rendered text")

	return cmd
}

package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/config"
	"github.com/cleared-dev/reclass/internal/ingest"
)

// workspaceFlags are shared by the commands that read extracts.
type workspaceFlags struct {
	configPath string
	workspace  string
	bankRatio  float64
}

func (f *workspaceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to reclass.yaml (default: <workspace>/reclass.yaml)")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "workspace directory holding reclass.yaml and logs/")
	cmd.Flags().Float64Var(&f.bankRatio, "bank-ratio", 0, "share of bank debt treated as short term, between 0 and 1")
}

// path returns the config file to read. A missing file yields defaults.
func (f *workspaceFlags) path() string {
	if f.configPath != "" {
		return f.configPath
	}
	dir := f.workspace
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, config.FileName)
}

// load resolves the configuration, applies flag overrides and adopts the
// configured log level unless one was pinned on the command line.
func (f *workspaceFlags) load(cmd *cobra.Command) (*config.Config, analysis.Options, error) {
	path := f.path()
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, analysis.Options{}, err
	}
	if cmd.Flags().Changed("bank-ratio") {
		cfg.Balance.ShortTermBankRatio = f.bankRatio
		if err := cfg.Validate(); err != nil {
			return nil, analysis.Options{}, err
		}
	}

	if !levelPinned(cmd) {
		if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
			logger := zerolog.Ctx(cmd.Context()).Level(level)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		}
	}

	opts, err := cfg.AnalysisOptions(filepath.Dir(path))
	if err != nil {
		return nil, analysis.Options{}, fmt.Errorf("loading classification rules: %w", err)
	}
	zerolog.Ctx(cmd.Context()).Debug().
		Str("config", path).
		Str("currency", cfg.Currency).
		Float64("bank_ratio", cfg.Balance.ShortTermBankRatio).
		Msg("configuration loaded")
	return cfg, opts, nil
}

// loadDatasets expands file and directory arguments and parses each extract.
func loadDatasets(ctx context.Context, paths []string) ([]analysis.Dataset, error) {
	files, err := ingest.Expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no extract files found in %v", paths)
	}

	parser := ingest.DefaultRegistry().Get("extract")
	logger := zerolog.Ctx(ctx)

	datasets := make([]analysis.Dataset, 0, len(files))
	for _, f := range files {
		res, err := ingest.ReadFile(f.Path, parser)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("file", f.Name).
			Int("records", len(res.Records)).
			Int("skipped", res.Skipped).
			Msg("extract parsed")
		if res.Coerced > 0 {
			logger.Warn().
				Str("file", f.Name).
				Int("coerced", res.Coerced).
				Msg("unparseable amounts set to zero")
		}
		datasets = append(datasets, analysis.Dataset{Name: f.Name, Records: res.Records})
	}
	return datasets, nil
}

// warnUnbalanced logs a warning for every dataset failing the closure check.
func warnUnbalanced(ctx context.Context, datasets []analysis.Dataset, results []*analysis.Analysis) {
	logger := zerolog.Ctx(ctx)
	for i, a := range results {
		if a.Diagnostics.Balanced {
			continue
		}
		logger.Warn().
			Str("dataset", datasets[i].Name).
			Str("difference", a.Quadrature.Difference().StringFixed(2)).
			Msg("assets and liabilities do not balance")
	}
}

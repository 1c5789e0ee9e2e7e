package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/ratios"
)

func ptr(v float64) *float64 { return &v }

func TestRoundTrip(t *testing.T) {
	cfg := Default("Rossi Srl")
	cfg.RulesFile = "rules/classification.yaml"
	cfg.Thresholds = ratios.Overrides{ratios.Leverage: {Green: ptr(1.5), Yellow: ptr(2.5)}}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Company.Name, got.Company.Name)
	assert.Equal(t, cfg.Currency, got.Currency)
	assert.Equal(t, cfg.RulesFile, got.RulesFile)
	assert.InDelta(t, cfg.Balance.ShortTermBankRatio, got.Balance.ShortTermBankRatio, 1e-9)
	assert.InDelta(t, cfg.Quadrature.Tolerance, got.Quadrature.Tolerance, 1e-9)
	assert.Equal(t, cfg.Log.Level, got.Log.Level)
	assert.Equal(t, cfg.Workers, got.Workers)
	assert.Equal(t, cfg.Thresholds, got.Thresholds)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Company.Name)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Empty(t, cfg.RulesFile)
	assert.InDelta(t, 0.1, cfg.Balance.ShortTermBankRatio, 1e-9)
	assert.InDelta(t, 0.01, cfg.Quadrature.Tolerance, 1e-9)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("currency: USD\nbalance:\n  short_term_bank_ratio: 0.3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
	assert.InDelta(t, 0.3, cfg.Balance.ShortTermBankRatio, 1e-9)
	assert.InDelta(t, 0.01, cfg.Quadrature.Tolerance, 1e-9)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("currency: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Rossi Srl")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Rossi Srl")
	assert.Contains(t, contents, "currency: EUR")
	assert.Contains(t, contents, "short_term_bank_ratio: 0.1")
	assert.Contains(t, contents, "level: info")
	assert.NotContains(t, contents, "rules_file")
	assert.NotContains(t, contents, "thresholds")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RECLASS_SHORT_TERM_BANK_RATIO", "0.25")
	t.Setenv("RECLASS_RULES_FILE", "custom.yaml")
	t.Setenv("RECLASS_CURRENCY", "usd")
	t.Setenv("RECLASS_LOG_LEVEL", "DEBUG")
	t.Setenv("RECLASS_WORKERS", "8")

	cfg := Default("x")
	require.NoError(t, cfg.ApplyEnv())

	assert.InDelta(t, 0.25, cfg.Balance.ShortTermBankRatio, 1e-9)
	assert.Equal(t, "custom.yaml", cfg.RulesFile)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Workers)
}

func TestApplyEnvUnsetKeepsValues(t *testing.T) {
	cfg := Default("x")
	cfg.Currency = "GBP"
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "GBP", cfg.Currency)
	assert.InDelta(t, 0.1, cfg.Balance.ShortTermBankRatio, 1e-9)
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("RECLASS_SHORT_TERM_BANK_RATIO", "lots")
	assert.ErrorContains(t, Default("x").ApplyEnv(), "reading environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ratio above one", func(c *Config) { c.Balance.ShortTermBankRatio = 1.5 }, "ShortTermBankRatio"},
		{"negative ratio", func(c *Config) { c.Balance.ShortTermBankRatio = -0.1 }, "ShortTermBankRatio"},
		{"zero tolerance", func(c *Config) { c.Quadrature.Tolerance = 0 }, "Tolerance"},
		{"lowercase currency", func(c *Config) { c.Currency = "eur" }, "Currency"},
		{"unknown currency", func(c *Config) { c.Currency = "ZZZ" }, "unknown currency"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"too many workers", func(c *Config) { c.Workers = 1000 }, "Workers"},
		{"inverted threshold", func(c *Config) {
			c.Thresholds = ratios.Overrides{ratios.ROE: {Green: ptr(0.01), Yellow: ptr(0.05)}}
		}, "roe"},
		{"partial override crossing the default", func(c *Config) {
			c.Thresholds = ratios.Overrides{ratios.Leverage: {Green: ptr(3.5)}}
		}, "green 3.5 must not exceed yellow 3"},
		{"unknown ratio", func(c *Config) {
			c.Thresholds = ratios.Overrides{"ebitda_margin": {Green: ptr(1), Yellow: ptr(0)}}
		}, "unknown ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("x")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Resolve(filepath.Join(dir, FileName))
	require.NoError(t, err, "missing file falls back to defaults")
	assert.Equal(t, "EUR", cfg.Currency)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("balance:\n  short_term_bank_ratio: 2\n"), 0o644))
	_, err = Resolve(filepath.Join(dir, FileName))
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv("RECLASS_SHORT_TERM_BANK_RATIO", "0.2")
	cfg, err = Resolve(filepath.Join(dir, FileName))
	require.NoError(t, err, "environment overrides the file")
	assert.InDelta(t, 0.2, cfg.Balance.ShortTermBankRatio, 1e-9)
}

func TestTables(t *testing.T) {
	dir := t.TempDir()
	cfg := Default("x")

	tables, err := cfg.Tables(dir)
	require.NoError(t, err)
	assert.Same(t, classify.Default(), tables)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "custom.yaml"), classify.DefaultYAML(), 0o644))
	cfg.RulesFile = "rules/custom.yaml"

	tables, err = cfg.Tables(dir)
	require.NoError(t, err)
	_, ok := tables.Balance("0101000001")
	assert.True(t, ok)

	cfg.RulesFile = "rules/missing.yaml"
	_, err = cfg.Tables(dir)
	assert.Error(t, err)
}

func TestAnalysisOptions(t *testing.T) {
	cfg := Default("x")
	cfg.Balance.ShortTermBankRatio = 0.25
	cfg.Thresholds = ratios.Overrides{ratios.CurrentRatio: {Green: ptr(3), Yellow: ptr(2)}}

	opts, err := cfg.AnalysisOptions(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0.25", opts.Balance.ShortTermBankRatio.String())
	assert.Equal(t, "0.01", opts.Tolerance.String())
	assert.Equal(t, ratios.Threshold{Green: 3, Yellow: 2}, opts.Thresholds[ratios.CurrentRatio])
	assert.Equal(t, ratios.DefaultThresholds()[ratios.Leverage], opts.Thresholds[ratios.Leverage])
	assert.NotNil(t, opts.Tables)
}

func TestLoad_PartialThresholdOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := "thresholds:\n  roe:\n    green: 0.2\n  leverage:\n    green: 1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Nil(t, cfg.Thresholds[ratios.ROE].Yellow, "omitted bound stays unset")
	require.NoError(t, cfg.Validate())

	th := cfg.RatioThresholds()
	def := ratios.DefaultThresholds()
	assert.Equal(t, ratios.Threshold{Green: 0.2, Yellow: def[ratios.ROE].Yellow}, th[ratios.ROE])
	assert.Equal(t, ratios.Threshold{Green: 1.5, Yellow: def[ratios.Leverage].Yellow}, th[ratios.Leverage])
	assert.Equal(t, ratios.LevelCritical, ratios.Indicate(ratios.ROE, 0, th[ratios.ROE]))
}

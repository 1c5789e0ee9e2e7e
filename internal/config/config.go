package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/reclass/internal/analysis"
	"github.com/cleared-dev/reclass/internal/balance"
	"github.com/cleared-dev/reclass/internal/classify"
	"github.com/cleared-dev/reclass/internal/ratios"
)

// FileName is the workspace configuration file.
const FileName = "reclass.yaml"

// EnvPrefix prefixes every environment override, e.g. RECLASS_CURRENCY.
const EnvPrefix = "reclass"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the top-level reclass.yaml configuration.
type Config struct {
	Company    CompanyConfig    `yaml:"company"`
	Currency   string           `yaml:"currency" validate:"required,len=3,uppercase"`
	RulesFile  string           `yaml:"rules_file,omitempty"` // relative to the config file; empty uses the built-in table
	Balance    BalanceConfig    `yaml:"balance"`
	Quadrature QuadratureConfig `yaml:"quadrature"`
	Thresholds ratios.Overrides `yaml:"thresholds,omitempty"` // omitted bounds keep their defaults
	Log        LogConfig        `yaml:"log"`
	Workers    int              `yaml:"workers" validate:"gte=0,lte=64"`
}

// CompanyConfig identifies the company the extracts belong to.
type CompanyConfig struct {
	Name string `yaml:"name"`
}

// BalanceConfig controls balance-sheet reclassification.
type BalanceConfig struct {
	ShortTermBankRatio float64 `yaml:"short_term_bank_ratio" validate:"gte=0,lte=1"`
}

// QuadratureConfig controls the closure check.
type QuadratureConfig struct {
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error disabled"`
}

// envOverrides are read from RECLASS_* variables. Unset variables leave the
// file value alone.
type envOverrides struct {
	ShortTermBankRatio *float64 `envconfig:"SHORT_TERM_BANK_RATIO"`
	RulesFile          *string  `envconfig:"RULES_FILE"`
	Currency           *string  `envconfig:"CURRENCY"`
	LogLevel           *string  `envconfig:"LOG_LEVEL"`
	Workers            *int     `envconfig:"WORKERS"`
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(companyName string) *Config {
	return &Config{
		Company:    CompanyConfig{Name: companyName},
		Currency:   "EUR",
		Balance:    BalanceConfig{ShortTermBankRatio: 0.1},
		Quadrature: QuadratureConfig{Tolerance: 0.01},
		Log:        LogConfig{Level: "info"},
		Workers:    4,
	}
}

// Load reads a reclass.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve loads path when it exists, falls back to defaults otherwise, then
// applies environment overrides and validates the result.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(""), nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from RECLASS_* environment variables.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.ShortTermBankRatio != nil {
		c.Balance.ShortTermBankRatio = *env.ShortTermBankRatio
	}
	if env.RulesFile != nil {
		c.RulesFile = *env.RulesFile
	}
	if env.Currency != nil {
		c.Currency = strings.ToUpper(*env.Currency)
	}
	if env.LogLevel != nil {
		c.Log.Level = strings.ToLower(*env.LogLevel)
	}
	if env.Workers != nil {
		c.Workers = *env.Workers
	}
	return nil
}

// Validate checks field ranges, the currency code and the threshold table.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalid, c.Currency)
	}
	if err := c.RatioThresholds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// RatioThresholds returns the default thresholds with the configured bounds
// laid over them. An omitted bound keeps its default.
func (c *Config) RatioThresholds() ratios.Thresholds {
	return ratios.DefaultThresholds().Apply(c.Thresholds)
}

// Tables loads the classification tables. baseDir resolves a relative
// RulesFile; an empty RulesFile selects the built-in table.
func (c *Config) Tables(baseDir string) (*classify.Tables, error) {
	if c.RulesFile == "" {
		return classify.Default(), nil
	}
	path := c.RulesFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return classify.Load(path)
}

// AnalysisOptions builds the analysis options this configuration describes.
func (c *Config) AnalysisOptions(baseDir string) (analysis.Options, error) {
	tables, err := c.Tables(baseDir)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		Tables:     tables,
		Balance:    &balance.Options{ShortTermBankRatio: decimal.NewFromFloat(c.Balance.ShortTermBankRatio)},
		Thresholds: c.RatioThresholds(),
		Tolerance:  decimal.NewFromFloat(c.Quadrature.Tolerance),
	}, nil
}

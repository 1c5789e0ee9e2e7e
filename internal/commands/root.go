package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/buildinfo"
)

// logLevelEnv overrides the default log level when --log-level is not given.
const logLevelEnv = "RECLASS_LOG_LEVEL"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "reclass",
		Short:   "Reclassify trial-balance extracts and compute financial ratios",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd, logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error or disabled")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newQuadratureCommand())
	rootCmd.AddCommand(newCompareCommand())
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}

// setupLogger stores a console logger on stderr in the command context. The
// flag wins over the environment; the workspace config may lower or raise the
// level later when neither is set.
func setupLogger(cmd *cobra.Command, flagLevel string) error {
	raw := flagLevel
	if raw == "" {
		raw = os.Getenv(logLevelEnv)
	}
	if raw == "" {
		raw = zerolog.InfoLevel.String()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", raw, err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()

	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

// levelPinned reports whether the log level came from the flag or the
// environment, so the config file must not override it.
func levelPinned(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		return true
	}
	return os.Getenv(logLevelEnv) != ""
}

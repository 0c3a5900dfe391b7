package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solatis/valkeeper/internal/core/config"
	"github.com/solatis/valkeeper/internal/core/logger"
)

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "valkeeper",
	Short: "ValKeeper typed document validation",
	Long: `ValKeeper validates structured documents against typed field schemas.
Schemas are declared as rule expressions in the config file or on the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "report store URL (sqlite://path or postgres://...); defaults to sqlite under data_dir")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and environment, with --db-url taking
// precedence over both.
func loadConfig() (*config.ServiceConfig, error) {
	v := viper.New()
	if err := v.BindPFlag("db_url", rootCmd.PersistentFlags().Lookup("db-url")); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfigWith(v, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger() (*slog.Logger, error) {
	return logger.New(logLevel, logFormat, os.Stderr)
}

// storeURL returns the report store URL, creating the data directory when
// the default sqlite store under data_dir is used.
func storeURL(cfg *config.ServiceConfig) (string, error) {
	if cfg.DBURL == "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create data dir: %w", err)
		}
	}
	return cfg.ReportStoreURL(), nil
}

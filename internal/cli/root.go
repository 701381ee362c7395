package cli

import (
	"fmt"

	"github.com/capt-harlock/spyglass/internal/config"
	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	language string
	logLevel string
	log      *logger.Logger
	cfg      *types.Config
)

var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "Backup platform health-check and reporting tool",
	Long: `Spyglass queries a backup platform through a pluggable data provider,
normalizes license, job, repository, proxy and session data, and renders
CSV files plus a static HTML health report. A failing data source degrades
the report instead of aborting the run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if language != "" {
			cfg.Settings.Language = language
		}
		if logLevel != "" {
			cfg.Settings.LogLevel = logLevel
		}

		log = logger.NewWithConfig(cfg)

		if cfgFile == "" {
			log.Debug("config_not_found").Send()
		} else {
			log.Info("config_loaded").Str("file", cfgFile).Send()
		}

		log.Info("app_started").
			Str("version", "v0.1.0").
			Str("language", cfg.Settings.Language).
			Send()

		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (default: ~/.spyglass/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "log language (en-US plus any locales/*.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/capt-harlock/spyglass/internal/orchestrator"
	"github.com/capt-harlock/spyglass/internal/provider"
	"github.com/capt-harlock/spyglass/internal/webhook"
	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/spf13/cobra"
)

var (
	providerName      string
	outputFolder      string
	sessionWindowDays int
	skipHTMLReport    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the health-check pipeline and write CSV/HTML reports",
	Long: `Fetches modules, license, jobs, repositories, proxies and sessions from
the selected provider, normalizes and aggregates them, and writes one CSV
per section plus a styled HTML report. Per-section failures are recorded
in the output, not fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	reportCmd.Flags().StringVar(&providerName, "provider", "", "provider to query (default: first enabled provider)")
	reportCmd.Flags().StringVar(&outputFolder, "output-folder", "", "folder for CSV and HTML output")
	reportCmd.Flags().IntVar(&sessionWindowDays, "session-window-days", 0, "session history window in days (default 7)")
	reportCmd.Flags().BoolVar(&skipHTMLReport, "skip-html-report", false, "write CSV files only")
}

func runReport(cmd *cobra.Command) error {
	manager := provider.NewManager(log)
	for _, providerConfig := range cfg.Providers {
		if err := manager.AddProvider(&providerConfig); err != nil {
			log.Warn("provider_add_failed").
				Str("provider", providerConfig.Name).
				Err(err).
				Send()
		}
	}

	if manager.GetProviderCount() == 0 {
		log.Error("no_providers_configured").Send()
		return fmt.Errorf("no providers configured")
	}

	selected, err := selectProvider(manager)
	if err != nil {
		return err
	}

	options := orchestrator.Options{
		OutputFolder:    cfg.Report.OutputFolder,
		WindowDays:      cfg.Report.SessionWindowDays,
		SkipHTML:        cfg.Report.SkipHTML,
		PrimaryModule:   cfg.Report.PrimaryModule,
		ProviderTimeout: time.Duration(cfg.Settings.ProviderTimeoutSeconds) * time.Second,
	}
	if outputFolder != "" {
		options.OutputFolder = outputFolder
	}
	if sessionWindowDays > 0 {
		options.WindowDays = sessionWindowDays
	}
	if cmd.Flags().Changed("skip-html-report") {
		options.SkipHTML = skipHTMLReport
	}

	ctx := context.Background()

	run, err := orchestrator.New(selected, log, options).Run(ctx)
	if err != nil {
		// The only fatal path: the output folder could not be created.
		return err
	}

	notifyWebhook(ctx, run)

	return nil
}

func selectProvider(manager *provider.Manager) (provider.Provider, error) {
	if providerName != "" {
		return manager.GetProvider(providerName)
	}

	for _, providerConfig := range cfg.Providers {
		if providerConfig.Enabled {
			return manager.GetProvider(providerConfig.Name)
		}
	}

	return nil, fmt.Errorf("no enabled provider found")
}

func notifyWebhook(ctx context.Context, run *types.RunReport) {
	if !cfg.Webhooks.Discord.Enabled || cfg.Webhooks.Discord.URL == "" {
		log.Debug("webhook_disabled").Send()
		return
	}

	log.Info("webhook_sending").Send()

	discord := webhook.NewDiscordWebhook(cfg.Webhooks.Discord, log)
	if err := discord.SendRunSummary(ctx, run); err != nil {
		log.Warn("webhook_failed").Err(err).Send()
		return
	}

	log.Info("webhook_sent").Send()
}

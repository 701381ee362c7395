package cli

import (
	"context"

	"github.com/capt-harlock/spyglass/internal/provider"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Health-check the configured providers",
	Long:  "Constructs every enabled provider and verifies it can be reached.",
	RunE: func(cmd *cobra.Command, args []string) error {
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
			log.Warn("no_providers_configured").Send()
			return nil
		}

		log.Info("provider_health_check").
			Int("providers", manager.GetProviderCount()).
			Send()

		if err := manager.HealthCheck(context.Background()); err != nil {
			log.Warn("operation_failed").Err(err).Send()
		}

		log.Info("operation_completed").
			Str("operation", "status").
			Send()
		return nil
	},
}

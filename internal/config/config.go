package config

import (
	"os"
	"path/filepath"

	"github.com/capt-harlock/spyglass/pkg/types"
	"gopkg.in/yaml.v3"
)

func Load(configFile string) (*types.Config, error) {
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configFile = filepath.Join(home, ".spyglass", "config.yaml")
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return GetDefaultConfig(), nil
		}
		return nil, err
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func GetDefaultConfig() *types.Config {
	config := &types.Config{
		Providers: []types.ProviderConfig{},
		Report: types.ReportConfig{
			OutputFolder:      defaultOutputFolder(),
			SessionWindowDays: 7,
			SkipHTML:          false,
			PrimaryModule:     "",
		},
		Settings: types.SettingsConfig{
			Language:               "en-US",
			LogLevel:               "info",
			ProviderTimeoutSeconds: 60,
		},
		Webhooks: types.WebhookConfig{
			Discord: types.DiscordWebhookConfig{
				Enabled: false,
				URL:     "",
				Name:    "Spyglass",
			},
		},
	}

	return config
}

func applyDefaults(config *types.Config) {
	if config.Settings.Language == "" {
		config.Settings.Language = "en-US"
	}
	if config.Settings.LogLevel == "" {
		config.Settings.LogLevel = "info"
	}
	if config.Settings.ProviderTimeoutSeconds == 0 {
		config.Settings.ProviderTimeoutSeconds = 60
	}

	if config.Report.OutputFolder == "" {
		config.Report.OutputFolder = defaultOutputFolder()
	}
	if config.Report.SessionWindowDays == 0 {
		config.Report.SessionWindowDays = 7
	}
	if config.Webhooks.Discord.Name == "" {
		config.Webhooks.Discord.Name = "Spyglass"
	}
}

func defaultOutputFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "reports"
	}
	return filepath.Join(home, ".spyglass", "reports")
}

func Save(config *types.Config, configFile string) error {
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configDir := filepath.Join(home, ".spyglass")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return err
		}
		configFile = filepath.Join(configDir, "config.yaml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configFile, data, 0644)
}

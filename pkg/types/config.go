package types

type ProviderConfig struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Enabled      bool     `yaml:"enabled"`
	SnapshotFile string   `yaml:"snapshot_file,omitempty"`
	Region       string   `yaml:"region,omitempty"`
	AccessKey    string   `yaml:"access_key,omitempty"`
	SecretKey    string   `yaml:"secret_key,omitempty"`
	Profiles     []string `yaml:"profiles,omitempty"`
	Context      string   `yaml:"context,omitempty"`
	Namespace    string   `yaml:"namespace,omitempty"`
}

type ReportConfig struct {
	OutputFolder      string `yaml:"output_folder"`
	SessionWindowDays int    `yaml:"session_window_days"`
	SkipHTML          bool   `yaml:"skip_html"`
	PrimaryModule     string `yaml:"primary_module"`
}

type SettingsConfig struct {
	Language               string `yaml:"language"`
	LogLevel               string `yaml:"log_level"`
	ProviderTimeoutSeconds int    `yaml:"provider_timeout_seconds"`
}

type DiscordWebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Name    string `yaml:"name"`
	Avatar  string `yaml:"avatar,omitempty"`
}

type WebhookConfig struct {
	Discord DiscordWebhookConfig `yaml:"discord"`
}

type Config struct {
	Providers []ProviderConfig `yaml:"providers"`
	Report    ReportConfig     `yaml:"report"`
	Settings  SettingsConfig   `yaml:"settings"`
	Webhooks  WebhookConfig    `yaml:"webhooks"`
}

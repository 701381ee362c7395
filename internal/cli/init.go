package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an initial Spyglass configuration file",
	Long:  "Creates a commented configuration file at ~/.spyglass/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Error("operation_failed").Err(err).Send()
		return err
	}

	configDir := filepath.Join(home, ".spyglass")
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		log.Error("operation_failed").Err(err).Send()
		return err
	}

	exampleConfig := `providers:
  - name: "collector-dump"
    type: "snapshot"  # snapshot, awsbackup, velero
    enabled: true
    snapshot_file: "/var/lib/spyglass/snapshot.yaml"

  # - name: "aws"
  #   type: "awsbackup"
  #   enabled: true
  #   region: "us-east-1"
  #   profiles: ["default"]  # or access_key/secret_key

  # - name: "velero"
  #   type: "velero"
  #   enabled: true
  #   context: ""  # leave empty for the current kubeconfig context
  #   namespace: "velero"

report:
  output_folder: ""  # default: ~/.spyglass/reports
  session_window_days: 7
  skip_html: false
  primary_module: ""  # license section requires this module to be installed

settings:
  language: "en-US"  # en-US plus any locales/*.yaml
  log_level: "info"  # debug, info, warn, error
  provider_timeout_seconds: 60

webhooks:
  discord:
    enabled: false
    url: ""
    name: "Spyglass"
`

	if _, err := os.Stat(configFile); err == nil {
		log.Warn("config_loaded").Str("file", configFile).Str("note", "already exists, not overwriting").Send()
		return nil
	}

	if err := os.WriteFile(configFile, []byte(exampleConfig), 0644); err != nil {
		log.Error("operation_failed").Err(err).Send()
		return err
	}

	log.Info("config_written").Str("file", configFile).Send()
	log.Info("operation_completed").Str("operation", "init").Send()

	return nil
}

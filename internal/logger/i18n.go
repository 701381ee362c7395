package logger

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LocaleMessages struct {
	Messages map[string]string `yaml:"messages"`
}

func loadLocaleMessages(language string) (map[string]string, error) {
	filename := language + ".yaml"

	localeFile := filepath.Join("locales", filename)

	data, err := os.ReadFile(localeFile)
	if err != nil {
		return getEmbeddedMessages(language), nil
	}

	var locale LocaleMessages
	if err := yaml.Unmarshal(data, &locale); err != nil {
		return getEmbeddedMessages(language), nil
	}

	return locale.Messages, nil
}

// Only en-US ships embedded; other languages come from locales/*.yaml.
func getEmbeddedMessages(language string) map[string]string {
	return map[string]string{
		"app_started":                   "Spyglass started",
		"config_not_found":              "Configuration file not found, using defaults",
		"config_loaded":                 "Configuration loaded",
		"config_written":                "Configuration file written",
		"run_started":                   "Health-check run started",
		"run_completed":                 "Health-check run completed",
		"provider_added":                "Provider added",
		"provider_add_failed":           "Failed to add provider",
		"provider_disabled":             "Provider disabled, skipping",
		"no_providers_configured":       "No providers configured",
		"provider_health_check":         "Checking provider health",
		"provider_healthy":              "Provider healthy",
		"provider_unhealthy":            "Provider health check failed",
		"fetch_started":                 "Fetching entity records",
		"fetch_completed":               "Entity records fetched",
		"fetch_failed":                  "Entity fetch failed",
		"fetch_skipped":                 "Entity fetch skipped",
		"record_skipped":                "Malformed record skipped",
		"normalized_records":            "Records normalized",
		"sessions_aggregated":           "Session window aggregated",
		"csv_written":                   "CSV file written",
		"csv_write_failed":              "CSV write failed",
		"html_report_generated":         "HTML report generated",
		"html_report_failed":            "HTML report generation failed",
		"html_report_skipped":           "HTML report skipped",
		"output_folder_ready":           "Output folder ready",
		"output_folder_failed":          "Failed to create output folder",
		"section_status":                "Section status",
		"license_check_skipped":         "License check skipped",
		"webhook_sending":               "Sending webhook notification",
		"webhook_sent":                  "Webhook notification sent",
		"webhook_failed":                "Webhook notification failed",
		"webhook_disabled":              "Webhook notifications disabled",
		"snapshot_loading":              "Loading snapshot file",
		"snapshot_loaded":               "Snapshot file loaded",
		"aws_using_credentials":         "Using static AWS credentials",
		"aws_using_profiles":            "Using AWS shared config profiles",
		"aws_trying_profile":            "Trying AWS profile",
		"aws_profile_success":           "AWS profile loaded",
		"aws_profile_failed":            "AWS profile failed",
		"aws_using_default_credentials": "Using AWS default credential chain",
		"velero_connecting":             "Connecting to Kubernetes cluster",
		"velero_connected":              "Connected to Kubernetes cluster",
		"velero_connection_failed":      "Failed to connect to Kubernetes cluster",
		"operation_completed":           "Operation completed",
		"operation_failed":              "Operation failed",
	}
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
)

type DiscordWebhook struct {
	url    string
	name   string
	avatar string
	logger *logger.Logger
	client *http.Client
}

type DiscordMessage struct {
	Username  string         `json:"username,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Content   string         `json:"content,omitempty"`
	Embeds    []DiscordEmbed `json:"embeds,omitempty"`
}

type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type DiscordEmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

func NewDiscordWebhook(config types.DiscordWebhookConfig, logger *logger.Logger) *DiscordWebhook {
	name := config.Name
	if name == "" {
		name = "Spyglass"
	}

	return &DiscordWebhook{
		url:    config.URL,
		name:   name,
		avatar: config.Avatar,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendRunSummary posts the outcome of one health-check run. A run with
// failed sections gets the warning color; the notification itself never
// fails the run.
func (d *DiscordWebhook) SendRunSummary(ctx context.Context, run *types.RunReport) error {
	title := "Backup Health Report"
	color := 0x2a5298

	failedSections := sectionsInState(run.Statuses, types.SectionFailed)
	if len(failedSections) > 0 {
		title = "Backup Health Report (partial)"
		color = 0xff6600
	}

	fields := []DiscordEmbedField{
		{
			Name:   "Host",
			Value:  run.Host,
			Inline: true,
		},
		{
			Name:   "Provider",
			Value:  run.Provider,
			Inline: true,
		},
	}

	if run.Summary != nil {
		fields = append(fields, DiscordEmbedField{
			Name: fmt.Sprintf("Sessions (last %d days)", run.Summary.WindowDays),
			Value: fmt.Sprintf("**Total:** %d\n**Success:** %d\n**Warnings:** %d\n**Failed:** %d\n**Running:** %d\n**Success rate:** %.2f%%",
				run.Summary.Total, run.Summary.Successful, run.Summary.Warnings,
				run.Summary.Failed, run.Summary.Running, run.Summary.SuccessRate),
			Inline: false,
		})

		if run.Summary.Failed > 0 {
			color = 0xff0000
		}
	}

	if len(failedSections) > 0 {
		fields = append(fields, DiscordEmbedField{
			Name:   "Failed Sections",
			Value:  "```\n" + strings.Join(failedSections, "\n") + "\n```",
			Inline: false,
		})
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: fmt.Sprintf("%d CSV file(s) written", len(run.CSVFiles)),
		Color:       color,
		Fields:      fields,
		Footer: &DiscordEmbedFooter{
			Text: "Spyglass",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	message := DiscordMessage{
		Username:  d.name,
		AvatarURL: d.avatar,
		Embeds:    []DiscordEmbed{embed},
	}

	return d.send(ctx, message)
}

func (d *DiscordWebhook) send(ctx context.Context, message DiscordMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize Discord message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create Discord request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Discord returned status %d", resp.StatusCode)
	}

	d.logger.Debug("webhook_sent").
		Int("status_code", resp.StatusCode).
		Send()

	return nil
}

func sectionsInState(statuses []types.SectionStatus, state types.SectionState) []string {
	var names []string
	for _, status := range statuses {
		if status.State == state {
			names = append(names, string(status.Kind))
		}
	}
	return names
}

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repositoryRow(name, freePercentage string) *types.Row {
	columns := []string{"Name", "FreePercentage", "IsUnavailable"}
	row := types.NewRow(columns)
	row.Set("Name", name)
	row.Set("FreePercentage", freePercentage)
	row.Set("IsUnavailable", "False")
	return row
}

func TestHTMLReporter_render(t *testing.T) {
	run := &types.RunReport{
		Provider: "collector-dump",
		Host:     "VBR01",
		Sections: []*types.Section{
			{
				Kind:  types.KindRepositories,
				Title: "Backup Repositories",
				Rows: []*types.Row{
					repositoryRow("low-space", "9.99"),
					repositoryRow("tight-space", "19.99"),
					repositoryRow("healthy", "20.00"),
				},
			},
			{
				Kind:  types.KindProxies,
				Title: "Backup Proxies",
				Rows:  nil,
			},
		},
		Summary: &types.SessionSummary{
			WindowDays:  7,
			Total:       10,
			Successful:  7,
			Warnings:    1,
			Failed:      2,
			SuccessRate: 70,
		},
		Statuses: []types.SectionStatus{
			{Kind: types.KindRepositories, State: types.SectionOK},
			{Kind: types.KindProxies, State: types.SectionOK},
			{Kind: types.KindSessions, State: types.SectionFailed, Err: assertableError("boom")},
		},
	}

	reporter := NewHTMLReporter(logger.NewTest())
	html, err := reporter.Render(run, time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, html, "VBR01")
	assert.Contains(t, html, "collector-dump")
	assert.Contains(t, html, "Backup Repositories")

	// Empty sections are omitted, not rendered as empty tables.
	assert.NotContains(t, html, "Backup Proxies")

	assert.Contains(t, html, `<span class="badge error">9.99</span>`)
	assert.Contains(t, html, `<span class="badge warning">19.99</span>`)
	assert.NotContains(t, html, `<span class="badge error">20.00</span>`)
	assert.NotContains(t, html, `<span class="badge warning">20.00</span>`)
	assert.Contains(t, html, "<td>20.00</td>")

	assert.Contains(t, html, "70.00%")
	assert.Contains(t, html, "Run Status")
	assert.Contains(t, html, "boom")
}

func TestHTMLReporter_noSummaryOmitsStatCards(t *testing.T) {
	run := &types.RunReport{
		Provider: "aws",
		Host:     "aws:123456789012:us-east-1",
		Sections: []*types.Section{
			{
				Kind:  types.KindRepositories,
				Title: "Backup Repositories",
				Rows:  []*types.Row{repositoryRow("vault", "0.00")},
			},
		},
	}

	reporter := NewHTMLReporter(logger.NewTest())
	html, err := reporter.Render(run, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, html, `<div class="stats-grid">`)
	assert.Contains(t, html, "Backup Repositories")
}

func TestHTMLReporter_generateReportWritesFile(t *testing.T) {
	run := &types.RunReport{
		Provider: "collector-dump",
		Host:     "VBR01",
		Sections: []*types.Section{
			{
				Kind:  types.KindRepositories,
				Title: "Backup Repositories",
				Rows:  []*types.Row{repositoryRow("main", "55.00")},
			},
		},
	}

	dir := t.TempDir()
	reporter := NewHTMLReporter(logger.NewTest())

	path, err := reporter.GenerateReport(run, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".html"))
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

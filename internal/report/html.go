package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
)

type HTMLReporter struct {
	logger *logger.Logger
	rules  []StyleRule
}

func NewHTMLReporter(logger *logger.Logger) *HTMLReporter {
	return &HTMLReporter{
		logger: logger,
		rules:  DefaultStyleRules(),
	}
}

type reportData struct {
	Title      string
	Host       string
	Provider   string
	Timestamp  string
	WindowDays int
	HasSummary bool
	Summary    *types.SessionSummary
	Sections   []sectionData
	Statuses   []statusData
}

type sectionData struct {
	Title   string
	Columns []string
	Rows    [][]cellData
}

type cellData struct {
	Value string
	Class string
}

type statusData struct {
	Section string
	State   string
	Class   string
	Detail  string
}

// GenerateReport renders the run into a timestamped HTML file under
// outputFolder and returns its path.
func (r *HTMLReporter) GenerateReport(run *types.RunReport, outputFolder string) (string, error) {
	timestamp := time.Now()
	filename := fmt.Sprintf("spyglass-report-%s.html", timestamp.Format("2006-01-02_15-04-05"))
	reportPath := filepath.Join(outputFolder, filename)

	htmlContent, err := r.Render(run, timestamp)
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	if err := os.WriteFile(reportPath, []byte(htmlContent), 0644); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	r.logger.Info("html_report_generated").
		Str("file", reportPath).
		Str("host", run.Host).
		Send()

	return reportPath, nil
}

// Render composes the full document: fixed shell, stat cards when a session
// summary exists, one table per non-empty section in section order. Empty
// sections are omitted entirely.
func (r *HTMLReporter) Render(run *types.RunReport, timestamp time.Time) (string, error) {
	data := r.buildReportData(run, timestamp)

	t, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (r *HTMLReporter) buildReportData(run *types.RunReport, timestamp time.Time) reportData {
	data := reportData{
		Title:      "Spyglass Health Report",
		Host:       run.Host,
		Provider:   run.Provider,
		Timestamp:  timestamp.Format("2006-01-02 15:04:05"),
		HasSummary: run.Summary != nil,
		Summary:    run.Summary,
	}
	if run.Summary != nil {
		data.WindowDays = run.Summary.WindowDays
	}

	for _, section := range run.Sections {
		if len(section.Rows) == 0 {
			continue
		}
		data.Sections = append(data.Sections, r.buildSectionData(section))
	}

	for _, status := range run.Statuses {
		data.Statuses = append(data.Statuses, buildStatusData(status))
	}

	return data
}

func (r *HTMLReporter) buildSectionData(section *types.Section) sectionData {
	columns := section.Rows[0].Columns()

	rows := make([][]cellData, 0, len(section.Rows))
	for _, row := range section.Rows {
		cells := make([]cellData, 0, len(columns))
		for _, column := range columns {
			value := row.Get(column)
			cells = append(cells, cellData{
				Value: value,
				Class: ApplyStyleRules(r.rules, column, value),
			})
		}
		rows = append(rows, cells)
	}

	return sectionData{
		Title:   section.Title,
		Columns: columns,
		Rows:    rows,
	}
}

func buildStatusData(status types.SectionStatus) statusData {
	data := statusData{
		Section: string(status.Kind),
		State:   string(status.State),
	}

	switch status.State {
	case types.SectionOK:
		data.Class = StyleSuccess
		if status.RecordsSkipped > 0 {
			data.Detail = fmt.Sprintf("%d malformed record(s) skipped", status.RecordsSkipped)
			data.Class = StyleWarning
		}
	case types.SectionSkipped:
		data.Class = StyleWarning
		data.Detail = status.Reason
	case types.SectionFailed:
		data.Class = StyleError
		if status.Err != nil {
			data.Detail = status.Err.Error()
		}
	}

	return data
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - {{.Timestamp}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background: #f5f7fa; color: #333; line-height: 1.6; }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #1e3c72 0%, #2a5298 100%); color: white; padding: 30px; border-radius: 10px; margin-bottom: 30px; box-shadow: 0 10px 30px rgba(0,0,0,0.1); }
        .header h1 { font-size: 2.5rem; margin-bottom: 10px; text-shadow: 2px 2px 4px rgba(0,0,0,0.3); }
        .header p { font-size: 1.1rem; opacity: 0.9; }
        .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .stat-card { background: white; padding: 25px; border-radius: 10px; box-shadow: 0 5px 15px rgba(0,0,0,0.08); border-left: 5px solid #2a5298; }
        .stat-card h3 { color: #2a5298; font-size: 2rem; margin-bottom: 5px; }
        .stat-card p { color: #666; font-weight: 500; }
        .section { background: white; margin-bottom: 30px; border-radius: 10px; overflow: hidden; box-shadow: 0 5px 15px rgba(0,0,0,0.08); }
        .section-header { background: #2a5298; color: white; padding: 20px; font-size: 1.3rem; font-weight: 600; }
        .section-content { padding: 25px; }
        .table { width: 100%; border-collapse: collapse; margin-top: 10px; }
        .table th, .table td { padding: 12px; text-align: left; border-bottom: 1px solid #eee; }
        .table th { background: #f8f9fa; font-weight: 600; color: #333; }
        .table tr:hover { background: #f8f9fa; }
        .badge { padding: 4px 12px; border-radius: 20px; font-size: 0.85rem; font-weight: 500; }
        .badge.success { background: #d4edda; color: #155724; }
        .badge.warning { background: #fff3cd; color: #856404; }
        .badge.error { background: #f8d7da; color: #721c24; }
        .footer { text-align: center; padding: 30px; color: #666; border-top: 1px solid #eee; margin-top: 30px; }
        @media (max-width: 768px) { .stats-grid { grid-template-columns: 1fr; } .table { font-size: 0.9rem; } }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Host: {{.Host}} | Provider: {{.Provider}} | Generated: {{.Timestamp}}</p>
        </div>

        {{if .HasSummary}}
        <div class="stats-grid">
            <div class="stat-card">
                <h3>{{.Summary.Total}}</h3>
                <p>Sessions (last {{.WindowDays}} days)</p>
            </div>
            <div class="stat-card">
                <h3>{{.Summary.Successful}}</h3>
                <p>Successful</p>
            </div>
            <div class="stat-card">
                <h3>{{.Summary.Warnings}}</h3>
                <p>Warnings</p>
            </div>
            <div class="stat-card">
                <h3>{{.Summary.Failed}}</h3>
                <p>Failed</p>
            </div>
            <div class="stat-card">
                <h3>{{.Summary.Running}}</h3>
                <p>Running</p>
            </div>
            <div class="stat-card">
                <h3>{{printf "%.2f%%" .Summary.SuccessRate}}</h3>
                <p>Success Rate</p>
            </div>
        </div>
        {{end}}

        {{range .Sections}}
        <div class="section">
            <div class="section-header">{{.Title}}</div>
            <div class="section-content">
                <table class="table">
                    <thead>
                        <tr>
                            {{range .Columns}}<th>{{.}}</th>{{end}}
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Rows}}
                        <tr>
                            {{range .}}{{if .Class}}<td><span class="badge {{.Class}}">{{.Value}}</span></td>{{else}}<td>{{.Value}}</td>{{end}}{{end}}
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
        {{end}}

        {{if .Statuses}}
        <div class="section">
            <div class="section-header">Run Status</div>
            <div class="section-content">
                <table class="table">
                    <thead>
                        <tr>
                            <th>Section</th>
                            <th>Status</th>
                            <th>Detail</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Statuses}}
                        <tr>
                            <td>{{.Section}}</td>
                            <td><span class="badge {{.Class}}">{{.State}}</span></td>
                            <td>{{.Detail}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
        {{end}}

        <div class="footer">
            <p><strong>Spyglass</strong> | Backup health report generated automatically</p>
        </div>
    </div>
</body>
</html>`

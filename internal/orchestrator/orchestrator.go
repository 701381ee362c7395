package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/capt-harlock/spyglass/internal/aggregate"
	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/internal/normalize"
	"github.com/capt-harlock/spyglass/internal/provider"
	"github.com/capt-harlock/spyglass/internal/report"
	"github.com/capt-harlock/spyglass/pkg/types"
)

// Options control one report run.
type Options struct {
	OutputFolder    string
	WindowDays      int
	SkipHTML        bool
	PrimaryModule   string
	ProviderTimeout time.Duration
}

// Orchestrator sequences provider fetches, normalization, aggregation and
// the report sinks. Every per-section failure is recorded and isolated so a
// broken data source degrades the report instead of aborting the run; the
// only fatal condition is an output folder that cannot be created.
type Orchestrator struct {
	provider   provider.Provider
	normalizer *normalize.Normalizer
	csv        *report.CSVWriter
	html       *report.HTMLReporter
	logger     *logger.Logger
	options    Options
}

func New(p provider.Provider, log *logger.Logger, options Options) *Orchestrator {
	if options.WindowDays <= 0 {
		options.WindowDays = 7
	}
	if options.ProviderTimeout <= 0 {
		options.ProviderTimeout = 60 * time.Second
	}

	return &Orchestrator{
		provider:   p,
		normalizer: normalize.New(),
		csv:        report.NewCSVWriter(log),
		html:       report.NewHTMLReporter(log),
		logger:     log,
		options:    options,
	}
}

// fetchOutcome is the result of one entity fetch plus normalization.
type fetchOutcome struct {
	section *types.Section
	status  types.SectionStatus
}

func (o *Orchestrator) Run(ctx context.Context) (*types.RunReport, error) {
	if err := os.MkdirAll(o.options.OutputFolder, 0755); err != nil {
		o.logger.Error("output_folder_failed").
			Str("folder", o.options.OutputFolder).
			Err(err).
			Send()
		return nil, fmt.Errorf("creating output folder %s: %w", o.options.OutputFolder, err)
	}
	o.logger.Debug("output_folder_ready").
		Str("folder", o.options.OutputFolder).
		Send()

	run := &types.RunReport{
		Provider: o.provider.GetName(),
		Host:     o.hostIdentifier(),
	}

	o.logger.Info("run_started").
		Str("provider", run.Provider).
		Str("host", run.Host).
		Int("window_days", o.options.WindowDays).
		Send()

	since := time.Now().AddDate(0, 0, -o.options.WindowDays)

	modules := o.fetchSection(ctx, types.KindModules, provider.Filter{})
	o.record(run, modules)

	if reason, ok := o.licenseGuard(modules); ok {
		o.record(run, o.fetchSection(ctx, types.KindLicense, provider.Filter{}))
	} else {
		o.logger.Warn("license_check_skipped").
			Str("reason", reason).
			Send()
		o.record(run, fetchOutcome{status: types.SectionStatus{
			Kind:   types.KindLicense,
			State:  types.SectionSkipped,
			Reason: reason,
		}})
	}

	o.record(run, o.fetchSection(ctx, types.KindJobs, provider.Filter{}))
	o.record(run, o.fetchSection(ctx, types.KindRepositories, provider.Filter{}))
	o.record(run, o.fetchSection(ctx, types.KindProxies, provider.Filter{}))

	sessions := o.fetchSection(ctx, types.KindSessions, provider.Filter{Since: since})
	o.record(run, sessions)

	if sessions.status.State == types.SectionOK {
		run.Summary = aggregate.Summarize(sessions.section.Rows, o.options.WindowDays)
		o.logger.Info("sessions_aggregated").
			Int("total", run.Summary.Total).
			Float64("success_rate", run.Summary.SuccessRate).
			Send()
	}

	o.writeCSVs(run)

	if o.options.SkipHTML {
		o.logger.Info("html_report_skipped").Send()
	} else {
		path, err := o.html.GenerateReport(run, o.options.OutputFolder)
		if err != nil {
			o.logger.Error("html_report_failed").Err(err).Send()
			run.SinkErrs = append(run.SinkErrs, err)
		} else {
			run.HTMLFile = path
		}
	}

	for _, status := range run.Statuses {
		event := o.logger.Info("section_status").
			Str("section", string(status.Kind)).
			Str("state", string(status.State))
		if status.Reason != "" {
			event = event.Str("reason", status.Reason)
		}
		if status.Err != nil {
			event = event.Err(status.Err)
		}
		if status.RecordsSkipped > 0 {
			event = event.Int("records_skipped", status.RecordsSkipped)
		}
		event.Send()
	}

	o.logger.Info("run_completed").
		Str("provider", run.Provider).
		Int("csv_files", len(run.CSVFiles)).
		Int("sink_errors", len(run.SinkErrs)).
		Send()

	return run, nil
}

func (o *Orchestrator) record(run *types.RunReport, outcome fetchOutcome) {
	if outcome.section != nil {
		run.Sections = append(run.Sections, outcome.section)
	}
	run.Statuses = append(run.Statuses, outcome.status)
}

func (o *Orchestrator) fetchSection(ctx context.Context, kind types.EntityKind, filter provider.Filter) fetchOutcome {
	o.logger.Debug("fetch_started").
		Str("kind", string(kind)).
		Send()

	fetchCtx, cancel := context.WithTimeout(ctx, o.options.ProviderTimeout)
	defer cancel()

	records, err := o.provider.Fetch(fetchCtx, kind, filter)
	if err != nil {
		if errors.Is(err, provider.ErrUnsupportedKind) {
			o.logger.Info("fetch_skipped").
				Str("kind", string(kind)).
				Str("provider", o.provider.GetName()).
				Send()
			return fetchOutcome{status: types.SectionStatus{
				Kind:   kind,
				State:  types.SectionSkipped,
				Reason: fmt.Sprintf("not supported by provider %s", o.provider.GetName()),
			}}
		}

		o.logger.Error("fetch_failed").
			Str("kind", string(kind)).
			Err(err).
			Send()
		return fetchOutcome{status: types.SectionStatus{
			Kind:  kind,
			State: types.SectionFailed,
			Err:   err,
		}}
	}

	rows, skipped := o.normalizer.NormalizeAll(kind, records)
	if skipped > 0 {
		o.logger.Warn("record_skipped").
			Str("kind", string(kind)).
			Int("skipped", skipped).
			Send()
	}

	o.logger.Debug("normalized_records").
		Str("kind", string(kind)).
		Int("rows", len(rows)).
		Send()

	return fetchOutcome{
		section: &types.Section{
			Kind:  kind,
			Title: o.sectionTitle(kind),
			Rows:  rows,
		},
		status: types.SectionStatus{
			Kind:           kind,
			State:          types.SectionOK,
			RecordsSkipped: skipped,
		},
	}
}

func (o *Orchestrator) sectionTitle(kind types.EntityKind) string {
	if kind == types.KindSessions {
		return fmt.Sprintf("%s (Last %d Days)", normalize.Title(kind), o.options.WindowDays)
	}
	return normalize.Title(kind)
}

// licenseGuard decides whether the license fetch may run: the module check
// must have succeeded and the primary module (or, with no primary module
// configured, any module) must report as installed.
func (o *Orchestrator) licenseGuard(modules fetchOutcome) (string, bool) {
	if modules.status.State != types.SectionOK {
		return "module check did not succeed", false
	}

	for _, row := range modules.section.Rows {
		if row.Get("Installed") != "True" {
			continue
		}
		if o.options.PrimaryModule == "" || row.Get("Name") == o.options.PrimaryModule {
			return "", true
		}
	}

	if o.options.PrimaryModule != "" {
		return fmt.Sprintf("primary module %s not installed", o.options.PrimaryModule), false
	}
	return "no installed modules reported", false
}

func (o *Orchestrator) writeCSVs(run *types.RunReport) {
	for _, section := range run.Sections {
		destination := filepath.Join(o.options.OutputFolder, fmt.Sprintf("%s.csv", section.Kind))
		if err := o.csv.Write(normalize.Columns(section.Kind), section.Rows, destination); err != nil {
			run.SinkErrs = append(run.SinkErrs, err)
			continue
		}
		run.CSVFiles = append(run.CSVFiles, destination)
	}

	if run.Summary != nil {
		destination := filepath.Join(o.options.OutputFolder, "summary.csv")
		rows := []*types.Row{aggregate.SummaryRow(run.Summary)}
		if err := o.csv.Write(aggregate.SummaryColumns, rows, destination); err != nil {
			run.SinkErrs = append(run.SinkErrs, err)
		} else {
			run.CSVFiles = append(run.CSVFiles, destination)
		}
	}
}

// hostIdentifier prefers a provider-supplied identity (snapshot host, AWS
// account) over the local hostname.
func (o *Orchestrator) hostIdentifier() string {
	if h, ok := o.provider.(interface{ Host() string }); ok {
		if host := h.Host(); host != "" {
			return host
		}
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

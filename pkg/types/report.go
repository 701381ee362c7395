package types

// EntityKind identifies one of the record sets a provider can return.
type EntityKind string

const (
	KindModules      EntityKind = "modules"
	KindLicense      EntityKind = "license"
	KindJobs         EntityKind = "jobs"
	KindRepositories EntityKind = "repositories"
	KindProxies      EntityKind = "proxies"
	KindSessions     EntityKind = "sessions"
)

// RawRecord is the provider-specific key/value bag for one entity instance.
// It is consumed by the normalizer and never crosses further into the core.
type RawRecord map[string]any

// Row is one normalized report row: a fixed ordered column set with every
// cell already rendered to its final token. Absent source values are
// rendered as explicit sentinels, never as empty cells.
type Row struct {
	columns []string
	cells   map[string]string
}

func NewRow(columns []string) *Row {
	cells := make(map[string]string, len(columns))
	return &Row{columns: columns, cells: cells}
}

func (r *Row) Set(column, value string) {
	r.cells[column] = value
}

func (r *Row) Get(column string) string {
	return r.cells[column]
}

func (r *Row) Columns() []string {
	return r.columns
}

// Values returns the cells in column order.
func (r *Row) Values() []string {
	values := make([]string, 0, len(r.columns))
	for _, column := range r.columns {
		values = append(values, r.cells[column])
	}
	return values
}

// Section is a named, ordered list of rows; the unit the HTML sink renders
// as one table and the CSV sink writes as one file.
type Section struct {
	Kind  EntityKind
	Title string
	Rows  []*Row
}

// SessionSummary aggregates session rows for a report window. Buckets are
// not mutually exclusive: a running session with warnings counts in both.
type SessionSummary struct {
	WindowDays  int
	Total       int
	Successful  int
	Warnings    int
	Failed      int
	Running     int
	SuccessRate float64
}

// SectionState is the terminal status of one report section after a run.
type SectionState string

const (
	SectionOK      SectionState = "ok"
	SectionSkipped SectionState = "skipped"
	SectionFailed  SectionState = "failed"
)

type SectionStatus struct {
	Kind           EntityKind
	State          SectionState
	Reason         string
	Err            error
	RecordsSkipped int
}

// RunReport is everything a single orchestrator run produced.
type RunReport struct {
	Provider string
	Host     string
	Sections []*Section
	Summary  *SessionSummary
	Statuses []SectionStatus
	CSVFiles []string
	HTMLFile string
	SinkErrs []error
}

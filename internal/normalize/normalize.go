package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/capt-harlock/spyglass/pkg/utils"
)

// Sentinel tokens. Consumers always see one of these for an absent optional
// value, never an empty cell.
const (
	SentinelNA           = "N/A"
	SentinelNotScheduled = "Not Scheduled"
	SentinelNeverRun     = "Never Run"
	SentinelRunning      = "Running or Failed"
	SentinelPerpetual    = "Perpetual"
)

// MalformedRecordError marks a single raw record that cannot be normalized.
// The orchestrator skips the record and keeps going.
type MalformedRecordError struct {
	Kind   types.EntityKind
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Kind, e.Reason)
}

type fieldKind int

const (
	fieldString fieldKind = iota
	fieldBool
	fieldInt
	fieldGigabytes
	fieldRatio
	fieldTimestamp
	fieldDuration
	fieldFreePercent
	fieldDaysRemaining
)

// field is one column of a projection: where it comes from, how it is
// transformed and what token stands in when the source is absent.
type field struct {
	column   string
	source   string
	source2  string
	kind     fieldKind
	sentinel string
	identity bool
}

var projections = map[types.EntityKind][]field{
	types.KindModules: {
		{column: "Name", source: "Name", identity: true},
		{column: "Version", source: "Version", sentinel: SentinelNA},
		{column: "Installed", source: "Installed", kind: fieldBool},
	},
	types.KindLicense: {
		{column: "LicensedTo", source: "LicensedTo", identity: true},
		{column: "Edition", source: "Edition", sentinel: SentinelNA},
		{column: "Type", source: "Type", sentinel: SentinelNA},
		{column: "LicenseStatus", source: "Status", sentinel: SentinelNA},
		{column: "ExpirationDate", source: "ExpirationDate", kind: fieldTimestamp, sentinel: SentinelPerpetual},
		{column: "DaysRemaining", source: "ExpirationDate", kind: fieldDaysRemaining, sentinel: SentinelPerpetual},
		{column: "SupportExpirationDate", source: "SupportExpirationDate", kind: fieldTimestamp, sentinel: SentinelNA},
	},
	types.KindJobs: {
		{column: "Name", source: "Name", identity: true},
		{column: "Type", source: "Type", sentinel: SentinelNA},
		{column: "TargetRepository", source: "TargetRepository", sentinel: SentinelNA},
		{column: "ScheduleSummary", source: "ScheduleSummary", sentinel: SentinelNotScheduled},
		{column: "NextRun", source: "NextRun", kind: fieldTimestamp, sentinel: SentinelNotScheduled},
		{column: "LastResult", source: "LastResult", sentinel: SentinelNeverRun},
		{column: "IsDisabled", source: "IsDisabled", kind: fieldBool},
	},
	types.KindRepositories: {
		{column: "Name", source: "Name", identity: true},
		{column: "Type", source: "Type", sentinel: SentinelNA},
		{column: "Path", source: "Path", sentinel: SentinelNA},
		{column: "TotalGB", source: "TotalSpace", kind: fieldGigabytes},
		{column: "FreeGB", source: "FreeSpace", kind: fieldGigabytes},
		{column: "FreePercentage", source: "FreeSpace", source2: "TotalSpace", kind: fieldFreePercent},
		{column: "IsUnavailable", source: "IsUnavailable", kind: fieldBool},
	},
	types.KindProxies: {
		{column: "Name", source: "Name", identity: true},
		{column: "Type", source: "Type", sentinel: SentinelNA},
		{column: "Host", source: "Host", sentinel: SentinelNA},
		{column: "MaxTasks", source: "MaxTasks", kind: fieldInt},
		{column: "IsDisabled", source: "IsDisabled", kind: fieldBool},
		{column: "IsUnavailable", source: "IsUnavailable", kind: fieldBool},
	},
	types.KindSessions: {
		{column: "JobName", source: "JobName", identity: true},
		{column: "Type", source: "Type", sentinel: SentinelNA},
		{column: "StartTime", source: "CreationTime", kind: fieldTimestamp, sentinel: SentinelNA},
		{column: "EndTime", source: "EndTime", kind: fieldTimestamp, sentinel: SentinelNA},
		{column: "Duration", source: "CreationTime", source2: "EndTime", kind: fieldDuration, sentinel: SentinelRunning},
		{column: "Result", source: "Result", sentinel: "None"},
		{column: "State", source: "State", sentinel: SentinelNA},
		{column: "ProcessedGB", source: "ProcessedSize", kind: fieldGigabytes},
		{column: "TransferredGB", source: "TransferredSize", kind: fieldGigabytes},
		{column: "DedupRatio", source: "DedupRatio", kind: fieldRatio},
		{column: "CompressionRatio", source: "CompressRatio", kind: fieldRatio},
		// Opaque platform flags, passed through without interpretation.
		{column: "IsRetryMode", source: "IsRetryMode", kind: fieldBool},
		{column: "IsWorking", source: "IsWorking", kind: fieldBool},
	},
}

var titles = map[types.EntityKind]string{
	types.KindModules:      "Installed Modules",
	types.KindLicense:      "License Information",
	types.KindJobs:         "Backup Jobs",
	types.KindRepositories: "Backup Repositories",
	types.KindProxies:      "Backup Proxies",
	types.KindSessions:     "Backup Sessions",
}

type Normalizer struct {
	now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock pins the clock, for deterministic DaysRemaining values in
// tests.
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Columns returns the fixed column set for a kind, in projection order.
func Columns(kind types.EntityKind) []string {
	fields := projections[kind]
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, f.column)
	}
	return columns
}

// Title returns the human section title for a kind.
func Title(kind types.EntityKind) string {
	return titles[kind]
}

// Normalize converts one raw record into a report row. A record missing its
// identity field fails with MalformedRecordError; every other absence
// renders the field's sentinel.
func (n *Normalizer) Normalize(kind types.EntityKind, record types.RawRecord) (*types.Row, error) {
	fields, exists := projections[kind]
	if !exists {
		return nil, fmt.Errorf("no projection for entity kind %s", kind)
	}

	row := types.NewRow(Columns(kind))

	for _, f := range fields {
		value, err := n.renderField(f, record)
		if err != nil {
			return nil, &MalformedRecordError{Kind: kind, Reason: err.Error()}
		}
		row.Set(f.column, value)
	}

	return row, nil
}

// NormalizeAll normalizes a record set, skipping malformed records and
// reporting how many were dropped.
func (n *Normalizer) NormalizeAll(kind types.EntityKind, records []types.RawRecord) ([]*types.Row, int) {
	rows := make([]*types.Row, 0, len(records))
	skipped := 0

	for _, record := range records {
		row, err := n.Normalize(kind, record)
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped
}

func (n *Normalizer) renderField(f field, record types.RawRecord) (string, error) {
	switch f.kind {
	case fieldString:
		value, ok := asString(record[f.source])
		if f.identity {
			if !ok || value == "" {
				return "", fmt.Errorf("missing required field %s", f.source)
			}
			return value, nil
		}
		// "None" is how the upstream platforms spell absence.
		if !ok || value == "" || value == "None" {
			return f.sentinel, nil
		}
		return value, nil

	case fieldBool:
		value, _ := asBool(record[f.source])
		return utils.FormatBool(value), nil

	case fieldInt:
		value, ok := asFloat(record[f.source])
		if !ok || value < 0 {
			value = 0
		}
		return strconv.Itoa(int(value)), nil

	case fieldGigabytes:
		value, ok := asFloat(record[f.source])
		if !ok {
			value = 0
		}
		return utils.FormatFloat(utils.BytesToGB(value)), nil

	case fieldRatio:
		value, ok := asFloat(record[f.source])
		if !ok || value <= 0 {
			value = 0
		}
		return utils.FormatFloat(utils.Round2(value)), nil

	case fieldTimestamp:
		value, ok := asTime(record[f.source])
		if !ok {
			return f.sentinel, nil
		}
		return utils.FormatTime(value), nil

	case fieldDuration:
		start, startOK := asTime(record[f.source])
		end, endOK := asTime(record[f.source2])
		if !startOK || !endOK {
			return f.sentinel, nil
		}
		return utils.FormatDuration(end.Sub(start)), nil

	case fieldFreePercent:
		free, freeOK := asFloat(record[f.source])
		total, totalOK := asFloat(record[f.source2])
		if !freeOK || !totalOK {
			return utils.FormatFloat(0), nil
		}
		return utils.FormatFloat(utils.Percentage(free, total)), nil

	case fieldDaysRemaining:
		// Collectors may precompute the value; honor it before deriving.
		if value, ok := asFloat(record["DaysRemaining"]); ok {
			return strconv.Itoa(int(value)), nil
		}
		expiration, ok := asTime(record[f.source])
		if !ok {
			return f.sentinel, nil
		}
		days := int(expiration.Sub(n.now()).Hours() / 24)
		return strconv.Itoa(days), nil
	}

	return "", fmt.Errorf("unknown field kind for column %s", f.column)
}

func asString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case bool:
		return utils.FormatBool(v), true
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float64:
		return utils.FormatFloat(v), true
	}
	return "", false
}

func asBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}

func asFloat(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func asTime(value any) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

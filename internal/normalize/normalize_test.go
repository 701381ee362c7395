package normalize

import (
	"testing"
	"time"

	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_sessionSentinels(t *testing.T) {
	n := New()

	record := types.RawRecord{
		"JobName":      "nightly-sql",
		"CreationTime": time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC),
	}

	row, err := n.Normalize(types.KindSessions, record)
	require.NoError(t, err)

	assert.Equal(t, "nightly-sql", row.Get("JobName"))
	assert.Equal(t, "N/A", row.Get("Type"))
	assert.Equal(t, "N/A", row.Get("EndTime"))
	assert.Equal(t, "Running or Failed", row.Get("Duration"))
	assert.Equal(t, "None", row.Get("Result"))
	assert.Equal(t, "0.00", row.Get("ProcessedGB"))
	assert.Equal(t, "0.00", row.Get("DedupRatio"))
	assert.Equal(t, "False", row.Get("IsRetryMode"))

	for _, column := range row.Columns() {
		assert.NotEmpty(t, row.Get(column), "column %s must never be blank", column)
	}
}

func TestNormalizer_sessionTransforms(t *testing.T) {
	n := New()

	start := time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC)
	end := start.Add(92*time.Minute + 30*time.Second)

	record := types.RawRecord{
		"JobName":         "nightly-sql",
		"Type":            "Backup",
		"CreationTime":    start,
		"EndTime":         end,
		"Result":          "Success",
		"State":           "Stopped",
		"ProcessedSize":   int64(107374182400), // 100 GiB
		"TransferredSize": int64(3221225472),   // 3 GiB
		"DedupRatio":      2.671,
		"CompressRatio":   1.5,
		"IsRetryMode":     false,
		"IsWorking":       false,
	}

	row, err := n.Normalize(types.KindSessions, record)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-28 22:00:00", row.Get("StartTime"))
	assert.Equal(t, "01:32:30", row.Get("Duration"))
	assert.Equal(t, "100.00", row.Get("ProcessedGB"))
	assert.Equal(t, "3.00", row.Get("TransferredGB"))
	assert.Equal(t, "2.67", row.Get("DedupRatio"))
	assert.Equal(t, "1.50", row.Get("CompressionRatio"))
}

func TestNormalizer_gigabytesIdempotentOnSameSource(t *testing.T) {
	n := New()

	record := types.RawRecord{
		"Name":       "main-repo",
		"TotalSpace": int64(1099511627776),
		"FreeSpace":  int64(109951162777),
	}

	first, err := n.Normalize(types.KindRepositories, record)
	require.NoError(t, err)
	second, err := n.Normalize(types.KindRepositories, record)
	require.NoError(t, err)

	assert.Equal(t, first.Get("TotalGB"), second.Get("TotalGB"))
	assert.Equal(t, first.Get("FreeGB"), second.Get("FreeGB"))
	assert.Equal(t, "1024.00", first.Get("TotalGB"))
}

func TestNormalizer_repositoryFreePercentage(t *testing.T) {
	n := New()

	tests := []struct {
		name     string
		total    any
		free     any
		expected string
	}{
		{
			name:     "ten percent free",
			total:    int64(1000000000),
			free:     int64(100000000),
			expected: "10.00",
		},
		{
			name:     "zero total guards division",
			total:    int64(0),
			free:     int64(100),
			expected: "0.00",
		},
		{
			name:     "missing sizes collapse to zero",
			total:    nil,
			free:     nil,
			expected: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := types.RawRecord{"Name": "repo"}
			if tt.total != nil {
				record["TotalSpace"] = tt.total
			}
			if tt.free != nil {
				record["FreeSpace"] = tt.free
			}

			row, err := n.Normalize(types.KindRepositories, record)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, row.Get("FreePercentage"))
		})
	}
}

func TestNormalizer_jobSentinels(t *testing.T) {
	n := New()

	row, err := n.Normalize(types.KindJobs, types.RawRecord{"Name": "weekly-full"})
	require.NoError(t, err)

	assert.Equal(t, "Not Scheduled", row.Get("ScheduleSummary"))
	assert.Equal(t, "Not Scheduled", row.Get("NextRun"))
	assert.Equal(t, "Never Run", row.Get("LastResult"))
	assert.Equal(t, "False", row.Get("IsDisabled"))
}

func TestNormalizer_lastResultNoneMeansNeverRun(t *testing.T) {
	n := New()

	row, err := n.Normalize(types.KindJobs, types.RawRecord{
		"Name":       "weekly-full",
		"LastResult": "None",
	})
	require.NoError(t, err)

	assert.Equal(t, "Never Run", row.Get("LastResult"))
}

func TestNormalizer_missingIdentityFails(t *testing.T) {
	n := New()

	tests := []struct {
		name   string
		kind   types.EntityKind
		record types.RawRecord
	}{
		{
			name:   "job without name",
			kind:   types.KindJobs,
			record: types.RawRecord{"Type": "Backup"},
		},
		{
			name:   "session without job name",
			kind:   types.KindSessions,
			record: types.RawRecord{"Result": "Success"},
		},
		{
			name:   "repository with empty name",
			kind:   types.KindRepositories,
			record: types.RawRecord{"Name": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.kind, tt.record)
			require.Error(t, err)

			var malformed *MalformedRecordError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestNormalizer_normalizeAllSkipsMalformed(t *testing.T) {
	n := New()

	records := []types.RawRecord{
		{"Name": "job-a"},
		{"Type": "no name here"},
		{"Name": "job-b"},
	}

	rows, skipped := n.NormalizeAll(types.KindJobs, records)

	assert.Len(t, rows, 2)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "job-a", rows[0].Get("Name"))
	assert.Equal(t, "job-b", rows[1].Get("Name"))
}

func TestNormalizer_licenseDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	n := NewWithClock(func() time.Time { return now })

	t.Run("derived from expiration date", func(t *testing.T) {
		row, err := n.Normalize(types.KindLicense, types.RawRecord{
			"LicensedTo":     "Acme Corp",
			"Status":         "Valid",
			"ExpirationDate": now.AddDate(0, 0, 45),
		})
		require.NoError(t, err)
		assert.Equal(t, "45", row.Get("DaysRemaining"))
	})

	t.Run("collector precomputed value wins", func(t *testing.T) {
		row, err := n.Normalize(types.KindLicense, types.RawRecord{
			"LicensedTo":    "Acme Corp",
			"DaysRemaining": 12,
		})
		require.NoError(t, err)
		assert.Equal(t, "12", row.Get("DaysRemaining"))
	})

	t.Run("no expiration means perpetual", func(t *testing.T) {
		row, err := n.Normalize(types.KindLicense, types.RawRecord{
			"LicensedTo": "Acme Corp",
		})
		require.NoError(t, err)
		assert.Equal(t, "Perpetual", row.Get("DaysRemaining"))
		assert.Equal(t, "Perpetual", row.Get("ExpirationDate"))
	})
}

func TestNormalizer_moduleInstalledFlag(t *testing.T) {
	n := New()

	installed, err := n.Normalize(types.KindModules, types.RawRecord{
		"Name":      "Platform.PowerShell",
		"Version":   "12.1.2",
		"Installed": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "True", installed.Get("Installed"))

	missing, err := n.Normalize(types.KindModules, types.RawRecord{
		"Name": "Platform.Explorer",
	})
	require.NoError(t, err)
	assert.Equal(t, "False", missing.Get("Installed"))
	assert.Equal(t, "N/A", missing.Get("Version"))
}

func TestColumns_fixedOrder(t *testing.T) {
	expected := []string{
		"JobName", "Type", "StartTime", "EndTime", "Duration", "Result", "State",
		"ProcessedGB", "TransferredGB", "DedupRatio", "CompressionRatio",
		"IsRetryMode", "IsWorking",
	}
	assert.Equal(t, expected, Columns(types.KindSessions))
}

func TestNormalizer_stringTimestampsAccepted(t *testing.T) {
	n := New()

	row, err := n.Normalize(types.KindSessions, types.RawRecord{
		"JobName":      "from-json-dump",
		"CreationTime": "2026-08-28T22:00:00Z",
		"EndTime":      "2026-08-28 23:30:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-28 22:00:00", row.Get("StartTime"))
	assert.Equal(t, "01:30:00", row.Get("Duration"))
}

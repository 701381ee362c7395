package aggregate

import (
	"testing"

	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/stretchr/testify/assert"
)

func sessionRow(result, state string) *types.Row {
	row := types.NewRow([]string{"JobName", "Result", "State"})
	row.Set("JobName", "job")
	row.Set("Result", result)
	row.Set("State", state)
	return row
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		rows     []*types.Row
		expected types.SessionSummary
	}{
		{
			name: "empty window yields zero rate",
			rows: nil,
			expected: types.SessionSummary{
				WindowDays: 7,
			},
		},
		{
			name: "seven of ten is seventy percent",
			rows: []*types.Row{
				sessionRow("Success", "Stopped"),
				sessionRow("Success", "Stopped"),
				sessionRow("Success", "Stopped"),
				sessionRow("Success", "Stopped"),
				sessionRow("Success", "Stopped"),
				sessionRow("Success", "Stopped"),
				sessionRow("Success", "Stopped"),
				sessionRow("Warning", "Stopped"),
				sessionRow("Failed", "Stopped"),
				sessionRow("Failed", "Stopped"),
			},
			expected: types.SessionSummary{
				WindowDays:  7,
				Total:       10,
				Successful:  7,
				Warnings:    1,
				Failed:      2,
				SuccessRate: 70.0,
			},
		},
		{
			name: "running with warning counts in both buckets",
			rows: []*types.Row{
				sessionRow("Warning", "Working"),
				sessionRow("None", "Working"),
				sessionRow("Success", "Stopped"),
			},
			expected: types.SessionSummary{
				WindowDays:  7,
				Total:       3,
				Successful:  1,
				Warnings:    1,
				Running:     2,
				SuccessRate: 33.33,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Summarize(tt.rows, 7)
			assert.Equal(t, &tt.expected, summary)
		})
	}
}

func TestSummaryRow(t *testing.T) {
	summary := &types.SessionSummary{
		WindowDays:  7,
		Total:       10,
		Successful:  7,
		Warnings:    1,
		Failed:      2,
		Running:     0,
		SuccessRate: 70,
	}

	row := SummaryRow(summary)

	assert.Equal(t, SummaryColumns, row.Columns())
	assert.Equal(t, []string{"7", "10", "7", "1", "2", "0", "70.00"}, row.Values())
}

package aggregate

import (
	"strconv"

	"github.com/capt-harlock/spyglass/pkg/types"
	"github.com/capt-harlock/spyglass/pkg/utils"
)

// Summarize counts normalized session rows by result and state for a report
// window. A single pass; buckets are intentionally not mutually exclusive,
// the platform reports State independently of Result, so an in-flight
// session with warnings lands in both Running and Warnings.
func Summarize(rows []*types.Row, windowDays int) *types.SessionSummary {
	summary := &types.SessionSummary{
		WindowDays: windowDays,
		Total:      len(rows),
	}

	for _, row := range rows {
		switch row.Get("Result") {
		case "Success":
			summary.Successful++
		case "Warning":
			summary.Warnings++
		case "Failed":
			summary.Failed++
		}

		if row.Get("State") == "Working" {
			summary.Running++
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = utils.Percentage(float64(summary.Successful), float64(summary.Total))
	}

	return summary
}

// SummaryColumns is the fixed column order of the summary CSV.
var SummaryColumns = []string{
	"WindowDays", "TotalSessions", "Successful", "Warnings", "Failed", "Running", "SuccessRate",
}

// SummaryRow renders a summary as a single report row so the CSV sink can
// treat it like any other section.
func SummaryRow(summary *types.SessionSummary) *types.Row {
	row := types.NewRow(SummaryColumns)
	row.Set("WindowDays", strconv.Itoa(summary.WindowDays))
	row.Set("TotalSessions", strconv.Itoa(summary.Total))
	row.Set("Successful", strconv.Itoa(summary.Successful))
	row.Set("Warnings", strconv.Itoa(summary.Warnings))
	row.Set("Failed", strconv.Itoa(summary.Failed))
	row.Set("Running", strconv.Itoa(summary.Running))
	row.Set("SuccessRate", utils.FormatFloat(summary.SuccessRate))
	return row
}

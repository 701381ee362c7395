package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
)

type CSVWriter struct {
	logger *logger.Logger
}

func NewCSVWriter(logger *logger.Logger) *CSVWriter {
	return &CSVWriter{logger: logger}
}

// Write serializes rows to destination. The header comes from the column
// set; an empty row list still produces a header-only file so downstream
// tooling can rely on the file existing.
func (w *CSVWriter) Write(columns []string, rows []*types.Row, destination string) error {
	file, err := os.Create(destination)
	if err != nil {
		w.logger.Error("csv_write_failed").
			Str("file", destination).
			Err(err).
			Send()
		return fmt.Errorf("creating %s: %w", destination, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("writing header to %s: %w", destination, err)
	}

	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return fmt.Errorf("writing row to %s: %w", destination, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", destination, err)
	}

	w.logger.Debug("csv_written").
		Str("file", destination).
		Int("rows", len(rows)).
		Send()

	return nil
}

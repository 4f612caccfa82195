package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"civic-request-report/internal/model"
	"civic-request-report/pkg/utils"
)

// ExportResult represents the outcome of one export operation.
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "json"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportTable writes the finished table to the configured file, placing
// relative paths under the run's output directory. The format follows the
// file extension; CSV is the default.
func ExportTable(table model.Table, export model.Export, runID string) ExportResult {
	path := export.File
	if !filepath.IsAbs(path) {
		om := utils.NewOutputManager("exports")
		resolved, err := om.OutputFilePath(runID, path)
		if err != nil {
			return failedExport(path, err)
		}
		path = resolved
	}

	var err error
	format := "csv"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = "json"
		err = exportJSON(table, path)
	default:
		err = exportCSV(table, path)
	}

	result := ExportResult{
		Type:        format,
		Path:        path,
		RecordCount: len(table.Rows),
		Success:     err == nil,
		ExportedAt:  time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		fmt.Printf("❌ Export failed: %v\n", err)
	} else {
		fmt.Printf("✅ Export successful: %d rows written to %s\n", len(table.Rows), path)
	}
	return result
}

func exportCSV(table model.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			cells[i] = CellValue(row, col)
		}
		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func exportJSON(table model.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(table); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func failedExport(path string, err error) ExportResult {
	return ExportResult{
		Type:       strings.TrimPrefix(filepath.Ext(path), "."),
		Path:       path,
		Error:      err.Error(),
		ExportedAt: time.Now(),
	}
}

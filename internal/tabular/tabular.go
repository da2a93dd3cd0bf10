// Package tabular abstracts over the two statement container formats the
// pipeline accepts, CSV and Excel. Both are exposed to callers as CSV
// content so the per-format row mapping only exists once.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PeekHeader reads just the header row of a statement file. The scan phase
// uses this to classify files without reading them fully.
func PeekHeader(path string) ([]string, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	header, err := csv.NewReader(r).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("statement file %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header of %s: %w", path, err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

// Open returns the file's content as CSV. CSV files are streamed directly;
// Excel workbooks have their first sheet rendered to an in-memory CSV
// buffer first.
func Open(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path) // #nosec G304 -- paths come from the configured watch directory
		if err != nil {
			return nil, fmt.Errorf("error opening statement file: %w", err)
		}
		return file, nil
	case ".xlsx":
		return openExcel(path)
	default:
		return nil, fmt.Errorf("unsupported statement file extension: %s", path)
	}
}

// openExcel renders the first sheet of an Excel workbook to CSV.
func openExcel(path string) (io.ReadCloser, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening Excel workbook: %w", err)
	}
	defer func() {
		_ = workbook.Close()
	}()

	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("Excel workbook %s has no sheets", path)
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	var width int
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for _, row := range rows {
		// GetRows trims trailing empty cells, pad back to header width so
		// every record has the same field count.
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("error buffering sheet %q: %w", sheet, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error buffering sheet %q: %w", sheet, err)
	}

	return io.NopCloser(&buf), nil
}

package tabular

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.xlsx")

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestPeekHeaderCSV(t *testing.T) {
	path := writeCSV(t, "statement.csv",
		"Date, Description ,Balance\n01/15/2024,Coffee,995.50\n")

	header, err := PeekHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Description", "Balance"}, header)
}

func TestPeekHeaderEmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", "")

	_, err := PeekHeader(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestOpenCSVStreamsContent(t *testing.T) {
	path := writeCSV(t, "statement.csv", "Date,Description\n01/15/2024,Coffee\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Description"},
		{"01/15/2024", "Coffee"},
	}, records)
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("statement.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestOpenExcelRendersFirstSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Date", "Description", "Withdrawals", "Deposits", "Category", "Balance"},
		{"01/15/2024", "Coffee", 4.50, nil, "Dining", 995.50},
	})

	r, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Date", "Description", "Withdrawals", "Deposits", "Category", "Balance"}, records[0])
	assert.Equal(t, "Coffee", records[1][1])
	assert.Equal(t, "4.5", records[1][2])
}

func TestOpenExcelPadsShortRows(t *testing.T) {
	// Trailing empty cells are trimmed by the workbook reader; rendered CSV
	// records must still all have the header's width.
	path := writeWorkbook(t, [][]interface{}{
		{"Date", "Description", "Withdrawals", "Deposits", "Category", "Balance"},
		{"01/15/2024", "Coffee", "4.50"},
	})

	r, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	records, err := csv.NewReader(r).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[1], 6)
	assert.Equal(t, "", records[1][5])
}

func TestPeekHeaderExcel(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount", "Memo"},
	})

	header, err := PeekHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Transaction Date", "Post Date", "Description",
		"Category", "Type", "Amount", "Memo"}, header)
}

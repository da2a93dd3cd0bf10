package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.csv")))
	assert.False(t, FileExists(dir), "a directory is not a file")
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(filepath.Join(dir, "missing")))
	assert.False(t, DirectoryExists(path), "a file is not a directory")
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDirectoryExists(dir))
	assert.True(t, DirectoryExists(dir))

	// Idempotent.
	require.NoError(t, EnsureDirectoryExists(dir))
}

func TestIsStatementFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"statement.csv", true},
		{"STATEMENT.CSV", true},
		{"workbook.xlsx", true},
		{"Workbook.XLSX", true},
		{"notes.txt", false},
		{"archive.csv.gz", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStatementFile(tt.filename))
		})
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(src, []byte("rows"), 0o600))

	destDir := filepath.Join(dir, "sink")
	dest, err := MoveFile(src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "statement.csv"), dest)
	assert.FileExists(t, dest)
	assert.NoFileExists(t, src)
}

func TestMoveFileCollisionGetsTimestampSuffix(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "sink")

	first := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(first, []byte("first"), 0o600))
	_, err := MoveFile(first, destDir)
	require.NoError(t, err)

	second := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(second, []byte("second"), 0o600))
	dest, err := MoveFile(second, destDir)
	require.NoError(t, err)

	assert.NotEqual(t, filepath.Join(destDir, "statement.csv"), dest)
	assert.Regexp(t, `^statement_\d{8}_\d{6}\.csv$`, filepath.Base(dest))

	// Both copies survive with their own contents.
	original, err := os.ReadFile(filepath.Join(destDir, "statement.csv")) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "first", string(original))
	moved, err := os.ReadFile(dest) // #nosec G304
	require.NoError(t, err)
	assert.Equal(t, "second", string(moved))
}

func TestMoveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := MoveFile(filepath.Join(dir, "absent.csv"), filepath.Join(dir, "sink"))
	require.Error(t, err)
}

// Package fileutils provides common file operations used throughout the
// application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// IsStatementFile reports whether the filename carries one of the statement
// extensions (.csv or .xlsx, case-insensitive).
func IsStatementFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".csv" || ext == ".xlsx"
}

// MoveFile moves src into destDir, keeping the base name. If a file with the
// same name is already present in destDir it does not overwrite; instead the
// moved file gets a timestamp suffix before its extension.
func MoveFile(src, destDir string) (string, error) {
	if err := EnsureDirectoryExists(destDir); err != nil {
		return "", err
	}

	filename := filepath.Base(src)
	dest := filepath.Join(destDir, filename)

	if FileExists(dest) {
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		stamp := time.Now().Format("20060102_150405")
		dest = filepath.Join(destDir, fmt.Sprintf("%s_%s%s", base, stamp, ext))
		log.WithField("dest", dest).Warn("Destination file exists, using timestamped name")
	}

	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", src, dest, err)
	}
	return dest, nil
}

// Package pipeline orchestrates statement ingestion for a watch directory:
// scan and classify pending files, normalize and validate a file's rows,
// commit the batch atomically through the ledger, and relocate the source
// file into the processed sink.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/adaves/wealth-tracker/internal/categorizer"
	"github.com/adaves/wealth-tracker/internal/fileutils"
	"github.com/adaves/wealth-tracker/internal/formats"
	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/ledger"
	"github.com/adaves/wealth-tracker/internal/models"
	"github.com/adaves/wealth-tracker/internal/validation"
)

// ProcessedDirName is the fixed-name subdirectory of the watch directory
// that holds already ingested files.
const ProcessedDirName = "csv_files_added"

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// PendingFile is one classified candidate found by a scan.
type PendingFile struct {
	Filename string
	Path     string
	Format   models.AccountFormat
	Account  string
}

// Result summarizes one successful ingestion.
type Result struct {
	Filename    string
	Account     string
	Imported    int
	SkippedRows []*ingesterror.RowError
	MovedTo     string
}

// Pipeline ingests statement files from a watch directory into the ledger.
type Pipeline struct {
	watchDir     string
	processedDir string
	ledger       *ledger.Ledger
	categorizer  *categorizer.Categorizer
	strictRows   bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCategorizer installs a keyword categorizer used to fill rows whose
// Category cell is blank.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(p *Pipeline) {
		p.categorizer = c
	}
}

// WithStrictRows makes any skipped (unparseable) row reject the whole file
// instead of being dropped with a log line.
func WithStrictRows(strict bool) Option {
	return func(p *Pipeline) {
		p.strictRows = strict
	}
}

// New creates a Pipeline over watchDir, creating the watch and processed
// directories if needed.
func New(watchDir string, l *ledger.Ledger, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		watchDir:     watchDir,
		processedDir: filepath.Join(watchDir, ProcessedDirName),
		ledger:       l,
		categorizer:  &categorizer.Categorizer{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := fileutils.EnsureDirectoryExists(p.watchDir); err != nil {
		return nil, err
	}
	if err := fileutils.EnsureDirectoryExists(p.processedDir); err != nil {
		return nil, err
	}
	return p, nil
}

// ProcessedDir returns the path of the processed-files sink.
func (p *Pipeline) ProcessedDir() string {
	return p.processedDir
}

// ScanPending lists the statement files in the watch directory that are
// ready to ingest, each tagged with its detected format. Files whose format
// cannot be classified stay in the watch directory for manual handling and
// are excluded from the list, not error-reported per scan.
func (p *Pipeline) ScanPending() ([]PendingFile, error) {
	entries, err := os.ReadDir(p.watchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch directory: %w", err)
	}

	var pending []PendingFile
	for _, entry := range entries {
		if entry.IsDir() || !fileutils.IsStatementFile(entry.Name()) {
			continue
		}
		// A same-named file in the sink means this one was already handled.
		if fileutils.FileExists(filepath.Join(p.processedDir, entry.Name())) {
			continue
		}

		path := filepath.Join(p.watchDir, entry.Name())
		format, err := formats.DetectFile(path)
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Debug("Skipping unclassified file")
			continue
		}

		pending = append(pending, PendingFile{
			Filename: entry.Name(),
			Path:     path,
			Format:   format,
			Account:  format.AccountName(),
		})
	}
	return pending, nil
}

// ProcessFile ingests one classified file: re-read it fully, normalize every
// row, validate the whole batch, commit it atomically, and move the source
// into the processed sink. Any failure before the commit leaves the ledger
// and the source file untouched.
func (p *Pipeline) ProcessFile(file PendingFile) (Result, error) {
	logger := log.WithFields(logrus.Fields{
		"file":    file.Filename,
		"account": file.Account,
	})
	logger.Info("Processing statement file")

	// Reprocessing an already handled filename is refused up front; restore
	// it to the watch directory first if that is really intended.
	if fileutils.FileExists(filepath.Join(p.processedDir, file.Filename)) {
		return Result{}, fmt.Errorf("file %s has already been processed; restore it before reprocessing", file.Filename)
	}

	transactions, rowErrors, err := formats.ParseFile(file.Path, file.Format)
	if err != nil {
		return Result{}, err
	}
	if len(rowErrors) > 0 {
		logger.WithField("skipped", len(rowErrors)).Warn("Some rows could not be normalized")
		if p.strictRows {
			return Result{}, fmt.Errorf("%d of %d rows in %s could not be normalized: %w",
				len(rowErrors), len(rowErrors)+len(transactions), file.Filename, rowErrors[0])
		}
	}
	if len(transactions) == 0 {
		return Result{}, fmt.Errorf("no usable transactions in %s", file.Filename)
	}

	p.categorizer.Apply(transactions)

	if err := validation.ValidateBatch(file.Filename, transactions); err != nil {
		return Result{}, err
	}

	record, err := p.ledger.InsertBatch(transactions, file.Filename, file.Account)
	if err != nil {
		return Result{}, err
	}

	// The move happens strictly after the commit. A failure here leaves the
	// committed batch in place with the source still in the watch
	// directory; the next scan skips it once it is moved manually, and undo
	// plus restore recovers fully.
	movedTo, err := fileutils.MoveFile(file.Path, p.processedDir)
	if err != nil {
		logger.WithError(err).Error("Batch committed but source file could not be relocated")
		return Result{}, fmt.Errorf("batch for %s committed, but moving the file failed: %w", file.Filename, err)
	}

	logger.WithField("count", record.TransactionCount).Info("Statement file processed")
	return Result{
		Filename:    file.Filename,
		Account:     file.Account,
		Imported:    record.TransactionCount,
		SkippedRows: rowErrors,
		MovedTo:     movedTo,
	}, nil
}

// Restore moves a file from the processed sink back to the watch directory
// so it can be reprocessed (typically after undoing its import). It returns
// false when the file is not in the sink.
func (p *Pipeline) Restore(filename string) (bool, error) {
	source := filepath.Join(p.processedDir, filename)
	if !fileutils.FileExists(source) {
		return false, nil
	}
	if _, err := fileutils.MoveFile(source, p.watchDir); err != nil {
		return false, err
	}
	log.WithField("file", filename).Info("Restored file to watch directory")
	return true, nil
}

// ListProcessed lists the statement files currently in the processed sink.
func (p *Pipeline) ListProcessed() ([]string, error) {
	entries, err := os.ReadDir(p.processedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read processed directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && fileutils.IsStatementFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

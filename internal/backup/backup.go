// Package backup snapshots the ledger's storage file. Snapshots are plain
// timestamped copies; the manager never touches a database connection, so it
// cannot hold any lock ingestion needs.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adaves/wealth-tracker/internal/fileutils"
)

// DefaultRetention is how many snapshots are kept when none is configured.
const DefaultRetention = 2

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Snapshot is one backup copy of the storage file.
type Snapshot struct {
	Name      string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// Manager creates and prunes snapshots of one storage file.
type Manager struct {
	source    string
	dir       string
	retention int
}

// NewManager creates a snapshot manager for the storage file at source,
// writing snapshots into dir and keeping the retention most recent ones.
func NewManager(source, dir string, retention int) *Manager {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Manager{source: source, dir: dir, retention: retention}
}

// Create takes a full-copy snapshot with a timestamped name and prunes old
// snapshots down to the retention count.
func (m *Manager) Create() (string, error) {
	if !fileutils.FileExists(m.source) {
		return "", fmt.Errorf("storage file does not exist: %s", m.source)
	}
	if err := fileutils.EnsureDirectoryExists(m.dir); err != nil {
		return "", err
	}

	base := filepath.Base(m.source)
	ext := filepath.Ext(base)
	stamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(m.dir, fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), stamp, ext))

	if err := copyFile(m.source, dest); err != nil {
		return "", err
	}
	log.WithField("snapshot", dest).Info("Created ledger snapshot")

	if err := m.prune(); err != nil {
		return "", err
	}
	return dest, nil
}

// List returns the available snapshots, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	if !fileutils.DirectoryExists(m.dir) {
		return nil, nil
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	base := filepath.Base(m.source)
	prefix := strings.TrimSuffix(base, filepath.Ext(base)) + "_"

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat snapshot %s: %w", entry.Name(), err)
		}
		snapshots = append(snapshots, Snapshot{
			Name:      entry.Name(),
			Path:      filepath.Join(m.dir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	// The timestamp suffix makes lexical order chronological, but modtime
	// survives a clock-format change.
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].Name > snapshots[j].Name
		}
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
	return snapshots, nil
}

// Run takes a snapshot every interval until the context is cancelled. It is
// meant for a background timer independent of ingestion.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Create(); err != nil {
				log.WithError(err).Warn("Scheduled snapshot failed")
			}
		}
	}
}

func (m *Manager) prune() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	for _, old := range snapshots[min(m.retention, len(snapshots)):] {
		if err := os.Remove(old.Path); err != nil {
			return fmt.Errorf("failed to prune snapshot %s: %w", old.Name, err)
		}
		log.WithField("snapshot", old.Name).Debug("Pruned old snapshot")
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src) // #nosec G304 -- source is the configured storage file
	if err != nil {
		return fmt.Errorf("failed to open storage file: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dest) // #nosec G304 -- destination is inside the backup directory
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return out.Close()
}

// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adaves/wealth-tracker/internal/backup"
	"github.com/adaves/wealth-tracker/internal/categorizer"
	"github.com/adaves/wealth-tracker/internal/config"
	"github.com/adaves/wealth-tracker/internal/fileutils"
	"github.com/adaves/wealth-tracker/internal/formats"
	"github.com/adaves/wealth-tracker/internal/ledger"
	"github.com/adaves/wealth-tracker/internal/pipeline"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRunE.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "wealth-tracker",
		Short: "Ingest bank statement exports into a local spending ledger.",
		Long: `wealth-tracker watches a directory for bank statement exports (CSV or
Excel), normalizes the known institutional formats into one transaction
shape, and stores them in a SQLite ledger with balance and spending reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = config.ConfigureLogging(cfg)

			// Hand the configured logger to every package that logs.
			fileutils.SetLogger(Log)
			formats.SetLogger(Log)
			ledger.SetLogger(Log)
			pipeline.SetLogger(Log)
			backup.SetLogger(Log)
			categorizer.SetLogger(Log)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
	}
)

// OpenLedger opens the configured ledger database. The caller owns the
// returned handle and must close it.
func OpenLedger() (*ledger.Ledger, error) {
	return ledger.Open(Cfg.Data.Database)
}

// NewPipeline builds the ingestion pipeline over the configured watch
// directory, wired with the configured categorizer and row policy.
func NewPipeline(l *ledger.Ledger) (*pipeline.Pipeline, error) {
	cat, err := categorizer.Load(Cfg.Data.Categories)
	if err != nil {
		return nil, err
	}
	return pipeline.New(Cfg.Data.WatchDir, l,
		pipeline.WithCategorizer(cat),
		pipeline.WithStrictRows(Cfg.Ingest.StrictRows),
	)
}

// NewBackupManager builds the snapshot manager for the configured database.
func NewBackupManager() *backup.Manager {
	return backup.NewManager(Cfg.Data.Database, Cfg.Backup.Directory, Cfg.Backup.Retention)
}

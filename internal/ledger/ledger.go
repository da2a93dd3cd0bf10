// Package ledger owns the relational store: the accounts, processed_files
// and transactions tables, the atomic batch commit with its undo, and the
// balance and spending queries consumed by reporting.
//
// Amounts are exact decimals in memory and are persisted with a fixed
// two-decimal rendering; reads scan them back through strings into decimals.
package ledger

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adaves/wealth-tracker/internal/models"

	_ "modernc.org/sqlite"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Ledger wraps a single SQLite database file. The execution model is
// single-writer: one file is ingested at a time and atomicity comes from
// SQLite transactions, not from locking in this process.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the ledger database at path,
// initializes the schema and seeds the fixed account set.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}
	// Referential integrity is off by default in SQLite.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	l := &Ledger{db: db, path: path}
	if err := l.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.WithField("path", path).Debug("Ledger opened")
	return l, nil
}

// Path returns the location of the underlying database file.
func (l *Ledger) Path() string {
	return l.path
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS processed_files (
			id INTEGER PRIMARY KEY,
			filename TEXT NOT NULL,
			account_id INTEGER NOT NULL,
			processed_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (account_id) REFERENCES accounts (id)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY,
			account_id INTEGER NOT NULL,
			file_id INTEGER,
			date TEXT NOT NULL,
			description TEXT NOT NULL,
			amount DECIMAL(10,2) NOT NULL,
			category TEXT,
			balance DECIMAL(10,2),
			FOREIGN KEY (account_id) REFERENCES accounts (id),
			FOREIGN KEY (file_id) REFERENCES processed_files (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_date ON transactions(account_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_file ON transactions(file_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize ledger schema: %w", err)
		}
	}

	for _, name := range models.SeededAccounts {
		if _, err := l.db.Exec(`INSERT OR IGNORE INTO accounts (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to seed account %q: %w", name, err)
		}
	}
	return nil
}

// accountIDs loads the full account name to id map inside a transaction.
func accountIDs(tx *sql.Tx) (map[string]int64, error) {
	rows, err := tx.Query(`SELECT id, name FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

package ledger

import (
	"fmt"

	"github.com/adaves/wealth-tracker/internal/dateutils"
	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
)

// InsertBatch writes one ProcessedFile record and every transaction of the
// batch in a single database transaction. Either everything commits or
// nothing does. Every referenced account name must already exist in the
// seeded accounts table; a missing one is a configuration defect and fails
// the whole write.
func (l *Ledger) InsertBatch(transactions []models.Transaction, filename, accountName string) (models.ProcessedFile, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return models.ProcessedFile{}, fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback()
	}()

	accounts, err := accountIDs(tx)
	if err != nil {
		return models.ProcessedFile{}, err
	}

	fileAccountID, ok := accounts[accountName]
	if !ok {
		return models.ProcessedFile{}, &ingesterror.UnknownAccountError{Account: accountName}
	}
	for _, t := range transactions {
		if _, ok := accounts[t.Account]; !ok {
			return models.ProcessedFile{}, &ingesterror.UnknownAccountError{Account: t.Account}
		}
	}

	res, err := tx.Exec(
		`INSERT INTO processed_files (filename, account_id) VALUES (?, ?)`,
		filename, fileAccountID,
	)
	if err != nil {
		return models.ProcessedFile{}, fmt.Errorf("failed to insert processed file record: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return models.ProcessedFile{}, fmt.Errorf("failed to read processed file id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO transactions (account_id, file_id, date, description, amount, category, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return models.ProcessedFile{}, fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, t := range transactions {
		var balance interface{}
		if t.Balance.Valid {
			balance = t.Balance.Decimal.StringFixed(2)
		}
		if _, err := stmt.Exec(
			accounts[t.Account],
			fileID,
			dateutils.ToISODate(t.Date),
			t.Description,
			t.Amount.StringFixed(2),
			t.Category,
			balance,
		); err != nil {
			return models.ProcessedFile{}, fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.ProcessedFile{}, fmt.Errorf("failed to commit batch: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"file":    filename,
		"account": accountName,
		"count":   len(transactions),
	}).Info("Committed statement batch")

	return models.ProcessedFile{
		ID:               fileID,
		Filename:         filename,
		AccountID:        fileAccountID,
		AccountName:      accountName,
		TransactionCount: len(transactions),
	}, nil
}

// UndoFileImport removes the ProcessedFile for filename and every
// transaction that references it, as one database transaction. It returns
// false when no such file has been processed; that is a normal outcome, not
// an error.
func (l *Ledger) UndoFileImport(filename string) (bool, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var fileID int64
	err = tx.QueryRow(`SELECT id FROM processed_files WHERE filename = ?`, filename).Scan(&fileID)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up processed file: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM transactions WHERE file_id = ?`, fileID); err != nil {
		return false, fmt.Errorf("failed to delete transactions for %s: %w", filename, err)
	}
	if _, err := tx.Exec(`DELETE FROM processed_files WHERE id = ?`, fileID); err != nil {
		return false, fmt.Errorf("failed to delete processed file record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit undo: %w", err)
	}

	log.WithField("file", filename).Info("Undid statement import")
	return true, nil
}

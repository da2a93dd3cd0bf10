package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adaves/wealth-tracker/internal/dateutils"
	"github.com/adaves/wealth-tracker/internal/models"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// AccountBalance returns the statement-reported running balance of the most
// recent transaction for the account, ties broken by insertion order. It is
// not a sum of amounts: the balance column is only meaningful for formats
// that report one. Accounts with no transactions (or no reported balance)
// return zero.
func (l *Ledger) AccountBalance(accountName string) (decimal.Decimal, error) {
	var balance sql.NullString
	err := l.db.QueryRow(`
		SELECT t.balance
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.name = ?
		ORDER BY t.date DESC, t.id DESC
		LIMIT 1
	`, accountName).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to query balance for %s: %w", accountName, err)
	}
	return decimalFromNullString(balance)
}

// AllAccountBalances returns the most recent reported balance for every
// seeded account, defaulting to zero for accounts without transactions.
func (l *Ledger) AllAccountBalances() (map[string]decimal.Decimal, error) {
	rows, err := l.db.Query(`SELECT name FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan account name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(names))
	for _, name := range names {
		balance, err := l.AccountBalance(name)
		if err != nil {
			return nil, err
		}
		balances[name] = balance
	}
	return balances, nil
}

// CategorySpending is one row of the monthly spending aggregate.
type CategorySpending struct {
	Month    string
	Category string
	Spending decimal.Decimal
}

// MonthlySpendingByCategory aggregates the absolute value of all outflows
// grouped by year-month and category, optionally filtered to a year and/or
// month (zero means no filter), ordered by month descending then spending
// descending.
func (l *Ledger) MonthlySpendingByCategory(year, month int) ([]CategorySpending, error) {
	query := `
		SELECT strftime('%Y-%m', date) AS month,
		       category,
		       ROUND(SUM(ABS(amount)), 2) AS spending
		FROM transactions
		WHERE amount < 0`
	var args []interface{}
	if year != 0 {
		query += ` AND strftime('%Y', date) = ?`
		args = append(args, fmt.Sprintf("%04d", year))
	}
	if month != 0 {
		query += ` AND strftime('%m', date) = ?`
		args = append(args, fmt.Sprintf("%02d", month))
	}
	query += ` GROUP BY month, category ORDER BY month DESC, spending DESC`

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly spending: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []CategorySpending
	for rows.Next() {
		var entry CategorySpending
		var spending string
		if err := rows.Scan(&entry.Month, &entry.Category, &spending); err != nil {
			return nil, fmt.Errorf("failed to scan spending row: %w", err)
		}
		entry.Spending, err = decimal.NewFromString(spending)
		if err != nil {
			return nil, fmt.Errorf("invalid spending value %q: %w", spending, err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// AccountTransactions lists every transaction for the named account, newest
// first (ties broken by insertion order).
func (l *Ledger) AccountTransactions(accountName string) ([]models.Transaction, error) {
	rows, err := l.db.Query(`
		SELECT t.id, t.date, t.description, t.amount, t.category, t.balance,
		       t.account_id, t.file_id, a.name
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.name = ?
		ORDER BY t.date DESC, t.id DESC
	`, accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for %s: %w", accountName, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var date, amount string
		var balance sql.NullString
		var fileID sql.NullInt64
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &t.Category,
			&balance, &t.AccountID, &fileID, &t.Account); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		t.Date, err = time.Parse(dateutils.DateLayoutISO, date)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
		}
		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		if balance.Valid {
			b, err := decimal.NewFromString(balance.String)
			if err != nil {
				return nil, fmt.Errorf("invalid stored balance %q: %w", balance.String, err)
			}
			t.Balance = decimal.NullDecimal{Decimal: b, Valid: true}
		}
		t.FileID = fileID.Int64

		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// ProcessedFiles lists every ingested file with its derived transaction
// count, newest first.
func (l *Ledger) ProcessedFiles() ([]models.ProcessedFile, error) {
	rows, err := l.db.Query(`
		SELECT f.id, f.filename, f.account_id, a.name, f.processed_at, COUNT(t.id)
		FROM processed_files f
		JOIN accounts a ON f.account_id = a.id
		LEFT JOIN transactions t ON t.file_id = f.id
		GROUP BY f.id
		ORDER BY f.processed_at DESC, f.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var files []models.ProcessedFile
	for rows.Next() {
		var f models.ProcessedFile
		var processedAt string
		if err := rows.Scan(&f.ID, &f.Filename, &f.AccountID, &f.AccountName,
			&processedAt, &f.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan processed file row: %w", err)
		}
		// CURRENT_TIMESTAMP renders as UTC without a zone marker.
		f.ProcessedAt, err = time.ParseInLocation("2006-01-02 15:04:05", processedAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid stored timestamp %q: %w", processedAt, err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// YTDAverageBalance returns the average reported balance for the account
// since the start of the current year, zero when there are no balances.
func (l *Ledger) YTDAverageBalance(accountName string) (decimal.Decimal, error) {
	start := dateutils.ToISODate(dateutils.StartOfYear(time.Now()))
	var avg sql.NullString
	err := l.db.QueryRow(`
		SELECT ROUND(AVG(t.balance), 2)
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.name = ?
		  AND t.balance IS NOT NULL
		  AND t.date >= ?
		  AND t.date <= date('now')
	`, accountName, start).Scan(&avg)
	if err != nil {
		if isNoRows(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to query YTD average for %s: %w", accountName, err)
	}
	return decimalFromNullString(avg)
}

func decimalFromNullString(value sql.NullString) (decimal.Decimal, error) {
	if !value.Valid {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored decimal %q: %w", value.String, err)
	}
	return d, nil
}

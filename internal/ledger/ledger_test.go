package ledger

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = l.Close()
	})
	return l
}

func testTx(account string, date time.Time, amount string, balance string) models.Transaction {
	tx := models.Transaction{
		Date:        date,
		Description: "test " + amount,
		Amount:      decimal.RequireFromString(amount),
		Category:    "Misc",
		Account:     account,
	}
	if balance != "" {
		tx.Balance = decimal.NullDecimal{Decimal: decimal.RequireFromString(balance), Valid: true}
	}
	return tx
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpenSeedsAccounts(t *testing.T) {
	l := openTestLedger(t)

	balances, err := l.AllAccountBalances()
	require.NoError(t, err)
	require.Len(t, balances, len(models.SeededAccounts))
	for _, name := range models.SeededAccounts {
		balance, ok := balances[name]
		require.True(t, ok, "account %q missing", name)
		assert.True(t, balance.IsZero())
	}
}

func TestInsertBatchAndList(t *testing.T) {
	l := openTestLedger(t)

	batch := []models.Transaction{
		testTx(models.AccountPNCChecking, date(2024, time.January, 5), "-4.50", "995.50"),
		testTx(models.AccountPNCChecking, date(2024, time.January, 15), "2500.00", "3495.50"),
	}
	record, err := l.InsertBatch(batch, "jan.csv", models.AccountPNCChecking)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.Equal(t, 2, record.TransactionCount)

	transactions, err := l.AccountTransactions(models.AccountPNCChecking)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	// Newest first.
	assert.Equal(t, date(2024, time.January, 15), transactions[0].Date)
	assert.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, date(2024, time.January, 5), transactions[1].Date)
	require.True(t, transactions[1].Balance.Valid)
	assert.True(t, transactions[1].Balance.Decimal.Equal(decimal.RequireFromString("995.50")))
	assert.Equal(t, record.ID, transactions[0].FileID)
}

func TestInsertBatchUnknownAccountIsAtomic(t *testing.T) {
	l := openTestLedger(t)

	batch := []models.Transaction{
		testTx(models.AccountCapitalOne, date(2024, time.February, 1), "-10.00", ""),
		testTx("Monopoly Money", date(2024, time.February, 2), "-20.00", ""),
	}
	_, err := l.InsertBatch(batch, "feb.csv", models.AccountCapitalOne)
	require.Error(t, err)

	var unknown *ingesterror.UnknownAccountError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Monopoly Money", unknown.Account)

	// Nothing may have been persisted, not even the file record.
	transactions, err := l.AccountTransactions(models.AccountCapitalOne)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	files, err := l.ProcessedFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUndoFileImportRestoresState(t *testing.T) {
	l := openTestLedger(t)

	before, err := l.AllAccountBalances()
	require.NoError(t, err)

	batch := []models.Transaction{
		testTx(models.AccountPNCChecking, date(2024, time.March, 1), "-4.50", "995.50"),
		testTx(models.AccountPNCChecking, date(2024, time.March, 2), "-3.00", "992.50"),
	}
	_, err = l.InsertBatch(batch, "mar.csv", models.AccountPNCChecking)
	require.NoError(t, err)

	found, err := l.UndoFileImport("mar.csv")
	require.NoError(t, err)
	assert.True(t, found)

	after, err := l.AllAccountBalances()
	require.NoError(t, err)
	for name, balance := range before {
		assert.True(t, balance.Equal(after[name]), "balance for %s changed across insert+undo", name)
	}

	transactions, err := l.AccountTransactions(models.AccountPNCChecking)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	files, err := l.ProcessedFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUndoFileImportNotFound(t *testing.T) {
	l := openTestLedger(t)

	found, err := l.UndoFileImport("never-imported.csv")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAccountBalanceUsesMostRecentReported(t *testing.T) {
	l := openTestLedger(t)

	newer := []models.Transaction{
		testTx(models.AccountPNCChecking, date(2024, time.June, 10), "-4.50", "995.50"),
	}
	_, err := l.InsertBatch(newer, "jun.csv", models.AccountPNCChecking)
	require.NoError(t, err)

	balance, err := l.AccountBalance(models.AccountPNCChecking)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("995.50")))

	// Inserting an older-dated transaction afterwards must not change the
	// reported balance: it is not a sum, it is the latest statement value.
	older := []models.Transaction{
		testTx(models.AccountPNCChecking, date(2024, time.January, 2), "-100.00", "2000.00"),
	}
	_, err = l.InsertBatch(older, "jan-late.csv", models.AccountPNCChecking)
	require.NoError(t, err)

	balance, err = l.AccountBalance(models.AccountPNCChecking)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("995.50")),
		"older insert changed the reported balance to %s", balance)
}

func TestAccountBalanceTieBrokenByInsertionOrder(t *testing.T) {
	l := openTestLedger(t)

	sameDay := []models.Transaction{
		testTx(models.AccountPNCChecking, date(2024, time.June, 10), "-4.50", "995.50"),
		testTx(models.AccountPNCChecking, date(2024, time.June, 10), "-10.00", "985.50"),
	}
	_, err := l.InsertBatch(sameDay, "jun.csv", models.AccountPNCChecking)
	require.NoError(t, err)

	balance, err := l.AccountBalance(models.AccountPNCChecking)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("985.50")))
}

func TestAccountBalanceEmptyAccountIsZero(t *testing.T) {
	l := openTestLedger(t)

	balance, err := l.AccountBalance(models.AccountChaseSW)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestMonthlySpendingByCategory(t *testing.T) {
	l := openTestLedger(t)

	batch := []models.Transaction{
		testTx(models.AccountCapitalOne, date(2024, time.January, 5), "-20.00", ""),
		testTx(models.AccountCapitalOne, date(2024, time.January, 9), "-30.00", ""),
		testTx(models.AccountCapitalOne, date(2024, time.January, 12), "-5.00", ""),
		testTx(models.AccountCapitalOne, date(2024, time.February, 3), "-40.00", ""),
		// Inflows never count as spending.
		testTx(models.AccountCapitalOne, date(2024, time.January, 20), "500.00", ""),
	}
	batch[0].Category = "Food"
	batch[1].Category = "Food"
	batch[2].Category = "Transport"
	batch[3].Category = "Food"
	batch[4].Category = "Income"

	_, err := l.InsertBatch(batch, "q1.csv", models.AccountCapitalOne)
	require.NoError(t, err)

	entries, err := l.MonthlySpendingByCategory(0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Months descending, spending descending within a month.
	assert.Equal(t, "2024-02", entries[0].Month)
	assert.Equal(t, "Food", entries[0].Category)
	assert.True(t, entries[0].Spending.Equal(decimal.RequireFromString("40.00")))

	assert.Equal(t, "2024-01", entries[1].Month)
	assert.Equal(t, "Food", entries[1].Category)
	assert.True(t, entries[1].Spending.Equal(decimal.RequireFromString("50.00")))

	assert.Equal(t, "2024-01", entries[2].Month)
	assert.Equal(t, "Transport", entries[2].Category)
	assert.True(t, entries[2].Spending.Equal(decimal.RequireFromString("5.00")))
}

func TestMonthlySpendingFilters(t *testing.T) {
	l := openTestLedger(t)

	batch := []models.Transaction{
		testTx(models.AccountCapitalOne, date(2023, time.December, 5), "-15.00", ""),
		testTx(models.AccountCapitalOne, date(2024, time.January, 5), "-25.00", ""),
	}
	_, err := l.InsertBatch(batch, "span.csv", models.AccountCapitalOne)
	require.NoError(t, err)

	byYear, err := l.MonthlySpendingByCategory(2024, 0)
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "2024-01", byYear[0].Month)

	byMonth, err := l.MonthlySpendingByCategory(0, 12)
	require.NoError(t, err)
	require.Len(t, byMonth, 1)
	assert.Equal(t, "2023-12", byMonth[0].Month)

	both, err := l.MonthlySpendingByCategory(2023, 12)
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.True(t, both[0].Spending.Equal(decimal.RequireFromString("15.00")))
}

func TestProcessedFilesHistory(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.InsertBatch([]models.Transaction{
		testTx(models.AccountPNCChecking, date(2024, time.January, 5), "-4.50", "995.50"),
	}, "first.csv", models.AccountPNCChecking)
	require.NoError(t, err)

	_, err = l.InsertBatch([]models.Transaction{
		testTx(models.AccountCapitalOne, date(2024, time.January, 6), "-1.00", ""),
		testTx(models.AccountCapitalOne, date(2024, time.January, 7), "-2.00", ""),
	}, "second.csv", models.AccountCapitalOne)
	require.NoError(t, err)

	files, err := l.ProcessedFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)

	// Newest first; same-second timestamps fall back to insertion order.
	assert.Equal(t, "second.csv", files[0].Filename)
	assert.Equal(t, models.AccountCapitalOne, files[0].AccountName)
	assert.Equal(t, 2, files[0].TransactionCount)
	assert.Equal(t, "first.csv", files[1].Filename)
	assert.Equal(t, 1, files[1].TransactionCount)
	assert.False(t, files[0].ProcessedAt.IsZero())
}

func TestYTDAverageBalance(t *testing.T) {
	l := openTestLedger(t)

	year := time.Now().Year()
	batch := []models.Transaction{
		testTx(models.AccountPNCChecking, date(year, time.January, 10), "-1.00", "1000.00"),
		testTx(models.AccountPNCChecking, date(year, time.January, 20), "-1.00", "2000.00"),
		// Prior-year balances are excluded from the average.
		testTx(models.AccountPNCChecking, date(year-1, time.December, 20), "-1.00", "9000.00"),
	}
	_, err := l.InsertBatch(batch, fmt.Sprintf("ytd-%d.csv", year), models.AccountPNCChecking)
	require.NoError(t, err)

	avg, err := l.YTDAverageBalance(models.AccountPNCChecking)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.RequireFromString("1500.00")), "average was %s", avg)
}

func TestYTDAverageBalanceEmpty(t *testing.T) {
	l := openTestLedger(t)

	avg, err := l.YTDAverageBalance(models.AccountPNCChecking)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())
}

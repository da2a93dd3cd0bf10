package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/adaves/wealth-tracker/internal/currencyutils"
	"github.com/adaves/wealth-tracker/internal/dateutils"
	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
)

// pncRow represents a single row in a PNC statement export.
// It uses struct tags for gocsv unmarshaling.
type pncRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Withdrawals string `csv:"Withdrawals"`
	Deposits    string `csv:"Deposits"`
	Category    string `csv:"Category"`
	Balance     string `csv:"Balance"`
}

// pncParser normalizes the withdrawal/deposit format. A present withdrawal
// makes the amount negative, otherwise the deposit is taken positive; the
// two are mutually exclusive per row by construction of the export. PNC is
// the one format that reports a running balance.
type pncParser struct{}

func (pncParser) Parse(r io.Reader, file string) ([]models.Transaction, []*ingesterror.RowError, error) {
	var rows []*pncRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, fmt.Errorf("error reading PNC statement: %w", err)
	}

	var transactions []models.Transaction
	var rowErrors []*ingesterror.RowError
	for i, row := range rows {
		tx, err := convertPNCRow(row)
		if err != nil {
			rowErr := err.(*ingesterror.RowError)
			rowErr.File = file
			rowErr.Row = i + 1
			rowErrors = append(rowErrors, rowErr)
			log.WithError(rowErr).Warn("Skipping unparseable PNC row")
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions, rowErrors, nil
}

func convertPNCRow(row *pncRow) (models.Transaction, error) {
	date, err := dateutils.ParseDate(row.Date)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Date", Err: err}
	}

	withdrawal, err := currencyutils.ParseOptionalAmount(row.Withdrawals)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Withdrawals", Err: err}
	}
	deposit, err := currencyutils.ParseOptionalAmount(row.Deposits)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Deposits", Err: err}
	}

	// Sign resolution: withdrawal wins when present, even a zero one. A row
	// with neither value normalizes to a zero amount and is rejected by
	// validation.
	amount := decimal.Zero
	switch {
	case withdrawal.Valid && !withdrawal.Decimal.IsZero():
		amount = withdrawal.Decimal.Neg()
	case deposit.Valid:
		amount = deposit.Decimal
	}

	// Balance may be blank in a malformed export; validation requires it
	// for this format, so a missing value rejects the whole file rather
	// than just this row.
	balance, err := currencyutils.ParseOptionalAmount(row.Balance)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Balance", Err: err}
	}

	return models.Transaction{
		Date:        date,
		Description: strings.TrimSpace(row.Description),
		Amount:      amount,
		Category:    strings.TrimSpace(row.Category),
		Account:     models.AccountPNCChecking,
		Balance:     balance,
	}, nil
}

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

// capitalOneRow represents a single row in a Capital One statement export.
// It uses struct tags for gocsv unmarshaling.
type capitalOneRow struct {
	TransactionDate string `csv:"Transaction Date"`
	PostedDate      string `csv:"Posted Date"`
	CardNo          string `csv:"Card No."`
	Description     string `csv:"Description"`
	Category        string `csv:"Category"`
	Debit           string `csv:"Debit"`
	Credit          string `csv:"Credit"`
}

// capitalOneParser normalizes the debit/credit column format. A present
// debit makes the amount negative, otherwise the credit is taken positive.
type capitalOneParser struct{}

func (capitalOneParser) Parse(r io.Reader, file string) ([]models.Transaction, []*ingesterror.RowError, error) {
	var rows []*capitalOneRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, fmt.Errorf("error reading Capital One statement: %w", err)
	}

	var transactions []models.Transaction
	var rowErrors []*ingesterror.RowError
	for i, row := range rows {
		tx, err := convertCapitalOneRow(row)
		if err != nil {
			rowErr := err.(*ingesterror.RowError)
			rowErr.File = file
			rowErr.Row = i + 1
			rowErrors = append(rowErrors, rowErr)
			log.WithError(rowErr).Warn("Skipping unparseable Capital One row")
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions, rowErrors, nil
}

func convertCapitalOneRow(row *capitalOneRow) (models.Transaction, error) {
	date, err := dateutils.ParseDate(row.TransactionDate)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Transaction Date", Err: err}
	}

	debit, err := currencyutils.ParseOptionalAmount(row.Debit)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Debit", Err: err}
	}
	credit, err := currencyutils.ParseOptionalAmount(row.Credit)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Credit", Err: err}
	}

	amount := decimal.Zero
	switch {
	case debit.Valid && !debit.Decimal.IsZero():
		amount = debit.Decimal.Neg()
	case credit.Valid:
		amount = credit.Decimal
	}

	return models.Transaction{
		Date:        date,
		Description: strings.TrimSpace(row.Description),
		Amount:      amount,
		Category:    strings.TrimSpace(row.Category),
		Account:     models.AccountCapitalOne,
	}, nil
}

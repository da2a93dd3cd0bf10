package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/adaves/wealth-tracker/internal/currencyutils"
	"github.com/adaves/wealth-tracker/internal/dateutils"
	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
)

// outflowTypes are the Chase type tags that mark a row as spending. The
// match is case-insensitive.
var outflowTypes = map[string]bool{
	"sale":    true,
	"payment": true,
}

// chaseRow represents a single row in a Chase statement export.
// It uses struct tags for gocsv unmarshaling.
type chaseRow struct {
	TransactionDate string `csv:"Transaction Date"`
	PostDate        string `csv:"Post Date"`
	Description     string `csv:"Description"`
	Category        string `csv:"Category"`
	Type            string `csv:"Type"`
	Amount          string `csv:"Amount"`
	Memo            string `csv:"Memo"`
}

// chaseParser normalizes the type-tagged single-amount format. The amount is
// parsed as written and negated when the Type tag marks an outflow. Both
// Chase sub-accounts share this shape, so the parser carries the account
// name resolved during detection.
type chaseParser struct {
	account string
}

func (p chaseParser) Parse(r io.Reader, file string) ([]models.Transaction, []*ingesterror.RowError, error) {
	var rows []*chaseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, fmt.Errorf("error reading Chase statement: %w", err)
	}

	var transactions []models.Transaction
	var rowErrors []*ingesterror.RowError
	for i, row := range rows {
		tx, err := p.convertRow(row)
		if err != nil {
			rowErr := err.(*ingesterror.RowError)
			rowErr.File = file
			rowErr.Row = i + 1
			rowErrors = append(rowErrors, rowErr)
			log.WithError(rowErr).Warn("Skipping unparseable Chase row")
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions, rowErrors, nil
}

func (p chaseParser) convertRow(row *chaseRow) (models.Transaction, error) {
	date, err := dateutils.ParseDate(row.TransactionDate)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Transaction Date", Err: err}
	}

	amount, err := currencyutils.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, &ingesterror.RowError{Field: "Amount", Err: err}
	}
	if outflowTypes[strings.ToLower(strings.TrimSpace(row.Type))] {
		amount = amount.Neg()
	}

	description := strings.TrimSpace(row.Description)
	memo := strings.TrimSpace(row.Memo)
	if memo != "" && memo != description {
		description = fmt.Sprintf("%s - %s", description, memo)
	}

	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    strings.TrimSpace(row.Category),
		Account:     p.account,
	}, nil
}

// Package formats classifies statement exports into the known account
// formats and normalizes their rows into canonical transactions. Each format
// owns its column signature, sign convention and date convention; adding a
// format means adding one signature and one row parser, never deepening the
// existing ones.
package formats

import (
	"strings"

	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
	"github.com/adaves/wealth-tracker/internal/tabular"
)

// starWarsToken in a file path marks the Chase Star Wars sub-account, whose
// exports are otherwise identical in shape to Chase SW.
const starWarsToken = "star_wars"

// signature is one ordered detection rule. Rules are checked in order and
// the first match wins; the known signatures have no overlapping column
// sets, so order is only significant if a future format's columns become a
// superset of another's.
type signature struct {
	format  models.AccountFormat
	columns []string
}

var signatures = []signature{
	{models.FormatPNC, []string{"Date", "Description", "Withdrawals", "Deposits", "Category", "Balance"}},
	{models.FormatChaseSW, []string{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount", "Memo"}},
	{models.FormatCapitalOne, []string{"Transaction Date", "Posted Date", "Card No.", "Description", "Category", "Debit", "Credit"}},
}

// Detect classifies a header row into one of the known account formats. The
// path is consulted only to tell the two Chase sub-accounts apart. Detection
// is pure; an unmatched header returns an UnknownFormatError carrying the
// found columns and every expected signature.
func Detect(header []string, path string) (models.AccountFormat, error) {
	columns := make(map[string]bool, len(header))
	for _, col := range header {
		columns[strings.TrimSpace(col)] = true
	}

	for _, sig := range signatures {
		if !containsAll(columns, sig.columns) {
			continue
		}
		if sig.format == models.FormatChaseSW && strings.Contains(strings.ToLower(path), starWarsToken) {
			return models.FormatChaseStarWars, nil
		}
		return sig.format, nil
	}

	expected := make(map[string][]string, len(signatures))
	for _, sig := range signatures {
		expected[string(sig.format)] = sig.columns
	}
	return "", &ingesterror.UnknownFormatError{
		File:     path,
		Found:    header,
		Expected: expected,
	}
}

// DetectFile peeks at a statement file's header row and classifies it.
func DetectFile(path string) (models.AccountFormat, error) {
	header, err := tabular.PeekHeader(path)
	if err != nil {
		return "", err
	}
	return Detect(header, path)
}

func containsAll(columns map[string]bool, required []string) bool {
	for _, col := range required {
		if !columns[col] {
			return false
		}
	}
	return true
}

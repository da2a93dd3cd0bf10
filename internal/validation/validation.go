// Package validation applies the business rules every transaction must pass
// before it may enter the ledger. Validation gates whole files: one failing
// row rejects the entire batch.
package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
)

// MaxAmount is the sanity ceiling on a single transaction's magnitude.
var MaxAmount = decimal.NewFromInt(50000)

// balanceRequired lists accounts whose statement format reports a running
// balance; their transactions must carry one.
var balanceRequired = map[string]bool{
	models.AccountPNCChecking: true,
}

// Validate checks one transaction against the business rules, in a fixed
// order, and returns a verdict with a human-readable reason. Only the first
// violated rule is reported.
func Validate(tx models.Transaction) (bool, string) {
	if strings.TrimSpace(tx.Description) == "" {
		return false, "description cannot be empty"
	}
	if strings.TrimSpace(tx.Category) == "" {
		return false, "category cannot be empty"
	}
	if tx.Amount.IsZero() {
		return false, "amount cannot be zero"
	}
	if tx.Date.IsZero() {
		return false, "date is required"
	}
	if balanceRequired[tx.Account] && !tx.Balance.Valid {
		return false, "balance is required for " + tx.Account + " transactions"
	}
	if tx.Date.After(time.Now()) {
		return false, "transaction date cannot be in the future"
	}
	if tx.Amount.Abs().GreaterThan(MaxAmount) {
		return false, "transaction amount exceeds reasonable limit"
	}
	return true, ""
}

// ValidateBatch validates every transaction in a file's batch. The first
// failure aborts with a BatchValidationError naming the row and rule; nil
// means the whole batch may be committed.
func ValidateBatch(file string, transactions []models.Transaction) error {
	for i, tx := range transactions {
		if ok, reason := Validate(tx); !ok {
			return &ingesterror.BatchValidationError{
				File:   file,
				Row:    i + 1,
				Reason: reason,
			}
		}
	}
	return nil
}

// Package models defines the canonical data shapes shared across the
// application: the normalized Transaction, the seeded Account set, and the
// ProcessedFile audit record.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical, format-independent record a statement row is
// normalized into. Amount is signed: negative for outflows/debits, positive
// for inflows/credits. Balance is the running balance as reported by the
// source statement and is only present for formats that supply one.
//
// ID, AccountID and FileID are storage-assigned and remain zero until the
// transaction has been committed by the ledger.
type Transaction struct {
	ID          int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
	Account     string
	Balance     decimal.NullDecimal
	AccountID   int64
	FileID      int64
}

// IsDebit reports whether the transaction is an outflow.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCredit reports whether the transaction is an inflow.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// HasBalance reports whether the source statement supplied a running balance.
func (t Transaction) HasBalance() bool {
	return t.Balance.Valid
}

// ProcessedFile records one successfully ingested source file. It is created
// exactly once per ingestion, never updated, and removed only by undo, which
// cascades to every Transaction referencing it.
type ProcessedFile struct {
	ID               int64
	Filename         string
	AccountID        int64
	AccountName      string
	ProcessedAt      time.Time
	TransactionCount int
}

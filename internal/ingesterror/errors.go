// Package ingesterror defines the typed errors surfaced by the ingestion
// pipeline. Recoverable, expected conditions (unknown format, a bad row, an
// undo target that does not exist) are reported through these types or plain
// boolean returns; only genuinely unexpected failures propagate as wrapped
// hard errors.
package ingesterror

import (
	"fmt"
	"strings"
)

// UnknownFormatError reports a file whose header matched none of the known
// statement signatures. It carries full diagnostics: the columns that were
// found and every signature that was expected.
type UnknownFormatError struct {
	File     string
	Found    []string
	Expected map[string][]string
}

func (e *UnknownFormatError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unrecognized statement format in %s: found columns [%s]",
		e.File, strings.Join(e.Found, ", "))
	for name, cols := range e.Expected {
		fmt.Fprintf(&sb, "; %s expects [%s]", name, strings.Join(cols, ", "))
	}
	return sb.String()
}

// RowError reports a single statement row that could not be normalized. Rows
// failing this way are skipped and the rest of the file continues.
type RowError struct {
	File  string
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: failed to normalize %s: %v", e.File, e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// BatchValidationError reports the first business-rule violation in a file.
// One of these aborts the whole file: no row from the batch is committed.
type BatchValidationError struct {
	File   string
	Row    int
	Reason string
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s at row %d: %s", e.File, e.Row, e.Reason)
}

// UnknownAccountError reports an account name missing from the seeded
// accounts table. This is a configuration defect rather than a user data
// error, so the ledger fails the write fatally.
type UnknownAccountError struct {
	Account string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("account %q is not present in the seeded accounts table", e.Account)
}

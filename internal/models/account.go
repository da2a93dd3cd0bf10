package models

// Account names are a fixed, pre-seeded enumeration. Ingestion never creates
// accounts; it references them by name and the ledger resolves the name to a
// row id at write time. A name missing from the seed set is a configuration
// defect, not user data.
const (
	AccountPNCChecking   = "PNC Checking"
	AccountChaseSW       = "Chase SW"
	AccountChaseStarWars = "Chase Star Wars"
	AccountCapitalOne    = "Capital One"
)

// SeededAccounts lists every account the ledger creates on first open, in
// seed order.
var SeededAccounts = []string{
	AccountPNCChecking,
	AccountChaseSW,
	AccountChaseStarWars,
	AccountCapitalOne,
}

// AccountFormat tags one of the known statement export formats.
type AccountFormat string

const (
	// FormatPNC is the withdrawal/deposit format with a reported running
	// balance.
	FormatPNC AccountFormat = "pnc"
	// FormatChaseSW and FormatChaseStarWars share the type-tagged
	// single-amount signature and are told apart by the file path.
	FormatChaseSW       AccountFormat = "chase_sw"
	FormatChaseStarWars AccountFormat = "chase_star_wars"
	// FormatCapitalOne is the debit/credit column format.
	FormatCapitalOne AccountFormat = "capital_one"
)

// AccountName maps a detected format to the seeded account it belongs to.
func (f AccountFormat) AccountName() string {
	switch f {
	case FormatPNC:
		return AccountPNCChecking
	case FormatChaseSW:
		return AccountChaseSW
	case FormatChaseStarWars:
		return AccountChaseStarWars
	case FormatCapitalOne:
		return AccountCapitalOne
	}
	return ""
}

// ReportsBalance reports whether statements of this format carry a running
// balance column. Validation requires a balance on every transaction from
// such a format.
func (f AccountFormat) ReportsBalance() bool {
	return f == FormatPNC
}

package formats

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/adaves/wealth-tracker/internal/ingesterror"
	"github.com/adaves/wealth-tracker/internal/models"
	"github.com/adaves/wealth-tracker/internal/tabular"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// RowParser converts statement rows of one format into canonical
// transactions. Rows that cannot be normalized are reported as RowErrors and
// skipped; the rest of the file continues. Only a failure to read the input
// at all is returned as a hard error.
type RowParser interface {
	Parse(r io.Reader, file string) ([]models.Transaction, []*ingesterror.RowError, error)
}

// ParserFor returns the row parser matching a detected format.
func ParserFor(format models.AccountFormat) (RowParser, error) {
	switch format {
	case models.FormatPNC:
		return pncParser{}, nil
	case models.FormatChaseSW:
		return chaseParser{account: models.AccountChaseSW}, nil
	case models.FormatChaseStarWars:
		return chaseParser{account: models.AccountChaseStarWars}, nil
	case models.FormatCapitalOne:
		return capitalOneParser{}, nil
	default:
		return nil, fmt.Errorf("unknown statement format: %s", format)
	}
}

// ParseFile reads a statement file fully and normalizes every row with the
// parser for the given format.
func ParseFile(path string, format models.AccountFormat) ([]models.Transaction, []*ingesterror.RowError, error) {
	parser, err := ParserFor(format)
	if err != nil {
		return nil, nil, err
	}

	r, err := tabular.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.WithError(err).Warn("Failed to close statement file")
		}
	}()

	return parser.Parse(r, path)
}

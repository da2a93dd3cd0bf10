// Package categorizer fills in the category of statement rows whose Category
// cell is blank, using keyword matching against the description. Mappings
// are loaded from a YAML file so they can grow without code changes.
package categorizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/adaves/wealth-tracker/internal/models"
)

// FallbackCategory is assigned when no keyword matches. Keeping it non-empty
// means a statement quirk (a blank Category cell) does not reject the whole
// file at validation.
const FallbackCategory = "Uncategorized"

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// CategoryConfig maps one category name to the keywords that select it.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Categorizer matches descriptions against configured category keywords.
type Categorizer struct {
	categories []CategoryConfig
}

// Load reads category mappings from a YAML file. A missing file is not an
// error; the categorizer then only applies the fallback.
func Load(path string) (*Categorizer, error) {
	if path == "" {
		return &Categorizer{}, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if os.IsNotExist(err) {
		log.WithField("file", path).Debug("No category file found, using fallback only")
		return &Categorizer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading category file: %w", err)
	}

	var categories []CategoryConfig
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("error parsing category file %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{
		"file":  path,
		"count": len(categories),
	}).Debug("Loaded category mappings")
	return &Categorizer{categories: categories}, nil
}

// Categorize returns the category whose keyword first matches the
// description, case-insensitively, or the fallback.
func (c *Categorizer) Categorize(description string) string {
	upper := strings.ToUpper(description)
	for _, category := range c.categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(upper, strings.ToUpper(keyword)) {
				return category.Name
			}
		}
	}
	return FallbackCategory
}

// Apply fills the category of every transaction that arrived without one.
// Categories supplied by the statement are never overridden.
func (c *Categorizer) Apply(transactions []models.Transaction) {
	for i := range transactions {
		if strings.TrimSpace(transactions[i].Category) != "" {
			continue
		}
		transactions[i].Category = c.Categorize(transactions[i].Description)
	}
}

// Package category assigns each evidence file one of the fixed categories
// from its name and root-relative path.
package category

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Aman-CERP/evidex/internal/config"
)

type rule struct {
	category string
	re       *regexp.Regexp
}

// Categorizer applies ordered rules; the first match wins and files that
// match nothing fall back to Other.
type Categorizer struct {
	rules    []rule
	fallback string
}

// New compiles rules in order.
func New(rules []config.CategoryRule) (*Categorizer, error) {
	c := &Categorizer{rules: make([]rule, 0, len(rules)), fallback: config.CategoryOther}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for category %q: %w", r.Category, err)
		}
		c.rules = append(c.rules, rule{category: r.Category, re: re})
	}
	return c, nil
}

// Default returns a Categorizer over the built-in rules.
func Default() *Categorizer {
	c, err := New(config.DefaultVocabulary().CategoryRules)
	if err != nil {
		panic(err)
	}
	return c
}

// Categorize matches the rules against lower(name + " " + relPath).
func (c *Categorizer) Categorize(name, relPath string) string {
	hay := strings.ToLower(name + " " + relPath)
	for _, r := range c.rules {
		if r.re.MatchString(hay) {
			return r.category
		}
	}
	return c.fallback
}

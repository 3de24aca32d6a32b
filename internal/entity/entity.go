// Package entity matches canonical entities and their alias spellings in
// file names and document text.
package entity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Aman-CERP/evidex/internal/config"
)

// MinTermLength is the shortest file name token promoted to an entity.
const MinTermLength = 4

var separatorRe = regexp.MustCompile(`[\\/_.()\[\]{}\-]+`)

// AliasTable maps canonical names to alias spellings in a fixed order.
// It is immutable once built.
type AliasTable struct {
	canonicals []string
	aliases    map[string][]string
}

// Build returns a table holding the seed entries followed by every
// discovered term that is not already a canonical key. Each discovered term
// becomes a singleton alias of itself.
func Build(seed []config.AliasEntry, discovered []string) *AliasTable {
	t := &AliasTable{aliases: make(map[string][]string, len(seed)+len(discovered))}
	for _, e := range seed {
		if _, ok := t.aliases[e.Canonical]; ok || e.Canonical == "" {
			continue
		}
		list := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				list = append(list, a)
			}
		}
		t.canonicals = append(t.canonicals, e.Canonical)
		t.aliases[e.Canonical] = list
	}
	for _, term := range discovered {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if _, ok := t.aliases[term]; ok {
			continue
		}
		t.canonicals = append(t.canonicals, term)
		t.aliases[term] = []string{term}
	}
	return t
}

// Canonicals returns the canonical names in table order.
func (t *AliasTable) Canonicals() []string {
	return append([]string(nil), t.canonicals...)
}

// Aliases returns the alias list for canonical.
func (t *AliasTable) Aliases(canonical string) []string {
	return append([]string(nil), t.aliases[canonical]...)
}

// Len returns the number of canonical entries.
func (t *AliasTable) Len() int {
	return len(t.canonicals)
}

// Tokenize splits a file name on path separators, underscores, dots,
// brackets and hyphens, then on whitespace.
func Tokenize(name string) []string {
	return strings.Fields(separatorRe.ReplaceAllString(name, " "))
}

// DiscoverTerms returns the distinct all-caps alphabetic tokens of at least
// MinTermLength runes found in names, in first-seen order. Tokens equal to a
// stopword (case-insensitively) are skipped.
func DiscoverTerms(names []string, stopwords []string) []string {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, name := range names {
		for _, tok := range Tokenize(name) {
			if utf8.RuneCountInString(tok) < MinTermLength {
				continue
			}
			if _, ok := stop[strings.ToLower(tok)]; ok {
				continue
			}
			if !isUpperAlpha(tok) {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			terms = append(terms, tok)
		}
	}
	return terms
}

// isUpperAlpha reports whether s is non-empty, all letters, and has no
// lowercase letter while having at least one cased letter.
func isUpperAlpha(s string) bool {
	cased := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

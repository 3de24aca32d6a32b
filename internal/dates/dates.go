// Package dates finds literal date strings in file names and document text.
// Matches are substrings only; nothing is parsed into a calendar value.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Aman-CERP/evidex/internal/config"
)

// DefaultPatterns are the built-in pattern families in match order:
// ISO 2024-01-05, "January 5, 2024", and 1/5/2024.
var DefaultPatterns = config.DefaultVocabulary().DatePatterns

// Recognizer extracts dates with an ordered list of patterns. A match must
// not touch a letter or digit on either side; underscores and punctuation
// count as boundaries. It is safe for concurrent use.
type Recognizer struct {
	patterns []*regexp.Regexp
}

// New compiles patterns. Patterns must not rely on \b; boundaries are
// checked by the recognizer.
func New(patterns []string) (*Recognizer, error) {
	r := &Recognizer{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid date pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Default returns a Recognizer over DefaultPatterns.
func Default() *Recognizer {
	r, err := New(DefaultPatterns)
	if err != nil {
		panic(err)
	}
	return r
}

// Find returns every date in text: pattern order first, then position.
// Duplicates are removed case-insensitively, keeping the first spelling.
func (r *Recognizer) Find(text string) []string {
	out := []string{}
	if text == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, re := range r.patterns {
		for _, m := range findBounded(re, text) {
			key := strings.ToLower(m)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// findBounded returns non-overlapping matches of re whose edges sit on a
// boundary. A rejected candidate is retried one rune further on.
func findBounded(re *regexp.Regexp, text string) []string {
	var out []string
	pos := 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			pos = start + 1
			continue
		}
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			out = append(out, text[start:end])
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return out
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

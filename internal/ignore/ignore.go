// Package ignore matches slash-separated relative paths against
// gitignore-style exclusion patterns.
//
// Supported syntax: "*", "?", "[...]", "**/" and "/**", a trailing "/" for
// directories only, a leading "/" to anchor at the root, "!" to re-include
// and "\" escapes. Later patterns override earlier ones.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FileName is the per-root exclusion file read by the walker.
const FileName = ".evidexignore"

// Matcher holds compiled patterns. It is immutable after construction and
// safe for concurrent use.
type Matcher struct {
	rules []rule
}

type rule struct {
	re       *regexp.Regexp
	negate   bool
	dirOnly  bool
	anchored bool
}

// New compiles patterns in order. Blank lines and "#" comments are skipped.
func New(patterns ...string) *Matcher {
	m := &Matcher{rules: make([]rule, 0, len(patterns))}
	for _, p := range patterns {
		if r, ok := compile(p); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// Len returns the number of compiled rules.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// With returns a new Matcher with extra patterns appended after m's.
func (m *Matcher) With(patterns ...string) *Matcher {
	extra := New(patterns...)
	out := &Matcher{rules: make([]rule, 0, m.Len()+len(extra.rules))}
	if m != nil {
		out.rules = append(out.rules, m.rules...)
	}
	out.rules = append(out.rules, extra.rules...)
	return out
}

// ReadFile returns the raw pattern lines of an ignore file.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	return lines, nil
}

// Match reports whether rel is excluded. A file inside an excluded
// directory is excluded too.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if m.Len() == 0 {
		return false
	}
	excluded := false
	for _, r := range m.rules {
		if r.matches(rel, isDir) {
			excluded = !r.negate
		}
	}
	return excluded
}

func compile(pattern string) (rule, bool) {
	escapedSpace := strings.HasSuffix(pattern, `\ `)
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || strings.HasPrefix(pattern, "#") {
		return rule{}, false
	}

	var r rule
	switch {
	case strings.HasPrefix(pattern, `\#`), strings.HasPrefix(pattern, `\!`):
		pattern = pattern[1:]
	case strings.HasPrefix(pattern, "!"):
		r.negate = true
		pattern = pattern[1:]
	}
	if escapedSpace && strings.HasSuffix(pattern, `\`) {
		pattern = strings.TrimSuffix(pattern, `\`) + " "
	}
	if strings.HasSuffix(pattern, "/") {
		r.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		r.anchored = true
		pattern = pattern[1:]
	}
	// "doc/frotz" means "/doc/frotz".
	if strings.Contains(pattern, "/") && !strings.HasPrefix(pattern, "**/") && !strings.HasPrefix(pattern, "*") {
		r.anchored = true
	}
	if pattern == "" {
		return rule{}, false
	}

	re, err := regexp.Compile("^" + toRegex(pattern) + "$")
	if err != nil {
		return rule{}, false
	}
	r.re = re
	return r, true
}

func (r rule) matches(rel string, isDir bool) bool {
	parts := strings.Split(rel, "/")

	if r.anchored {
		if r.re.MatchString(rel) {
			return !r.dirOnly || isDir
		}
		for i := range parts[:len(parts)-1] {
			if r.re.MatchString(strings.Join(parts[:i+1], "/")) {
				return true
			}
		}
		return false
	}

	if r.dirOnly {
		for i, part := range parts {
			if r.re.MatchString(part) {
				return i < len(parts)-1 || isDir
			}
		}
		return false
	}

	if r.re.MatchString(rel) {
		return true
	}
	for _, part := range parts {
		if r.re.MatchString(part) {
			return true
		}
	}
	return false
}

// toRegex translates one glob to a regular expression body.
func toRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch c {
		case '*':
			if strings.HasPrefix(pattern[i:], "**/") {
				b.WriteString("(?:.*/)?")
				i += 3
				continue
			}
			if strings.HasPrefix(pattern[i:], "**") && (i == 0 || pattern[i-1] == '/') {
				b.WriteString(".*")
				i += 2
				continue
			}
			b.WriteString("[^/]*")
			i++
		case '?':
			b.WriteString("[^/]")
			i++
		case '[':
			j := strings.IndexByte(pattern[i+1:], ']')
			if j < 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			class := pattern[i : i+j+2]
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}
			b.WriteString(class)
			i += j + 2
		case '\\':
			if i+1 < len(pattern) {
				b.WriteString(regexp.QuoteMeta(pattern[i+1 : i+2]))
				i += 2
				continue
			}
			b.WriteString(`\\`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	return b.String()
}

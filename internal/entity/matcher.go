package entity

import "strings"

// Matcher counts alias occurrences for every canonical in a table. It is
// safe for concurrent use.
type Matcher struct {
	canonicals []string
	lowered    map[string][]string
}

// NewMatcher prepares lowercase aliases for table.
func NewMatcher(table *AliasTable) *Matcher {
	m := &Matcher{
		canonicals: table.canonicals,
		lowered:    make(map[string][]string, len(table.canonicals)),
	}
	for _, c := range table.canonicals {
		aliases := table.aliases[c]
		low := make([]string, 0, len(aliases))
		for _, a := range aliases {
			low = append(low, strings.ToLower(a))
		}
		m.lowered[c] = low
	}
	return m
}

// Count returns, per canonical, the summed non-overlapping case-insensitive
// occurrences of its aliases in text. Canonicals with no hit are omitted.
// Aliases are matched as plain substrings, so "Cody" also counts inside
// "Cody McKenzie".
func (m *Matcher) Count(text string) map[string]int {
	hits := make(map[string]int)
	if text == "" {
		return hits
	}
	lower := strings.ToLower(text)
	for _, c := range m.canonicals {
		n := 0
		for _, a := range m.lowered[c] {
			n += strings.Count(lower, a)
		}
		if n > 0 {
			hits[c] = n
		}
	}
	return hits
}

package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Aman-CERP/evidex/internal/config"
	"github.com/Aman-CERP/evidex/internal/index"
)

// NoGapsMessage is reported when no heuristic fires.
const NoGapsMessage = "No gaps flagged by current heuristics."

type gapRule struct {
	re      *regexp.Regexp
	message string
}

// GapAnalyzer flags evidence kinds whose keywords appear in no file name.
// Findings are advisory.
type GapAnalyzer struct {
	rules []gapRule
}

// NewGapAnalyzer compiles rules in order.
func NewGapAnalyzer(rules []config.GapRule) (*GapAnalyzer, error) {
	g := &GapAnalyzer{rules: make([]gapRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid gap pattern %q: %w", r.Pattern, err)
		}
		g.rules = append(g.rules, gapRule{re: re, message: r.Message})
	}
	return g, nil
}

// Analyze runs every rule over the lowercased names, sorted and joined by
// newlines, so the result depends only on the set of names and no match
// spans two names.
func (g *GapAnalyzer) Analyze(names []string) []string {
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	sort.Strings(lowered)
	hay := strings.Join(lowered, "\n")

	var findings []string
	for _, r := range g.rules {
		if !r.re.MatchString(hay) {
			findings = append(findings, r.message)
		}
	}
	if len(findings) == 0 {
		return []string{NoGapsMessage}
	}
	return findings
}

// Names returns the file names of records.
func Names(records []index.IndexedFile) []string {
	names := make([]string, len(records))
	for i := range records {
		names[i] = records[i].Name
	}
	return names
}

// FindingCount returns how many heuristics fired in findings as returned by
// Analyze.
func FindingCount(findings []string) int {
	if len(findings) == 1 && findings[0] == NoGapsMessage {
		return 0
	}
	return len(findings)
}

package report

import (
	"strings"

	"github.com/Aman-CERP/evidex/internal/analysis"
)

// GapsHeader opens gaps_checklist.md.
const GapsHeader = "# Gaps Checklist (Heuristic)\n\n"

// RenderGaps formats findings as a markdown bullet list.
func RenderGaps(findings []string) string {
	if len(findings) == 0 {
		findings = []string{analysis.NoGapsMessage}
	}
	var b strings.Builder
	b.WriteString(GapsHeader)
	for _, f := range findings {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteGaps writes the checklist to path.
func WriteGaps(path string, findings []string) error {
	return writeFile(path, []byte(RenderGaps(findings)))
}

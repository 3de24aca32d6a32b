package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Aman-CERP/evidex/internal/config"
	"github.com/Aman-CERP/evidex/internal/index"
)

// Summary is SUMMARY.json.
type Summary struct {
	RunID                  string         `json:"run_id"`
	Version                string         `json:"version"`
	StartedAt              string         `json:"started_at"`
	FinishedAt             string         `json:"finished_at"`
	Roots                  []string       `json:"roots"`
	OutDir                 string         `json:"out_dir"`
	IndexedCount           int            `json:"indexed_count"`
	DuplicateHashGroups    int            `json:"duplicate_hash_groups"`
	EntityKeys             int            `json:"entity_keys"`
	TimelineRows           int            `json:"timeline_rows"`
	GapFindings            int            `json:"gap_findings"`
	HashSkipped            int            `json:"hash_skipped"`
	HashFailed             int            `json:"hash_failed"`
	ContentExtracted       int            `json:"content_extracted"`
	ExtractionUnavailable  map[string]int `json:"extraction_unavailable"`
	Categories             map[string]int `json:"categories"`
	SeedEntries            int            `json:"seed_entries"`
	SeedMatched            int            `json:"seed_matched"`
	PDFExtractionAvailable bool           `json:"pdf_extraction_available"`
	Notes                  []string       `json:"notes"`
}

// NoteOptions selects the wording of the summary notes.
type NoteOptions struct {
	PDFAvailable    bool
	VaultPaths      string
	MaxBytesForHash int64
	HashSkipped     int
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Timestamp formats t the way every summary time is written.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// CategoryCounts counts records per category. Every known category is
// present, with zero when unused.
func CategoryCounts(records []index.IndexedFile) map[string]int {
	counts := make(map[string]int, len(config.Categories))
	for _, c := range config.Categories {
		counts[c] = 0
	}
	for i := range records {
		counts[records[i].Category]++
	}
	return counts
}

// Notes returns the disclosures carried in every summary.
func Notes(opts NoteOptions) []string {
	notes := []string{"PII-safe default: outputs do not include raw document text."}

	if opts.PDFAvailable {
		notes = append(notes, "PDF content extraction is best-effort; PDFs without extractable text fall back to filename-only entity/date hits.")
	} else {
		notes = append(notes, "PDF content extraction was unavailable for this run; PDF-based entity/date hits come from filenames only.")
	}

	if opts.VaultPaths == config.VaultPathsAbsolute {
		notes = append(notes, "Manifest paths are prefixed with evidence-root-name and include full paths to keep them stable and local-only.")
	} else {
		notes = append(notes, "Manifest paths are prefixed with evidence-root-name and are relative to their evidence root so they stay portable.")
	}

	if opts.MaxBytesForHash > 0 {
		notes = append(notes, fmt.Sprintf(
			"Files larger than %d bytes were not hashed (%d skipped) and cannot appear in duplicate groups.",
			opts.MaxBytesForHash, opts.HashSkipped))
	} else {
		notes = append(notes, "Every readable file was hashed; no size ceiling was set.")
	}
	return notes
}

// sortedKeys returns m's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

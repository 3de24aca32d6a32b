package report

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/Aman-CERP/evidex/internal/analysis"
	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/index"
	"github.com/Aman-CERP/evidex/internal/seed"
)

// Artifact file names.
const (
	FileIndexedFiles  = "indexed_files.json"
	FileInventory     = "inventory.csv"
	FileDuplicates    = "duplicates_by_sha256.json"
	FileEntityMap     = "entity_map.json"
	FileTimeline      = "timeline.csv"
	FileVaultManifest = "evidence_vault_manifest.json"
	FileSeedParsed    = "seed_manifest_parsed.json"
	FileGaps          = "gaps_checklist.md"
	FileSummary       = "SUMMARY.json"
	FileSQLite        = "evidence.db"
)

// ArtifactNames lists every file name a run may write, in write order.
func ArtifactNames() []string {
	return []string{
		FileIndexedFiles, FileInventory, FileDuplicates, FileEntityMap, FileTimeline,
		FileVaultManifest, FileSeedParsed, FileGaps, FileSQLite, FileSummary,
	}
}

// Artifacts is everything a run writes.
type Artifacts struct {
	Records    []index.IndexedFile
	Duplicates map[string][]int
	EntityMap  map[string][]analysis.Occurrence
	Timeline   []analysis.TimelineRow
	Vault      []analysis.VaultEntry
	Seed       []seed.Entry
	Gaps       []string
	Summary    Summary
}

type step struct {
	name  string
	write func(path string) error
}

// Writer writes Artifacts into one directory.
type Writer struct {
	Dir    string
	SQLite bool
	Logger *slog.Logger
}

// Write emits every artifact. SUMMARY.json is written last so its presence
// marks a complete run. The first failure stops the write with
// ERR_208_OUTPUT_WRITE naming the file.
func (w *Writer) Write(ctx context.Context, a *Artifacts) ([]string, error) {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	normalize(a)

	steps := []step{
		{FileIndexedFiles, func(p string) error { return WriteJSON(p, a.Records) }},
		{FileInventory, func(p string) error { return WriteInventoryCSV(p, a.Records) }},
		{FileDuplicates, func(p string) error { return WriteJSON(p, a.Duplicates) }},
		{FileEntityMap, func(p string) error { return WriteJSON(p, a.EntityMap) }},
		{FileTimeline, func(p string) error { return WriteTimelineCSV(p, a.Timeline) }},
		{FileVaultManifest, func(p string) error { return WriteJSON(p, a.Vault) }},
		{FileSeedParsed, func(p string) error { return WriteJSON(p, a.Seed) }},
		{FileGaps, func(p string) error { return WriteGaps(p, a.Gaps) }},
	}
	if w.SQLite {
		steps = append(steps, step{FileSQLite, func(p string) error { return ExportSQLite(ctx, p, a) }})
	}
	steps = append(steps, step{FileSummary, func(p string) error { return WriteJSON(p, a.Summary) }})

	written := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		p := filepath.Join(w.Dir, s.name)
		if err := s.write(p); err != nil {
			return written, evxerrors.OutputError(p, err)
		}
		logger.Debug("artifact_written", slog.String("path", p))
		written = append(written, p)
	}
	return written, nil
}

// normalize replaces nil collections so JSON never carries null for them.
func normalize(a *Artifacts) {
	if a.Records == nil {
		a.Records = []index.IndexedFile{}
	}
	for i := range a.Records {
		r := &a.Records[i]
		if r.DatesFromFilename == nil {
			r.DatesFromFilename = []string{}
		}
		if r.DatesFromContent == nil {
			r.DatesFromContent = []string{}
		}
		if r.EntityHits == nil {
			r.EntityHits = map[string]int{}
		}
	}
	if a.Duplicates == nil {
		a.Duplicates = map[string][]int{}
	}
	if a.EntityMap == nil {
		a.EntityMap = map[string][]analysis.Occurrence{}
	}
	if a.Timeline == nil {
		a.Timeline = []analysis.TimelineRow{}
	}
	if a.Vault == nil {
		a.Vault = []analysis.VaultEntry{}
	}
	if a.Seed == nil {
		a.Seed = []seed.Entry{}
	}
	s := &a.Summary
	if s.Roots == nil {
		s.Roots = []string{}
	}
	if s.ExtractionUnavailable == nil {
		s.ExtractionUnavailable = map[string]int{}
	}
	if s.Categories == nil {
		s.Categories = map[string]int{}
	}
	if s.Notes == nil {
		s.Notes = []string{}
	}
}

package index

import (
	"github.com/Aman-CERP/evidex/internal/digest"
	"github.com/Aman-CERP/evidex/internal/extract"
)

// Basis values tag where a date or entity hit came from.
const (
	BasisContent  = "content"
	BasisFilename = "filename"
)

// IndexedFile is the metadata record for one discovered file. It never holds
// document text.
type IndexedFile struct {
	SourceRoot        string         `json:"source_root"`
	FullPath          string         `json:"full_path"`
	RelPath           string         `json:"rel_path"`
	Name              string         `json:"name"`
	Ext               string         `json:"ext"`
	Size              int64          `json:"size"`
	MtimeISO          string         `json:"mtime_iso"`
	SHA256            string         `json:"sha256"`
	Category          string         `json:"category"`
	ContentExtracted  bool           `json:"content_extracted"`
	DatesFromFilename []string       `json:"dates_from_filename"`
	DatesFromContent  []string       `json:"dates_from_content"`
	EntityHits        map[string]int `json:"entity_hits"`

	// Diagnostics, not serialized.
	DigestStatus  digest.Status `json:"-"`
	ExtractKind   extract.Kind  `json:"-"`
	ExtractReason string        `json:"-"`
}

// EntityBasis reports whether EntityHits were counted over the body or the
// file name.
func (f *IndexedFile) EntityBasis() string {
	if f.ContentExtracted {
		return BasisContent
	}
	return BasisFilename
}

// Stats summarizes an indexing pass.
type Stats struct {
	Files                 int
	Hashed                int
	HashSkipped           int
	HashFailed            int
	ContentExtracted      int
	ExtractionUnavailable map[string]int
	CacheHits             int
}

// statsFor derives Stats from records.
func statsFor(records []IndexedFile, cacheHits int) Stats {
	s := Stats{
		Files:                 len(records),
		ExtractionUnavailable: map[string]int{},
		CacheHits:             cacheHits,
	}
	for i := range records {
		r := &records[i]
		switch r.DigestStatus {
		case digest.Computed:
			s.Hashed++
		case digest.Skipped:
			s.HashSkipped++
		case digest.Failed:
			s.HashFailed++
		}
		if r.ContentExtracted {
			s.ContentExtracted++
		} else {
			s.ExtractionUnavailable[r.ExtractReason]++
		}
	}
	return s
}

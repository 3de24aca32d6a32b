package analysis

import (
	"github.com/Aman-CERP/evidex/internal/index"
)

// TimelineRow is one date observation.
type TimelineRow struct {
	Date       string `json:"date"`
	Event      string `json:"event"`
	Basis      string `json:"basis"`
	SourcePath string `json:"source_path"`
}

// Timeline emits, per record in order, one row per filename date followed by
// one row per content date. Rows are not sorted by date.
func Timeline(records []index.IndexedFile) []TimelineRow {
	rows := []TimelineRow{}
	for i := range records {
		r := &records[i]
		for _, d := range r.DatesFromFilename {
			rows = append(rows, TimelineRow{
				Date:       d,
				Event:      "(inferred from filename) " + r.Name,
				Basis:      index.BasisFilename,
				SourcePath: r.FullPath,
			})
		}
		for _, d := range r.DatesFromContent {
			rows = append(rows, TimelineRow{
				Date:       d,
				Event:      "(confirmed from content) " + r.Name,
				Basis:      index.BasisContent,
				SourcePath: r.FullPath,
			})
		}
	}
	return rows
}

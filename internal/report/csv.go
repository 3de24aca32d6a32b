package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/Aman-CERP/evidex/internal/analysis"
	"github.com/Aman-CERP/evidex/internal/index"
)

// InventoryColumns is the inventory.csv header, in IndexedFile field order.
var InventoryColumns = []string{
	"source_root", "full_path", "rel_path", "name", "ext", "size", "mtime_iso",
	"sha256", "category", "content_extracted", "dates_from_filename",
	"dates_from_content", "entity_hits",
}

// TimelineColumns is the timeline.csv header.
var TimelineColumns = []string{"date", "event", "basis", "source_path"}

// WriteInventoryCSV writes one row per record. List and map fields are
// JSON-encoded inside their cell.
func WriteInventoryCSV(path string, records []index.IndexedFile) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		fromName, err := marshalCompact(r.DatesFromFilename)
		if err != nil {
			return err
		}
		fromContent, err := marshalCompact(r.DatesFromContent)
		if err != nil {
			return err
		}
		hits, err := marshalCompact(r.EntityHits)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			r.SourceRoot, r.FullPath, r.RelPath, r.Name, r.Ext,
			strconv.FormatInt(r.Size, 10), r.MtimeISO, r.SHA256, r.Category,
			strconv.FormatBool(r.ContentExtracted), fromName, fromContent, hits,
		})
	}
	return writeCSV(path, InventoryColumns, rows)
}

// WriteTimelineCSV writes rows in the order given.
func WriteTimelineCSV(path string, rows []analysis.TimelineRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Date, r.Event, r.Basis, r.SourcePath})
	}
	return writeCSV(path, TimelineColumns, out)
}

func writeCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

package analysis

import (
	"sort"

	"github.com/Aman-CERP/evidex/internal/index"
)

// Occurrence is one file's hit count for an entity.
type Occurrence struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	Basis string `json:"basis"`
}

// EntityMap inverts per-file hits into canonical -> occurrences, in record
// order. Each occurrence carries the basis of the file's hits.
func EntityMap(records []index.IndexedFile) map[string][]Occurrence {
	m := make(map[string][]Occurrence)
	for i := range records {
		r := &records[i]
		basis := r.EntityBasis()
		keys := make([]string, 0, len(r.EntityHits))
		for k := range r.EntityHits {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, canonical := range keys {
			m[canonical] = append(m[canonical], Occurrence{
				Path:  r.FullPath,
				Count: r.EntityHits[canonical],
				Basis: basis,
			})
		}
	}
	return m
}

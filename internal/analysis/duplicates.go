// Package analysis aggregates indexed records into duplicate groups, the
// timeline, the entity map, gap findings and the vault manifest. Every
// function is pure over its inputs.
package analysis

import (
	"sort"

	"github.com/Aman-CERP/evidex/internal/index"
)

// Duplicates groups record indices by non-empty digest, keeping only groups
// with two or more members. Indices are ascending.
func Duplicates(records []index.IndexedFile) map[string][]int {
	byHash := make(map[string][]int)
	for i := range records {
		if h := records[i].SHA256; h != "" {
			byHash[h] = append(byHash[h], i)
		}
	}
	groups := make(map[string][]int)
	for h, idxs := range byHash {
		if len(idxs) > 1 {
			groups[h] = idxs
		}
	}
	return groups
}

// SortedDigests returns the digests of groups in ascending order.
func SortedDigests(groups map[string][]int) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

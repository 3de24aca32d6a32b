package analysis

import (
	"path/filepath"

	"github.com/Aman-CERP/evidex/internal/config"
	"github.com/Aman-CERP/evidex/internal/index"
)

// VaultEntry is one record of the path-independent evidence manifest.
type VaultEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Ext      string `json:"ext"`
	Category string `json:"category"`
}

// VaultManifest labels each record's path with label. With one root the path
// is "label:rel_path"; with several the root's base name is inserted to keep
// paths unique. style "absolute" uses "label:full_path" instead.
func VaultManifest(records []index.IndexedFile, label string, multiRoot bool, style string) []VaultEntry {
	entries := make([]VaultEntry, 0, len(records))
	for i := range records {
		r := &records[i]
		var p string
		switch {
		case style == config.VaultPathsAbsolute:
			p = r.FullPath
		case multiRoot:
			p = filepath.Base(r.SourceRoot) + "/" + r.RelPath
		default:
			p = r.RelPath
		}
		entries = append(entries, VaultEntry{
			Name:     r.Name,
			Path:     label + ":" + p,
			Ext:      r.Ext,
			Category: r.Category,
		})
	}
	return entries
}

// Package seed loads an operator-supplied evidence list from a JSON array of
// {name, path, ext, category} objects. Loading is lenient: a bad file yields
// no entries and a bad row is dropped on its own.
package seed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Aman-CERP/evidex/internal/config"
	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
)

// Drop reasons.
const (
	DropNotObject   = "not_object"
	DropMissingName = "missing_name"
	DropMissingPath = "missing_path"
)

// Entry is one parsed seed row.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Ext      string `json:"ext"`
	Category string `json:"category"`
}

// Manifest is the outcome of Load.
type Manifest struct {
	Entries []Entry
	// Dropped counts rejected rows by reason.
	Dropped map[string]int
}

// Load reads path. An empty path gives an empty manifest. An unreadable file,
// invalid JSON or a non-array document is logged and also gives an empty
// manifest.
func Load(path string, logger *slog.Logger) Manifest {
	if logger == nil {
		logger = slog.Default()
	}
	m := Manifest{Entries: []Entry{}, Dropped: map[string]int{}}
	if path == "" {
		return m
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("seed_manifest_unreadable", evxerrors.LogAttrs(invalid(path, "seed manifest unreadable", err))...)
		return m
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		logger.Warn("seed_manifest_invalid", evxerrors.LogAttrs(invalid(path, "seed manifest is not a JSON array", err))...)
		return m
	}

	for i, raw := range rows {
		entry, reason := parseRow(raw)
		if reason != "" {
			m.Dropped[reason]++
			logger.Debug("seed_row_dropped", slog.Int("row", i), slog.String("reason", reason))
			continue
		}
		m.Entries = append(m.Entries, entry)
	}
	return m
}

func invalid(path, msg string, cause error) error {
	return evxerrors.New(evxerrors.ErrCodeSeedInvalid, msg, cause).WithDetail("path", path)
}

func parseRow(raw json.RawMessage) (Entry, string) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Entry{}, DropNotObject
	}
	name := field(obj, "name")
	if name == "" {
		return Entry{}, DropMissingName
	}
	p := field(obj, "path")
	if p == "" {
		return Entry{}, DropMissingPath
	}
	ext := strings.ToLower(field(obj, "ext"))
	if ext == "" {
		ext = extFromName(name)
	}
	category := field(obj, "category")
	if category == "" {
		category = config.CategoryOther
	}
	return Entry{Name: name, Path: p, Ext: ext, Category: category}, ""
}

// field returns obj[key] as whitespace-collapsed text. Strings, numbers and
// booleans are accepted; anything else reads as empty.
func field(obj map[string]any, key string) string {
	var s string
	switch v := obj[key].(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

func extFromName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "file"
	}
	return strings.ToLower(name[i+1:])
}

// Matched counts entries whose name equals, case-insensitively, the name of
// an indexed file.
func Matched(entries []Entry, names []string) int {
	have := make(map[string]struct{}, len(names))
	for _, n := range names {
		have[strings.ToLower(n)] = struct{}{}
	}
	n := 0
	for _, e := range entries {
		if _, ok := have[strings.ToLower(e.Name)]; ok {
			n++
		}
	}
	return n
}

// String summarizes the manifest for log lines.
func (m Manifest) String() string {
	dropped := 0
	for _, c := range m.Dropped {
		dropped += c
	}
	return fmt.Sprintf("%d entries, %d dropped", len(m.Entries), dropped)
}

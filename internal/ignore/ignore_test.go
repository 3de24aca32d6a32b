package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"extension by base name", []string{"*.tmp"}, "a/b/scratch.tmp", false, true},
		{"extension miss", []string{"*.tmp"}, "a/b/scratch.txt", false, false},
		{"dir contents", []string{"drafts/**"}, "drafts/a.txt", false, true},
		{"dir contents anchored", []string{"drafts/**"}, "case/drafts/a.txt", false, false},
		{"any depth dir", []string{"**/.cache/**"}, "case/.cache/c.txt", false, true},
		{"any depth file", []string{"**/Thumbs.db"}, "case/notes/Thumbs.db", false, true},
		{"root file any depth", []string{"**/Thumbs.db"}, "Thumbs.db", false, true},
		{"dir only matches dir", []string{"scans/"}, "scans", true, true},
		{"dir only skips file", []string{"scans/"}, "scans", false, false},
		{"dir only covers children", []string{"scans/"}, "x/scans/p.pdf", false, true},
		{"leading slash anchors", []string{"/notes.txt"}, "sub/notes.txt", false, false},
		{"leading slash root", []string{"/notes.txt"}, "notes.txt", false, true},
		{"negation re-includes", []string{"*.log", "!keep.log"}, "keep.log", false, false},
		{"later pattern wins", []string{"!keep.log", "*.log"}, "keep.log", false, true},
		{"question mark", []string{"IMG_?.jpg"}, "IMG_1.jpg", false, true},
		{"char class", []string{"draft[0-9].docx"}, "draft7.docx", false, true},
		{"negated class", []string{"draft[!0-9].docx"}, "draft7.docx", false, false},
		{"escaped hash", []string{`\#1.txt`}, "#1.txt", false, true},
		{"comment ignored", []string{"# *.txt"}, "a.txt", false, false},
		{"dot is literal", []string{"a.txt"}, "abtxt", false, false},
		{"no patterns", nil, "a.txt", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.patterns...).Match(tt.path, tt.isDir))
		})
	}
}

func TestMatcher_With(t *testing.T) {
	base := New("*.tmp")
	ext := base.With("!keep.tmp", "")

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, ext.Len())
	assert.True(t, base.Match("keep.tmp", false))
	assert.False(t, ext.Match("keep.tmp", false))

	var nilMatcher *Matcher
	assert.False(t, nilMatcher.Match("a", false))
	assert.Equal(t, 1, nilMatcher.With("x").Len())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("# scratch\n*.tmp\n\nprivate/\n"), 0644))

	lines, err := ReadFile(path)
	require.NoError(t, err)

	m := New(lines...)
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Match("private/a.pdf", false))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

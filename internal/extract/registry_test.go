package extract

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// writeZip creates a zip archive holding the given entries.
func writeZip(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for n, body := range entries {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func newTestRegistry(t *testing.T, maxChars int) *Registry {
	t.Helper()
	return NewRegistry(Options{MaxChars: maxChars, PDF: false, ScratchDir: t.TempDir()})
}

func TestKindForExt(t *testing.T) {
	tests := map[string]Kind{
		"txt":  PlainText,
		"MD":   PlainText,
		"csv":  PlainText,
		"json": PlainText,
		"docx": ArchivedDocument,
		"pdf":  PortableDocument,
		"doc":  Unsupported,
		"mp4":  Unsupported,
		"file": Unsupported,
	}
	for ext, want := range tests {
		assert.Equal(t, want, KindForExt(ext), ext)
	}
}

func TestExtract_PlainText_LenientUTF8(t *testing.T) {
	// Given: a text file with an invalid byte sequence
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("Cody\xff McKenzie\n2023-05-01"))

	// When: extracting
	out := newTestRegistry(t, 0).Extract(context.Background(), path, "txt")

	// Then: invalid bytes are dropped, the rest is kept verbatim
	assert.True(t, out.Available)
	assert.Equal(t, PlainText, out.Kind)
	assert.Equal(t, "Cody McKenzie\n2023-05-01", out.Text)
	assert.Empty(t, out.Reason)
}

func TestExtract_PlainText_Truncated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "long.md", []byte(strings.Repeat("é", 50)))

	out := newTestRegistry(t, 10).Extract(context.Background(), path, "md")

	assert.True(t, out.Available)
	assert.Equal(t, strings.Repeat("é", 10), out.Text)
}

func TestExtract_PlainText_MissingFile(t *testing.T) {
	out := newTestRegistry(t, 0).Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), "txt")

	assert.False(t, out.Available)
	assert.Equal(t, ReasonReadFailed, out.Reason)
	assert.Empty(t, out.Text)
}

func TestExtract_Unsupported(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clip.mov", []byte{0, 1, 2})

	out := newTestRegistry(t, 0).Extract(context.Background(), path, "mov")

	assert.False(t, out.Available)
	assert.Equal(t, Unsupported, out.Kind)
	assert.Equal(t, ReasonUnsupportedKind, out.Reason)
}

func TestExtract_Docx(t *testing.T) {
	tests := []struct {
		name      string
		entries   map[string]string
		available bool
		reason    string
		text      string
	}{
		{
			name: "text runs joined and collapsed",
			entries: map[string]string{
				"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Cody</w:t></w:r>` +
					`<w:r><w:t xml:space="preserve">  McKenzie </w:t></w:r></w:p>` +
					`<w:p><w:r><w:T>March 3, 2024</w:T></w:r><w:r><w:t>Sheriff&apos;s Office</w:t></w:r></w:p></w:body></w:document>`,
			},
			available: true,
			text:      "Cody McKenzie March 3, 2024 Sheriff's Office",
		},
		{
			name:      "body without runs is available and empty",
			entries:   map[string]string{"word/document.xml": `<w:document><w:body/></w:document>`},
			available: true,
			text:      "",
		},
		{
			name:    "missing body",
			entries: map[string]string{"word/styles.xml": `<w:styles/>`},
			reason:  ReasonBodyMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeZip(t, t.TempDir(), "doc.docx", tt.entries)

			out := newTestRegistry(t, 0).Extract(context.Background(), path, "docx")

			assert.Equal(t, tt.available, out.Available)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, tt.text, out.Text)
			assert.Equal(t, ArchivedDocument, out.Kind)
		})
	}
}

func TestExtract_Docx_NotAZip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fake.docx", []byte("plain bytes"))

	out := newTestRegistry(t, 0).Extract(context.Background(), path, "docx")

	assert.False(t, out.Available)
	assert.Equal(t, ReasonArchiveInvalid, out.Reason)
}

func TestExtract_PDF_CapabilityDisabled(t *testing.T) {
	// Given: a registry with the PDF capability turned off
	reg := newTestRegistry(t, 0)
	path := writeFile(t, t.TempDir(), "report.pdf", []byte("%PDF-1.4"))

	// When: extracting a pdf
	out := reg.Extract(context.Background(), path, "pdf")

	// Then: it is reported as capability unavailable
	assert.False(t, reg.PDFAvailable())
	assert.False(t, out.Available)
	assert.Equal(t, PortableDocument, out.Kind)
	assert.Equal(t, ReasonCapabilityUnavailable, out.Reason)
}

func TestExtract_PDF_Malformed(t *testing.T) {
	reg := NewRegistry(Options{PDF: true, ScratchDir: t.TempDir()})
	require.True(t, reg.PDFAvailable())
	path := writeFile(t, t.TempDir(), "broken.pdf", []byte("not a pdf at all"))

	out := reg.Extract(context.Background(), path, "pdf")

	assert.False(t, out.Available)
	assert.Equal(t, ReasonParseFailed, out.Reason)
}

func TestProbePDF_UnwritableScratch(t *testing.T) {
	ok, reason := probePDF(true, filepath.Join(t.TempDir(), "missing", "dir"))

	assert.False(t, ok)
	assert.Contains(t, reason, "scratch")
}

type panicky struct{}

func (panicky) Extract(context.Context, string, int) (string, error) { panic("boom") }

type failing struct{ err error }

func (f failing) Extract(context.Context, string, int) (string, error) { return "", f.err }

func TestRegister_TogglesPDFCapability(t *testing.T) {
	reg := newTestRegistry(t, 0)
	require.False(t, reg.PDFAvailable())

	reg.Register(PortableDocument, failing{err: errors.New("stub")})
	assert.True(t, reg.PDFAvailable())

	reg.Register(PortableDocument, nil)
	assert.False(t, reg.PDFAvailable())
	out := reg.Extract(context.Background(), "scan.pdf", "pdf")
	assert.Equal(t, ReasonCapabilityUnavailable, out.Reason)
}

func TestExtract_RecoversPanics(t *testing.T) {
	reg := newTestRegistry(t, 0)
	reg.Register(PlainText, panicky{})

	out := reg.Extract(context.Background(), "whatever.txt", "txt")

	assert.False(t, out.Available)
	assert.Equal(t, ReasonParseFailed, out.Reason)
}

func TestExtract_PlainErrorsBecomeParseFailed(t *testing.T) {
	reg := newTestRegistry(t, 0)
	reg.Register(PlainText, failing{err: errors.New("opaque")})

	out := reg.Extract(context.Background(), "x.txt", "txt")

	assert.Equal(t, ReasonParseFailed, out.Reason)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "日本", Truncate("日本語", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

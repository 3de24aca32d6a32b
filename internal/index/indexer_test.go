package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/evidex/internal/category"
	"github.com/Aman-CERP/evidex/internal/config"
	"github.com/Aman-CERP/evidex/internal/dates"
	"github.com/Aman-CERP/evidex/internal/digest"
	"github.com/Aman-CERP/evidex/internal/entity"
	"github.com/Aman-CERP/evidex/internal/extract"
	"github.com/Aman-CERP/evidex/internal/walker"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// countingExtractor wraps a registry and counts calls.
type countingExtractor struct {
	inner Extractor
	calls atomic.Int32
}

func (c *countingExtractor) Extract(ctx context.Context, path, ext string) extract.Outcome {
	c.calls.Add(1)
	return c.inner.Extract(ctx, path, ext)
}

func newDeps(t *testing.T) Dependencies {
	t.Helper()
	v := config.DefaultVocabulary()
	return Dependencies{
		Extractor:   extract.NewRegistry(extract.Options{ScratchDir: t.TempDir()}),
		Dates:       dates.Default(),
		Matcher:     entity.NewMatcher(entity.Build(v.Aliases, nil)),
		Categorizer: category.Default(),
		Workers:     2,
		CacheSize:   16,
	}
}

func walkTree(t *testing.T, files map[string]string) []walker.File {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	walked, err := walker.Walk(context.Background(), []string{root}, walker.Options{})
	require.NoError(t, err)
	return walked
}

func TestIndex_EmptyTextFile(t *testing.T) {
	// Given: one zero-byte text file
	files := walkTree(t, map[string]string{"a.txt": ""})
	ix, err := New(newDeps(t))
	require.NoError(t, err)

	// When: indexing
	records, stats, err := ix.Index(context.Background(), files)

	// Then: one record with the empty-input digest and nothing found
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, emptySHA256, r.SHA256)
	assert.Equal(t, config.CategoryOther, r.Category)
	assert.Equal(t, "txt", r.Ext)
	assert.True(t, r.ContentExtracted)
	assert.Empty(t, r.DatesFromFilename)
	assert.Empty(t, r.DatesFromContent)
	assert.Empty(t, r.EntityHits)
	assert.NotNil(t, r.DatesFromFilename)
	assert.NotNil(t, r.EntityHits)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, r.MtimeISO)
	assert.Equal(t, 1, stats.Hashed)
	assert.Equal(t, 1, stats.ContentExtracted)
}

func TestIndex_WitnessStatement(t *testing.T) {
	files := walkTree(t, map[string]string{
		"Witness_Statement_2023-05-01.txt": "Statement of Cody McKenzie.",
	})
	ix, err := New(newDeps(t))
	require.NoError(t, err)

	records, _, err := ix.Index(context.Background(), files)

	require.NoError(t, err)
	r := records[0]
	assert.Equal(t, config.CategoryWitnesses, r.Category)
	assert.Equal(t, []string{"2023-05-01"}, r.DatesFromFilename)
	assert.Empty(t, r.DatesFromContent)
	assert.Equal(t, map[string]int{"Cody McKenzie": 3}, r.EntityHits)
	assert.Equal(t, BasisContent, r.EntityBasis())
}

func TestIndex_UnsupportedFallsBackToFilename(t *testing.T) {
	files := walkTree(t, map[string]string{"OCSO_bodycam_2024-02-10.mov": "\x00\x01"})
	ix, err := New(newDeps(t))
	require.NoError(t, err)

	records, stats, err := ix.Index(context.Background(), files)

	require.NoError(t, err)
	r := records[0]
	assert.False(t, r.ContentExtracted)
	assert.Equal(t, extract.ReasonUnsupportedKind, r.ExtractReason)
	assert.Equal(t, map[string]int{"OCSO": 1}, r.EntityHits)
	assert.Equal(t, BasisFilename, r.EntityBasis())
	assert.Empty(t, r.DatesFromContent)
	assert.Equal(t, []string{"2024-02-10"}, r.DatesFromFilename)
	assert.Equal(t, config.CategoryFilings, r.Category)
	assert.Equal(t, map[string]int{extract.ReasonUnsupportedKind: 1}, stats.ExtractionUnavailable)
}

func TestIndex_PreservesWalkOrder(t *testing.T) {
	tree := map[string]string{}
	for i := 0; i < 40; i++ {
		tree[fmt.Sprintf("f%02d.txt", i)] = fmt.Sprintf("body %d", i)
	}
	files := walkTree(t, tree)
	deps := newDeps(t)
	deps.Workers = 8
	ix, err := New(deps)
	require.NoError(t, err)

	records, _, err := ix.Index(context.Background(), files)

	require.NoError(t, err)
	require.Len(t, records, len(files))
	for i := range files {
		assert.Equal(t, files[i].RelPath, records[i].RelPath)
	}
}

func TestIndex_MemoReusesDuplicateContent(t *testing.T) {
	// Given: two byte-identical files
	files := walkTree(t, map[string]string{
		"a/copy1.txt": "Pontiac 2023-01-02",
		"b/copy2.txt": "Pontiac 2023-01-02",
	})
	deps := newDeps(t)
	counter := &countingExtractor{inner: deps.Extractor}
	deps.Extractor = counter
	deps.Workers = 1
	ix, err := New(deps)
	require.NoError(t, err)

	// When: indexing
	records, stats, err := ix.Index(context.Background(), files)

	// Then: the body is extracted once and both records agree
	require.NoError(t, err)
	assert.Equal(t, int32(1), counter.calls.Load())
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, records[0].SHA256, records[1].SHA256)
	assert.Equal(t, records[0].DatesFromContent, records[1].DatesFromContent)
	assert.Equal(t, map[string]int{"Pontiac": 1}, records[1].EntityHits)
}

func TestIndex_MemoDisabled(t *testing.T) {
	files := walkTree(t, map[string]string{"a.txt": "same", "b.txt": "same"})
	deps := newDeps(t)
	counter := &countingExtractor{inner: deps.Extractor}
	deps.Extractor = counter
	deps.CacheSize = 0
	ix, err := New(deps)
	require.NoError(t, err)

	_, stats, err := ix.Index(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, int32(2), counter.calls.Load())
	assert.Equal(t, 0, stats.CacheHits)
}

func TestIndex_HashCeiling(t *testing.T) {
	files := walkTree(t, map[string]string{"small.txt": "x", "large.txt": "0123456789"})
	deps := newDeps(t)
	deps.Digest = digest.Engine{MaxBytes: 5}
	ix, err := New(deps)
	require.NoError(t, err)

	records, stats, err := ix.Index(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.HashSkipped)
	assert.Equal(t, 1, stats.Hashed)
	for _, r := range records {
		if r.Name == "large.txt" {
			assert.Empty(t, r.SHA256)
			assert.Equal(t, digest.Skipped, r.DigestStatus)
			assert.True(t, r.ContentExtracted, "skipped hash still extracts")
		}
	}
}

func TestIndex_ProgressReported(t *testing.T) {
	files := walkTree(t, map[string]string{"a.txt": "1", "b.txt": "2", "c.txt": "3"})
	deps := newDeps(t)
	var calls []int
	deps.Progress = func(done, total int, _ string) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	}
	ix, err := New(deps)
	require.NoError(t, err)

	_, _, err = ix.Index(context.Background(), files)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestIndex_Cancelled(t *testing.T) {
	files := walkTree(t, map[string]string{"a.txt": "1"})
	ix, err := New(newDeps(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = ix.Index(ctx, files)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RequiresComponents(t *testing.T) {
	deps := newDeps(t)
	deps.Matcher = nil

	_, err := New(deps)

	assert.Error(t, err)
}

// Package index builds one IndexedFile per walked file by running the
// digest, extraction, date, entity and category steps.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/evidex/internal/category"
	"github.com/Aman-CERP/evidex/internal/dates"
	"github.com/Aman-CERP/evidex/internal/digest"
	"github.com/Aman-CERP/evidex/internal/entity"
	"github.com/Aman-CERP/evidex/internal/extract"
	"github.com/Aman-CERP/evidex/internal/walker"
)

// Extractor returns text for a file. *extract.Registry implements it.
type Extractor interface {
	Extract(ctx context.Context, path, ext string) extract.Outcome
}

// ProgressFunc is called after each file completes. done increases by one
// per call; calls are serialized.
type ProgressFunc func(done, total int, relPath string)

// Dependencies contains the injected components for an Indexer.
// Extractor, Dates, Matcher and Categorizer are required.
type Dependencies struct {
	Digest      digest.Engine
	Extractor   Extractor
	Dates       *dates.Recognizer
	Matcher     *entity.Matcher
	Categorizer *category.Categorizer

	// Workers bounds concurrent files. Zero means NumCPU.
	Workers int
	// CacheSize bounds the analysis memo. Zero disables it.
	CacheSize int
	Progress  ProgressFunc
	Logger    *slog.Logger
}

// memoKey identifies byte-identical content read the same way.
type memoKey struct {
	digest string
	kind   extract.Kind
}

// analysis is the text-derived part of a record.
type analysis struct {
	available bool
	reason    string
	dates     []string
	hits      map[string]int
}

// Indexer produces IndexedFile records. It is safe to reuse across calls.
type Indexer struct {
	deps      Dependencies
	memo      *lru.Cache[memoKey, analysis]
	cacheHits atomic.Int64
	logger    *slog.Logger
}

// New creates an Indexer.
func New(deps Dependencies) (*Indexer, error) {
	if deps.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if deps.Dates == nil {
		return nil, fmt.Errorf("date recognizer is required")
	}
	if deps.Matcher == nil {
		return nil, fmt.Errorf("entity matcher is required")
	}
	if deps.Categorizer == nil {
		return nil, fmt.Errorf("categorizer is required")
	}
	if deps.Workers <= 0 {
		deps.Workers = runtime.NumCPU()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ix := &Indexer{deps: deps, logger: logger}
	if deps.CacheSize > 0 {
		memo, err := lru.New[memoKey, analysis](deps.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create analysis cache: %w", err)
		}
		ix.memo = memo
	}
	return ix, nil
}

// Index processes files concurrently. Records are returned in the order of
// files. Per-file failures degrade only that record; the only error is
// context cancellation.
func (ix *Indexer) Index(ctx context.Context, files []walker.File) ([]IndexedFile, Stats, error) {
	start := time.Now()
	records := make([]IndexedFile, len(files))
	ix.cacheHits.Store(0)

	var (
		progressMu sync.Mutex
		done       int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.deps.Workers)

	for i := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = ix.indexOne(gctx, files[i])
			if ix.deps.Progress != nil {
				progressMu.Lock()
				done++
				ix.deps.Progress(done, len(files), files[i].RelPath)
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	stats := statsFor(records, int(ix.cacheHits.Load()))
	ix.logger.Info("index_complete",
		slog.Int("files", stats.Files),
		slog.Int("hashed", stats.Hashed),
		slog.Int("hash_skipped", stats.HashSkipped),
		slog.Int("hash_failed", stats.HashFailed),
		slog.Int("content_extracted", stats.ContentExtracted),
		slog.Int("cache_hits", stats.CacheHits),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return records, stats, nil
}

// indexOne builds the record for f.
func (ix *Indexer) indexOne(ctx context.Context, f walker.File) IndexedFile {
	ext := f.Ext()
	rec := IndexedFile{
		SourceRoot:        f.Root,
		FullPath:          f.AbsPath,
		RelPath:           f.RelPath,
		Name:              f.Name,
		Ext:               ext,
		Size:              f.Size,
		MtimeISO:          f.ModTime.UTC().Format(time.RFC3339),
		DatesFromFilename: ix.deps.Dates.Find(f.Name),
		DatesFromContent:  []string{},
	}

	sum := ix.deps.Digest.Sum(f.AbsPath, f.Size)
	rec.SHA256 = sum.Hex
	rec.DigestStatus = sum.Status
	switch sum.Status {
	case digest.Skipped:
		ix.logger.Debug("hash_skipped",
			slog.String("path", f.AbsPath),
			slog.Int64("size", f.Size),
			slog.Int64("max_bytes", ix.deps.Digest.MaxBytes))
	case digest.Failed:
		ix.logger.Warn("hash_failed",
			slog.String("path", f.AbsPath),
			slog.String("error", sum.Err.Error()))
	}

	a := ix.analyze(ctx, f.AbsPath, ext, sum.Hex)
	rec.ExtractKind = extract.KindForExt(ext)
	rec.ExtractReason = a.reason
	rec.ContentExtracted = a.available
	if a.available {
		rec.DatesFromContent = a.dates
		rec.EntityHits = a.hits
	} else {
		rec.EntityHits = ix.deps.Matcher.Count(f.Name)
	}

	rec.Category = ix.deps.Categorizer.Categorize(f.Name, f.RelPath)
	return rec
}

// analyze extracts text and derives dates and entity hits from it, reusing
// results for content already seen with the same digest and kind.
func (ix *Indexer) analyze(ctx context.Context, path, ext, hex string) analysis {
	key := memoKey{digest: hex, kind: extract.KindForExt(ext)}
	if ix.memo != nil && hex != "" {
		if a, ok := ix.memo.Get(key); ok {
			ix.cacheHits.Add(1)
			return a
		}
	}

	out := ix.deps.Extractor.Extract(ctx, path, ext)
	a := analysis{available: out.Available, reason: out.Reason}
	if out.Available {
		a.dates = ix.deps.Dates.Find(out.Text)
		a.hits = ix.deps.Matcher.Count(out.Text)
	} else if out.Reason != extract.ReasonUnsupportedKind {
		ix.logger.Debug("extraction_unavailable",
			slog.String("path", path),
			slog.String("kind", out.Kind.String()),
			slog.String("reason", out.Reason))
	}

	// Transient read failures are not cached so a duplicate can still succeed.
	if ix.memo != nil && hex != "" && out.Reason != extract.ReasonReadFailed {
		ix.memo.Add(key, a)
	}
	return a
}

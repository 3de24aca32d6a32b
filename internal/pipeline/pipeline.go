// Package pipeline runs one evidence indexing pass: validate roots, lock the
// output directory, walk, index, aggregate and write the artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/evidex/internal/analysis"
	"github.com/Aman-CERP/evidex/internal/category"
	"github.com/Aman-CERP/evidex/internal/config"
	"github.com/Aman-CERP/evidex/internal/dates"
	"github.com/Aman-CERP/evidex/internal/digest"
	"github.com/Aman-CERP/evidex/internal/entity"
	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/extract"
	"github.com/Aman-CERP/evidex/internal/index"
	"github.com/Aman-CERP/evidex/internal/lock"
	"github.com/Aman-CERP/evidex/internal/report"
	"github.com/Aman-CERP/evidex/internal/seed"
	"github.com/Aman-CERP/evidex/internal/ui"
	"github.com/Aman-CERP/evidex/internal/walker"
	"github.com/Aman-CERP/evidex/pkg/version"
)

// Options describes one run.
type Options struct {
	// Roots are the evidence directories, walked in order.
	Roots []string
	// OutDir receives the artifacts. It is created if missing.
	OutDir string
	// SeedManifest is an optional JSON evidence list.
	SeedManifest string
	// SQLite also writes evidence.db.
	SQLite bool
}

// Dependencies contains the injected components for a Runner.
type Dependencies struct {
	// Config is required.
	Config *config.Config
	// Renderer shows progress. Nil means no progress output.
	Renderer ui.Renderer
	Logger   *slog.Logger
	// Extractor overrides the extractor registry built from Config.
	Extractor index.Extractor
	// Now overrides the clock for summary timestamps.
	Now func() time.Time
}

// Result is the outcome of a successful run.
type Result struct {
	Summary report.Summary
	Written []string
	Stats   index.Stats
}

// Runner executes runs. It can be reused.
type Runner struct {
	cfg       *config.Config
	renderer  ui.Renderer
	logger    *slog.Logger
	extractor index.Extractor
	now       func() time.Time
}

// pdfProber is implemented by extractors that know whether PDFs can be read.
type pdfProber interface {
	PDFAvailable() bool
}

// NewRunner creates a Runner.
func NewRunner(deps Dependencies) (*Runner, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	r := &Runner{
		cfg:       deps.Config,
		renderer:  deps.Renderer,
		logger:    deps.Logger,
		extractor: deps.Extractor,
		now:       deps.Now,
	}
	if r.renderer == nil {
		r.renderer = ui.Nop{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Run is shorthand for NewRunner followed by Runner.Run.
func Run(ctx context.Context, opts Options, deps Dependencies) (*Result, error) {
	r, err := NewRunner(deps)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, opts)
}

// Run performs one pass. Root validation happens before anything touches
// the output directory. Per-file problems never fail the run; they surface
// as summary counts.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := r.now()
	cfg := r.cfg

	if err := walker.ValidateRoots(opts.Roots); err != nil {
		r.logger.Error("root_invalid", evxerrors.LogAttrs(err)...)
		return nil, err
	}
	if opts.OutDir == "" {
		return nil, evxerrors.ValidationError("--out-dir is required", nil)
	}
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, evxerrors.New(evxerrors.ErrCodeInvalidPath, "invalid output directory", err).
			WithDetail("path", opts.OutDir)
	}
	roots := make([]string, len(opts.Roots))
	for i, root := range opts.Roots {
		if roots[i], err = filepath.Abs(root); err != nil {
			return nil, evxerrors.RootError(root, err)
		}
	}

	fl, err := lock.Acquire(outDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			r.logger.Warn("lock_release_failed", slog.String("path", fl.Path()), slog.String("error", err.Error()))
		}
	}()

	r.logger.Info("run_started",
		slog.Any("roots", roots),
		slog.String("out_dir", outDir),
		slog.Int("workers", cfg.Run.Workers))

	extractor := r.extractor
	if extractor == nil {
		extractor = extract.NewRegistry(extract.Options{
			MaxChars: cfg.Extraction.MaxChars,
			PDF:      cfg.Extraction.PDF,
			Logger:   r.logger,
		})
	}
	pdfAvailable := false
	if p, ok := extractor.(pdfProber); ok {
		pdfAvailable = p.PDFAvailable()
	}

	var timings ui.StageTimings

	// Discover
	stageStart := time.Now()
	r.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageDiscover,
		Message: fmt.Sprintf("walking %d root(s)", len(roots)),
	})
	files, err := walker.Walk(ctx, roots, walker.Options{
		Exclude: cfg.Run.Exclude,
		Prune:   []string{outDir},
		Skip:    ownFiles(outDir),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("walk_incomplete", slog.String("error", err.Error()))
		r.renderer.AddError(ui.ErrorEvent{Err: err, IsWarn: true})
	}
	timings.Discover = time.Since(stageStart)

	vocab := cfg.Vocabulary()
	names := make([]string, len(files))
	for i := range files {
		names[i] = files[i].Name
	}
	table := entity.Build(vocab.Aliases, entity.DiscoverTerms(names, vocab.Stopwords))
	r.logger.Debug("entity_table_built", slog.Int("entries", table.Len()), slog.Any("canonicals", table.Canonicals()))
	recognizer, err := dates.New(vocab.DatePatterns)
	if err != nil {
		return nil, evxerrors.ConfigError("invalid date pattern", err)
	}
	categorizer, err := category.New(vocab.CategoryRules)
	if err != nil {
		return nil, evxerrors.ConfigError("invalid category rule", err)
	}
	gaps, err := analysis.NewGapAnalyzer(vocab.GapRules)
	if err != nil {
		return nil, evxerrors.ConfigError("invalid gap rule", err)
	}

	manifest := seed.Load(opts.SeedManifest, r.logger)
	if opts.SeedManifest != "" {
		r.logger.Info("seed_manifest_loaded", slog.String("path", opts.SeedManifest), slog.String("result", manifest.String()))
	}

	// Index
	stageStart = time.Now()
	r.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageIndex, Total: len(files)})
	ix, err := index.New(index.Dependencies{
		Digest:      digest.Engine{ChunkSize: cfg.Run.HashChunkSize, MaxBytes: cfg.Run.MaxBytesForHash},
		Extractor:   extractor,
		Dates:       recognizer,
		Matcher:     entity.NewMatcher(table),
		Categorizer: categorizer,
		Workers:     cfg.Run.Workers,
		CacheSize:   cfg.Cache.Size,
		Logger:      r.logger,
		Progress: func(done, total int, relPath string) {
			r.renderer.UpdateProgress(ui.ProgressEvent{
				Stage:       ui.StageIndex,
				Current:     done,
				Total:       total,
				CurrentFile: relPath,
			})
		},
	})
	if err != nil {
		return nil, evxerrors.InternalError("failed to create indexer", err)
	}
	records, stats, err := ix.Index(ctx, files)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, evxerrors.New(evxerrors.ErrCodeIndexFailed, "indexing failed", err)
	}
	warnings := r.reportDegraded(records)
	timings.Index = time.Since(stageStart)

	// Analyze
	stageStart = time.Now()
	r.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageAnalyze, Message: "building duplicates, timeline, entities and gaps"})
	artifacts := &report.Artifacts{
		Records:    records,
		Duplicates: analysis.Duplicates(records),
		EntityMap:  analysis.EntityMap(records),
		Timeline:   analysis.Timeline(records),
		Vault:      analysis.VaultManifest(records, cfg.Run.EvidenceRootName, len(roots) > 1, cfg.Run.VaultPaths),
		Seed:       manifest.Entries,
		Gaps:       gaps.Analyze(analysis.Names(records)),
	}
	timings.Analyze = time.Since(stageStart)

	// Write
	stageStart = time.Now()
	r.renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageWrite, Message: outDir})
	artifacts.Summary = report.Summary{
		RunID:                  report.NewRunID(),
		Version:                version.Short(),
		StartedAt:              report.Timestamp(started),
		FinishedAt:             report.Timestamp(r.now()),
		Roots:                  roots,
		OutDir:                 outDir,
		IndexedCount:           len(records),
		DuplicateHashGroups:    len(artifacts.Duplicates),
		EntityKeys:             len(artifacts.EntityMap),
		TimelineRows:           len(artifacts.Timeline),
		GapFindings:            analysis.FindingCount(artifacts.Gaps),
		HashSkipped:            stats.HashSkipped,
		HashFailed:             stats.HashFailed,
		ContentExtracted:       stats.ContentExtracted,
		ExtractionUnavailable:  stats.ExtractionUnavailable,
		Categories:             report.CategoryCounts(records),
		SeedEntries:            len(manifest.Entries),
		SeedMatched:            seed.Matched(manifest.Entries, names),
		PDFExtractionAvailable: pdfAvailable,
		Notes: report.Notes(report.NoteOptions{
			PDFAvailable:    pdfAvailable,
			VaultPaths:      cfg.Run.VaultPaths,
			MaxBytesForHash: cfg.Run.MaxBytesForHash,
			HashSkipped:     stats.HashSkipped,
		}),
	}
	w := &report.Writer{Dir: outDir, SQLite: opts.SQLite, Logger: r.logger}
	written, err := w.Write(ctx, artifacts)
	if err != nil {
		return nil, err
	}
	timings.Write = time.Since(stageStart)

	r.renderer.Complete(ui.CompletionStats{
		Files:            len(records),
		ContentExtracted: stats.ContentExtracted,
		DuplicateGroups:  len(artifacts.Duplicates),
		TimelineRows:     len(artifacts.Timeline),
		GapFindings:      artifacts.Summary.GapFindings,
		OutDir:           outDir,
		Duration:         time.Since(started),
		Warnings:         warnings,
		Stages:           timings,
	})
	r.logger.Info("run_complete",
		slog.String("run_id", artifacts.Summary.RunID),
		slog.Int("indexed", len(records)),
		slog.Int("duplicate_groups", len(artifacts.Duplicates)),
		slog.Int("artifacts", len(written)),
		slog.Int64("duration_ms", time.Since(started).Milliseconds()))

	return &Result{Summary: artifacts.Summary, Written: written, Stats: stats}, nil
}

// reportDegraded surfaces per-file degradations as renderer warnings and
// returns how many there were. Unsupported kinds are expected and skipped.
func (r *Runner) reportDegraded(records []index.IndexedFile) int {
	n := 0
	for i := range records {
		rec := &records[i]
		if rec.DigestStatus == digest.Failed {
			n++
			r.renderer.AddError(ui.ErrorEvent{
				File:   rec.RelPath,
				Err:    evxerrors.New(evxerrors.ErrCodeHashFailed, "hash failed", nil),
				IsWarn: true,
			})
		}
		switch rec.ExtractReason {
		case "", extract.ReasonUnsupportedKind, extract.ReasonCapabilityUnavailable:
		default:
			n++
			r.renderer.AddError(ui.ErrorEvent{
				File:   rec.RelPath,
				Err:    evxerrors.New(evxerrors.ErrCodeExtractUnavailable, "text unavailable: "+rec.ExtractReason, nil),
				IsWarn: true,
			})
		}
	}
	return n
}

// ownFiles lists the paths a run writes into outDir. They are never indexed
// when outDir is a root.
func ownFiles(outDir string) []string {
	names := append(report.ArtifactNames(), lock.FileName)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(outDir, name)
	}
	return paths
}

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/pipeline"
	"github.com/Aman-CERP/evidex/internal/report"
	"github.com/Aman-CERP/evidex/internal/ui"
)

// runOptions are the flags of the indexing run.
type runOptions struct {
	roots            []string
	seedManifest     string
	outDir           string
	evidenceRootName string
	maxBytesForHash  int64
	workers          int
	sqlite           bool
	noTUI            bool
	quiet            bool
}

// runIndex runs the pipeline and prints SUMMARY.json to stdout.
func runIndex(cmd *cobra.Command, g *globalOptions, run *runOptions) error {
	if len(run.roots) == 0 {
		return evxerrors.ValidationError("at least one --root is required", nil).
			WithSuggestion("Pass --root <dir> once per evidence directory")
	}
	if run.outDir == "" {
		return evxerrors.ValidationError("--out-dir is required", nil).
			WithSuggestion("Pass --out-dir <dir>; it is created if missing")
	}

	cfg := g.cfg
	flags := cmd.Flags()
	if flags.Changed("evidence-root-name") {
		cfg.Run.EvidenceRootName = run.evidenceRootName
	}
	if flags.Changed("max-bytes-for-hash") {
		cfg.Run.MaxBytesForHash = run.maxBytesForHash
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = run.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var renderer ui.Renderer = ui.Nop{}
	if !run.quiet {
		renderer = ui.NewRenderer(ui.NewConfig(cmd.ErrOrStderr(),
			ui.WithForcePlain(run.noTUI),
			ui.WithNoColor(ui.DetectNoColor()),
			ui.WithTitle(cfg.Run.EvidenceRootName)))
	}
	if err := renderer.Start(ctx); err != nil {
		return evxerrors.InternalError("failed to start progress display", err)
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		Roots:        run.roots,
		OutDir:       run.outDir,
		SeedManifest: run.seedManifest,
		SQLite:       run.sqlite,
	}, pipeline.Dependencies{
		Config:   cfg,
		Renderer: renderer,
		Logger:   g.logger,
	})
	_ = renderer.Stop()
	if err != nil {
		if ctx.Err() == context.Canceled {
			err = evxerrors.New(evxerrors.ErrCodeInternal, "run cancelled", err)
		}
		g.logger.Error("run_failed", slog.String("error_code", evxerrors.GetCode(err)))
		return err
	}

	if run.quiet {
		return nil
	}
	data, err := report.MarshalJSON(res.Summary)
	if err != nil {
		return evxerrors.InternalError("failed to encode summary", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

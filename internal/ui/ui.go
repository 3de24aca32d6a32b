// Package ui renders run progress: a bubbletea TUI on interactive terminals
// and plain lines everywhere else.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage is a pipeline stage.
type Stage int

const (
	// StageDiscover walks the evidence roots.
	StageDiscover Stage = iota
	// StageIndex hashes, extracts and analyzes each file.
	StageIndex
	// StageAnalyze builds duplicates, timeline, entity map and gaps.
	StageAnalyze
	// StageWrite writes the artifacts.
	StageWrite
	// StageComplete marks a finished run.
	StageComplete
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageDiscover:
		return "Discover"
	case StageIndex:
		return "Index"
	case StageAnalyze:
		return "Analyze"
	case StageWrite:
		return "Write"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the tag used in plain output.
func (s Stage) Icon() string {
	switch s {
	case StageDiscover:
		return "WALK"
	case StageIndex:
		return "INDEX"
	case StageAnalyze:
		return "ANALYZE"
	case StageWrite:
		return "WRITE"
	case StageComplete:
		return "DONE"
	default:
		return "???"
	}
}

// ProgressEvent is one progress update.
type ProgressEvent struct {
	Stage       Stage
	Current     int
	Total       int
	CurrentFile string
	Message     string
}

// ErrorEvent is a per-file problem worth showing. Runs never stop on these.
type ErrorEvent struct {
	File   string
	Err    error
	IsWarn bool
}

// StageTimings holds per-stage durations.
type StageTimings struct {
	Discover time.Duration
	Index    time.Duration
	Analyze  time.Duration
	Write    time.Duration
}

// CompletionStats is shown when a run finishes.
type CompletionStats struct {
	Files            int
	ContentExtracted int
	DuplicateGroups  int
	TimelineRows     int
	GapFindings      int
	OutDir           string
	Duration         time.Duration
	Errors           int
	Warnings         int
	Stages           StageTimings
}

// Renderer displays progress.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates the display.
	UpdateProgress(event ProgressEvent)

	// AddError records a problem.
	AddError(event ErrorEvent)

	// Complete shows the final summary.
	Complete(stats CompletionStats)

	// Stop releases the terminal.
	Stop() error
}

// Config configures a renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	// Title names the run in the TUI header, typically the evidence label.
	Title string
}

// ConfigOption modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithTitle sets the TUI header title.
func WithTitle(title string) ConfigOption {
	return func(c *Config) {
		c.Title = title
	}
}

// NewConfig creates a Config for output.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer picks the TUI for interactive terminals and the plain renderer
// for pipes, CI and --no-tui.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}
	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor reports whether NO_COLOR is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI reports whether a common CI variable is set.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Nop is a Renderer that shows nothing; used with --quiet.
type Nop struct{}

func (Nop) Start(context.Context) error { return nil }

func (Nop) UpdateProgress(ProgressEvent) {}

func (Nop) AddError(ErrorEvent) {}

func (Nop) Complete(CompletionStats) {}

func (Nop) Stop() error { return nil }

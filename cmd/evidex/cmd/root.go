// Package cmd provides the CLI commands for evidex.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/evidex/internal/config"
	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/logging"
	"github.com/Aman-CERP/evidex/internal/profiling"
	"github.com/Aman-CERP/evidex/internal/report"
	"github.com/Aman-CERP/evidex/pkg/version"
)

// globalOptions are the persistent flags shared by every command, plus the
// state they produce in PersistentPreRunE.
type globalOptions struct {
	configPath   string
	debug        bool
	logLevel     string
	profileCPU   string
	profileMem   string
	profileTrace string

	cfg            *config.Config
	logger         *slog.Logger
	loggingCleanup func()
	profiles       *profiling.Session
}

// NewRootCmd creates the root command for the evidex CLI.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "evidex",
		Short: "Index a directory tree of case evidence",
		Long: `evidex walks one or more evidence directories and writes a fixed set of
artifacts: a file inventory with content digests, duplicate groups, an entity
map, a date timeline, a vault manifest and an advisory gaps checklist.

Files are only read. All output goes to --out-dir.

Example:
  evidex --root ./case --out-dir ./case-index`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: g.wrap(func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, g, run)
		}),
	}

	cmd.SetVersionTemplate("evidex version {{.Version}}\n")

	cmd.Flags().StringArrayVar(&run.roots, "root", nil, "Evidence root to scan (repeatable, required)")
	cmd.Flags().StringVar(&run.seedManifest, "seed-manifest", "", "JSON evidence list to parse alongside the scan")
	cmd.Flags().StringVar(&run.outDir, "out-dir", "", "Directory for generated artifacts (required)")
	cmd.Flags().StringVar(&run.evidenceRootName, "evidence-root-name", "evidence", "Label prefixed to vault manifest paths")
	cmd.Flags().Int64Var(&run.maxBytesForHash, "max-bytes-for-hash", 0, "Skip hashing files larger than this many bytes (0 = unlimited)")
	cmd.Flags().IntVar(&run.workers, "workers", runtime.NumCPU(), "Number of files processed concurrently")
	cmd.Flags().BoolVar(&run.sqlite, "sqlite", false, "Also write "+report.FileSQLite)
	cmd.Flags().BoolVar(&run.noTUI, "no-tui", false, "Plain progress output")
	cmd.Flags().BoolVar(&run.quiet, "quiet", false, "No progress output and no summary on stdout")

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (default ./"+config.FileName+" when present)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging to ~/.evidex/logs/")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().Bool("json-errors", false, "Print failures as JSON on stderr")
	cmd.PersistentFlags().StringVar(&g.profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&g.profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&g.profileTrace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = g.start
	cmd.PersistentPostRunE = g.stop

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRulesCmd(g))
	cmd.AddCommand(newCategorizeCmd(g))
	cmd.AddCommand(newDatesCmd(g))
	cmd.AddCommand(newLogsCmd(g))
	cmd.AddCommand(newInitCmd(g))

	return cmd
}

// start loads configuration, then sets up logging and profiling.
func (g *globalOptions) start(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	g.cfg = cfg

	logCfg := logging.DefaultConfig()
	if g.debug {
		logCfg = logging.DebugConfig()
	} else {
		logCfg.Level = cfg.Logging.Level
	}
	logCfg.Stderr = cmd.ErrOrStderr()
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	g.logger = logger
	g.loggingCleanup = cleanup
	slog.SetDefault(logger)
	if g.debug {
		logger.Debug("debug_logging_enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}

	profiles, err := profiling.Start(g.profileCPU, g.profileMem, g.profileTrace)
	if err != nil {
		g.cleanupLogging()
		return err
	}
	g.profiles = profiles
	return nil
}

// stop flushes profiles and closes the log file.
func (g *globalOptions) stop(_ *cobra.Command, _ []string) error {
	err := g.profiles.Stop()
	g.profiles = nil
	g.cleanupLogging()
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// wrap runs fn and, when it fails, releases what start acquired. Cobra skips
// PersistentPostRunE after a failed RunE.
func (g *globalOptions) wrap(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			_ = g.stop(cmd, args)
		}
		return err
	}
}

func (g *globalOptions) cleanupLogging() {
	if g.loggingCleanup != nil {
		g.loggingCleanup()
		g.loggingCleanup = nil
	}
}

// Execute runs the root command and prints any failure on stderr.
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil {
		jsonErrors, _ := cmd.PersistentFlags().GetBool("json-errors")
		reportError(cmd.ErrOrStderr(), err, jsonErrors)
	}
	return err
}

// reportError writes err in the CLI or JSON error format.
func reportError(w io.Writer, err error, jsonFormat bool) {
	if jsonFormat {
		if data, jerr := evxerrors.FormatJSON(err); jerr == nil {
			_, _ = fmt.Fprintln(w, string(data))
			return
		}
	}
	_, _ = fmt.Fprint(w, evxerrors.FormatForCLI(err))
}

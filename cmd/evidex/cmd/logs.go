package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/logging"
	"github.com/Aman-CERP/evidex/internal/ui"
)

// newLogsCmd shows the tail of the --debug log.
func newLogsCmd(g *globalOptions) *cobra.Command {
	var (
		lines   int
		level   string
		filter  string
		noColor bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the debug log",
		Long: `Show the last lines of the JSON log written by 'evidex --debug'.

Examples:
  evidex logs                 # last 50 lines
  evidex logs -n 200          # last 200 lines
  evidex logs --level warn    # warnings and errors only
  evidex logs --filter hash_  # lines matching a pattern`,
		Args: cobra.NoArgs,
		RunE: g.wrap(func(cmd *cobra.Command, _ []string) error {
			path := logFile
			if path == "" {
				path = logging.DefaultLogPath()
			}

			var pattern *regexp.Regexp
			if filter != "" {
				var err error
				if pattern, err = regexp.Compile(filter); err != nil {
					return evxerrors.ValidationError("invalid filter pattern", err)
				}
			}

			viewer := logging.NewViewer(logging.ViewerConfig{
				Level:   level,
				Pattern: pattern,
				NoColor: noColor || ui.DetectNoColor() || !ui.IsTTY(cmd.OutOrStdout()),
			}, cmd.OutOrStdout())

			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return evxerrors.New(evxerrors.ErrCodeFileNotFound, "cannot read log file", err).
					WithDetail("path", path).
					WithSuggestion("Run evidex with --debug to write a log")
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n---\n", path)
			viewer.Print(entries)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level (debug|info|warn|error)")
	cmd.Flags().StringVar(&filter, "filter", "", "Only lines matching this regular expression")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&logFile, "file", "", "Log file path (default ~/.evidex/logs/evidex.log)")

	return cmd
}

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/evidex/internal/dates"
	"github.com/Aman-CERP/evidex/internal/output"
)

// newDatesCmd prints the dates recognized in text.
func newDatesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "dates <text>...",
		Short:   "Show the dates recognized in text",
		Example: `  evidex dates "Police report 2024-03-05 and March 5, 2024"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: g.wrap(func(cmd *cobra.Command, args []string) error {
			r, err := dates.New(g.cfg.Vocabulary().DatePatterns)
			if err != nil {
				return err
			}
			output.New(cmd.OutOrStdout()).List(r.Find(strings.Join(args, " ")), "no dates found")
			return nil
		}),
	}
}

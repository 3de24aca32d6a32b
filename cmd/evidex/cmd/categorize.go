package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/evidex/internal/category"
	"github.com/Aman-CERP/evidex/internal/output"
)

// newCategorizeCmd prints the category a file would be assigned.
func newCategorizeCmd(g *globalOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "categorize <name> [rel_path]",
		Short: "Show the category for a file name",
		Example: `  evidex categorize "ER bill.pdf"
  evidex categorize notes.txt court/2024/notes.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: g.wrap(func(cmd *cobra.Command, args []string) error {
			c, err := category.New(g.cfg.Vocabulary().CategoryRules)
			if err != nil {
				return err
			}
			relPath := args[0]
			if len(args) == 2 {
				relPath = args[1]
			}
			got := c.Categorize(args[0], relPath)
			if verbose {
				output.New(cmd.OutOrStdout()).KeyValues("name", args[0], "rel_path", relPath, "category", got)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), got)
			return err
		}),
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the matched input")

	return cmd
}

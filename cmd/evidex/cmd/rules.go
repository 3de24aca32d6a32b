package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
)

// newRulesCmd prints the effective vocabulary as YAML.
func newRulesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective matching vocabulary",
		Long: `Print entity aliases, stopwords, category rules, gap heuristics and date
patterns as YAML, after merging the entities section of the config file.`,
		Args: cobra.NoArgs,
		RunE: g.wrap(func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(g.cfg.Vocabulary()); err != nil {
				return evxerrors.InternalError("failed to encode vocabulary", err)
			}
			return enc.Close()
		}),
	}
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/evidex/configs"
	"github.com/Aman-CERP/evidex/internal/config"
	evxerrors "github.com/Aman-CERP/evidex/internal/errors"
	"github.com/Aman-CERP/evidex/internal/output"
)

// newInitCmd writes a commented config template.
func newInitCmd(g *globalOptions) *cobra.Command {
	var force, effective bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented " + config.FileName + " template",
		Args:  cobra.MaximumNArgs(1),
		RunE: g.wrap(func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			out := output.New(cmd.OutOrStdout())

			if _, err := os.Stat(path); err == nil {
				if !force {
					return evxerrors.New(evxerrors.ErrCodeInvalidInput, "config file already exists", nil).
						WithDetail("path", path).
						WithSuggestion("Use --force to overwrite")
				}
				out.Warningf("Overwriting %s", path)
			}

			if effective {
				if err := g.cfg.WriteYAML(path); err != nil {
					return evxerrors.OutputError(path, err)
				}
				out.Successf("Wrote effective configuration to %s", path)
				return nil
			}

			// The template must decode into a valid config.
			cfg := config.NewConfig()
			if err := yaml.Unmarshal([]byte(configs.ExampleConfig), cfg); err != nil {
				return evxerrors.InternalError("config template does not parse", err)
			}
			if err := cfg.Validate(); err != nil {
				return evxerrors.InternalError("config template is invalid", err)
			}

			if err := os.WriteFile(path, []byte(configs.ExampleConfig), 0644); err != nil {
				return evxerrors.OutputError(path, err)
			}
			out.Successf("Wrote %s", path)
			out.Status("", "Edit it, then run:")
			out.Code("evidex --config " + path + " --root <dir> --out-dir <dir>")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&effective, "effective", false, "Write the merged configuration (defaults, file, environment) instead of the template")

	return cmd
}

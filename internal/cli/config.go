// config.go implements the "config" command, which prints
// the effective settings for the package: the contents of
// .gitflow-bump.yml merged over the defaults, plus the metadata file the
// start and finish commands would use.

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitflow-bump/internal/config"
	"github.com/mmr-tortoise/gitflow-bump/internal/metadata"
)

// NewConfigCommand creates the "config" cobra command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings and package metadata",
		Long: `Show the settings read from ` + config.FileName + ` (merged over the
defaults) and the package metadata found in the package root.

Examples:
  gitflow-bump config
  gitflow-bump --json config`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolvePackageRoot(cmd.Context(), newRunner())
			if err != nil {
				return err
			}

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			meta, err := metadata.Load(root, cfg.MetadataFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(map[string]interface{}{
					"config":   cfg,
					"metadata": meta,
				}, "", "  ")
				fmt.Fprintln(out, string(data))
				return nil
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s (%s)\n", config.FileName, root)
			fmt.Fprint(out, string(data))
			fmt.Fprintf(out, "\n# package\nname: %s\nversion: %s\nmetadata: %s\n", meta.Name, meta.Version, meta.Path)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// infoCommand creates the info command, the all-in-one view.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <package[==version]>",
		Short: "Show tags, metadata, and dependencies of a package",
		Long: `Show the full picture of a package: release tags, the newest wheel's
metadata, the extracted dependencies, and the wheel's file listing.

Examples:
  pip-browse info requests
  pip-browse info django==5.0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, version, err := parsePackageSpec(args[0])
			if err != nil {
				return err
			}
			client, err := c.newClient()
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			sp := c.startSpinner(cmd, "Fetching "+name)
			info, err := client.FetchPackageInfo(cmd.Context(), name, version, c.refresh)
			sp.Stop()
			if err != nil {
				return err
			}

			if c.jsonOut {
				return emitJSON(info)
			}

			renderTags(info.Name, info.Tags)
			printNewline()
			renderMetadata(info.Metadata)
			printNewline()
			renderDependencies(info.Dependencies, info.OptionalDependencies)
			prog.done(fmt.Sprintf("Fetched %s", info.Name))
			return nil
		},
	}
}

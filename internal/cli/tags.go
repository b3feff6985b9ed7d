package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohammadRaziei/pip-browse/pkg/errors"
	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

// tagsCommand creates the tags command.
func (c *CLI) tagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <package[==version]>",
		Short: "List release tags and their wheels",
		Long: `List the release tags of a package and the wheels each one carries.

Wheel details (size, upload time, hashes) come from the pypi.org JSON API
when available.

Examples:
  pip-browse tags requests
  pip-browse tags requests==2.31.0
  pip-browse tags numpy --json`,
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
			sp := c.startSpinner(cmd, "Fetching tags for "+name)
			tags, err := client.PackageTags(cmd.Context(), name, c.refresh)
			sp.Stop()
			if err != nil {
				return err
			}
			if version != "" {
				tags = pypi.FilterTagsByVersion(tags, version)
			}
			if len(tags) == 0 {
				return errors.New(errors.ErrCodePackageNotFound, "no releases found for %q", args[0])
			}
			c.Logger.Debugf("Fetched %d tags for %s", len(tags), name)

			if c.jsonOut {
				return emitJSON(struct {
					Package string     `json:"package"`
					Tags    []pypi.Tag `json:"tags"`
				}{name, tags})
			}

			renderTags(name, tags)
			prog.done(fmt.Sprintf("Listed %d tags", len(tags)))
			return nil
		},
	}
}

// startSpinner starts a progress spinner on stderr, tied to the command
// context so Ctrl-C clears the line.
func (c *CLI) startSpinner(cmd *cobra.Command, message string) *Spinner {
	sp := newSpinnerWithContext(cmd.Context(), message)
	sp.Start()
	return sp
}

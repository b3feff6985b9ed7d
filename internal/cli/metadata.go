package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohammadRaziei/pip-browse/pkg/errors"
	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

// metadataCommand creates the metadata command.
func (c *CLI) metadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <package[==version]>",
		Short: "Show the METADATA of a package's newest wheel",
		Long: `Show the parsed METADATA file of a package.

The wheel's METADATA (scraped from pypi-browser.org) is merged with fields
from the pypi.org JSON API; the wheel's own values win on conflict.

Examples:
  pip-browse metadata requests
  pip-browse metadata flask==3.0.0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, version, err := parsePackageSpec(args[0])
			if err != nil {
				return err
			}
			doc, err := c.fetchMetadata(cmd, name, version, args[0])
			if err != nil {
				return err
			}

			if c.jsonOut {
				return emitJSON(doc)
			}
			fmt.Println(StyleTitle.Render(name))
			printNewline()
			renderMetadata(doc)
			return nil
		},
	}
}

// fetchMetadata resolves a package spec to its newest wheel and returns the
// merged metadata document.
func (c *CLI) fetchMetadata(cmd *cobra.Command, name, version, spec string) (metadata.Document, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}

	sp := c.startSpinner(cmd, "Fetching metadata for "+name)
	defer sp.Stop()

	tags, err := client.PackageTags(cmd.Context(), name, c.refresh)
	if err != nil {
		return nil, err
	}
	if version != "" {
		tags = pypi.FilterTagsByVersion(tags, version)
	}

	wheel := pickWheel(tags, "any")
	if wheel == nil {
		return nil, errors.New(errors.ErrCodePackageNotFound, "no releases found for %q", spec)
	}
	return client.PackageMetadata(cmd.Context(), wheel.BrowserURL, c.refresh)
}

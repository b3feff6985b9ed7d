package cli

import (
	"github.com/spf13/cobra"

	"github.com/MohammadRaziei/pip-browse/pkg/errors"
	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

// wheelsCommand creates the wheels command, listing the files inside a wheel.
func (c *CLI) wheelsCommand() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "wheels <package[==version]>",
		Short: "List the files inside a package's newest wheel",
		Long: `List the member files of a wheel, as served by pypi-browser.org.

The newest wheel of the newest release is used; pin a release with
"package==version" and pick a platform-specific wheel with --platform.

Examples:
  pip-browse wheels requests
  pip-browse wheels numpy==1.26.4 --platform linux`,
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

			sp := c.startSpinner(cmd, "Fetching wheels for "+name)
			defer sp.Stop()

			tags, err := client.PackageTags(cmd.Context(), name, c.refresh)
			if err != nil {
				return err
			}
			if version != "" {
				tags = pypi.FilterTagsByVersion(tags, version)
			}

			wheel := pickWheel(tags, platform)
			if wheel == nil {
				return errors.New(errors.ErrCodePackageNotFound, "no matching wheel found for %q", args[0])
			}

			loggerFromContext(cmd.Context()).Debugf("Selected wheel %s", wheel.Name)
			files, err := client.FetchWheelFiles(cmd.Context(), wheel.BrowserURL, c.refresh)
			if err != nil {
				return err
			}
			sp.Stop()

			if c.jsonOut {
				return emitJSON(struct {
					Package string           `json:"package"`
					Wheel   string           `json:"wheel"`
					Files   []pypi.WheelFile `json:"files"`
				}{name, wheel.Name, files})
			}

			renderWheelFiles(wheel.Name, files)
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "any", "wheel platform: any, linux, win, macos")
	return cmd
}

// pickWheel returns the first wheel of the newest tag that survives the
// platform filter.
func pickWheel(tags []pypi.Tag, platform string) *pypi.Wheel {
	for _, tag := range tags {
		wheels := pypi.FilterWheelsByPlatform(tag.Wheels, platform)
		if len(wheels) > 0 {
			return &wheels[0]
		}
	}
	return nil
}

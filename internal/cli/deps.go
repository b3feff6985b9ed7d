package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
	"github.com/MohammadRaziei/pip-browse/pkg/render"
)

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var graphOut string

	cmd := &cobra.Command{
		Use:   "deps <package[==version]>",
		Short: "Show the dependencies declared by a package",
		Long: `Show the dependencies a package declares in its METADATA, split into
required dependencies and per-extra optional groups.

With --graph the listing is written as a Graphviz drawing instead; the
format follows the file extension (.svg or .dot).

Examples:
  pip-browse deps requests
  pip-browse deps requests --graph deps.svg
  pip-browse deps flask --json`,
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
			required, optional := metadata.ExtractDependencies(doc)

			if graphOut != "" {
				return writeGraph(name, required, optional, graphOut)
			}

			if c.jsonOut {
				return emitJSON(struct {
					Package  string                           `json:"package"`
					Required []metadata.Dependency            `json:"dependencies"`
					Optional map[string][]metadata.Dependency `json:"optional_dependencies"`
				}{name, required, optional})
			}

			fmt.Println(StyleTitle.Render(name))
			printNewline()
			renderDependencies(required, optional)
			return nil
		},
	}

	cmd.Flags().StringVar(&graphOut, "graph", "", "write a dependency graph to this file (.svg or .dot)")
	return cmd
}

// writeGraph renders the dependency listing to a DOT or SVG file, chosen by
// the output extension.
func writeGraph(name string, required []metadata.Dependency, optional map[string][]metadata.Dependency, out string) error {
	dot := render.ToDOT(name, required, optional)

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".dot":
		data = []byte(dot)
	case ".svg":
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render graph: %w", err)
		}
		data = svg
	default:
		return fmt.Errorf("unsupported graph format %q (use .svg or .dot)", ext)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	printSuccess("Wrote dependency graph")
	printFile(out)
	return nil
}

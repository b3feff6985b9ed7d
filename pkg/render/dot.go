// Package render turns extracted dependency listings into Graphviz output.
package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
)

// ToDOT converts a package's dependency listing to Graphviz DOT format. The
// package itself is the root node, required dependencies hang off it with
// solid edges, and each extra becomes a dashed cluster. Edge labels carry
// the version condition when one exists. The output is rendered with
// [RenderSVG] or written out as-is.
func ToDOT(name string, required []metadata.Dependency, optional map[string][]metadata.Dependency) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [fillcolor=lightblue, fontsize=14];\n", name)

	for _, dep := range required {
		writeEdge(&buf, "  ", name, dep)
	}

	for i, extra := range slices.Sorted(maps.Keys(optional)) {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", "extra: "+extra)
		buf.WriteString("    style=dashed;\n")
		buf.WriteString("    fontsize=10;\n")
		for _, dep := range optional[extra] {
			fmt.Fprintf(&buf, "    %q;\n", dep.Package)
		}
		buf.WriteString("  }\n")
		for _, dep := range optional[extra] {
			writeEdge(&buf, "  ", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeEdge(buf *bytes.Buffer, indent, from string, dep metadata.Dependency) {
	if dep.Condition != "" {
		fmt.Fprintf(buf, "%s%q -> %q [label=%q, fontsize=10];\n", indent, from, dep.Package, dep.Condition)
		return
	}
	fmt.Fprintf(buf, "%s%q -> %q;\n", indent, from, dep.Package)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the viewBox starts at the
// origin and the width and height match it, which keeps browsers from
// clipping the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

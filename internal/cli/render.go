package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

// emitJSON writes v to stdout as indented JSON.
func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// newTable builds a bordered table in the house style.
func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// renderTags prints the release tag listing as a table, one row per wheel.
func renderTags(name string, tags []pypi.Tag) {
	fmt.Println(StyleTitle.Render(name))
	printNewline()

	t := newTable("Tag", "Wheel", "Size", "Uploaded")
	for _, tag := range tags {
		for i, w := range tag.Wheels {
			label := ""
			if i == 0 {
				label = tag.Name
			}
			size := ""
			if w.Size > 0 {
				size = pypi.FormatSize(w.Size)
			}
			t.Row(label, w.Name, size, uploadDate(w.UploadTime))
		}
	}
	fmt.Println(t)
}

// uploadDate trims a JSON API timestamp down to its date part.
func uploadDate(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

// renderWheelFiles prints the member files of a wheel.
func renderWheelFiles(wheelName string, files []pypi.WheelFile) {
	fmt.Println(StyleTitle.Render(wheelName))
	printNewline()

	t := newTable("File", "Size")
	for _, f := range files {
		t.Row(f.Name, f.RawSize)
	}
	fmt.Println(t)
}

// renderMetadata prints a metadata document as key-value lines, scalars
// first, then sequences, then the description. Project URLs and the Python
// version derived from classifiers get their own treatment.
func renderMetadata(doc metadata.Document) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != "Description" && k != "Project-URL" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := doc[k]
		if !v.IsList() {
			printKeyValue(k, v.AsString())
		}
	}
	if py := metadata.PythonVersion(doc); py != "" {
		printKeyValue("Python", py)
	}
	if lic := metadata.License(doc); lic != "" {
		if _, ok := doc["License"]; !ok {
			printKeyValue("License", lic)
		}
	}

	for _, k := range keys {
		v := doc[k]
		if !v.IsList() {
			continue
		}
		printNewline()
		fmt.Println(StyleHighlight.Render(k))
		for _, item := range v.AsList() {
			printDetail("%s", item)
		}
	}

	if urls := metadata.ProjectURLs(doc); len(urls) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Project URLs"))
		labels := make([]string, 0, len(urls))
		for label := range urls {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			printDetail("%s %s", label, StyleLink.Render(urls[label]))
		}
	}

	if desc, ok := doc["Description"]; ok {
		printNewline()
		fmt.Println(StyleHighlight.Render("Description"))
		fmt.Println(StyleDim.Render(desc.AsString()))
	}
}

// renderDependencies prints required dependencies followed by the extras in
// sorted order.
func renderDependencies(required []metadata.Dependency, optional map[string][]metadata.Dependency) {
	fmt.Println(StyleHighlight.Render("Required"))
	if len(required) == 0 {
		printDetail("none")
	}
	for _, d := range required {
		printDetail("%s", d.String())
	}

	extras := make([]string, 0, len(optional))
	for extra := range optional {
		extras = append(extras, extra)
	}
	sort.Strings(extras)

	for _, extra := range extras {
		printNewline()
		fmt.Println(StyleHighlight.Render("Extra: " + extra))
		for _, d := range optional[extra] {
			printDetail("%s", d.String())
		}
	}
}

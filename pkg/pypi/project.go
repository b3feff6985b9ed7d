package pypi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
)

var packageNameRE = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

// Project is the pypi.org JSON API response for one package.
type Project struct {
	Info     ProjectInfo              `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
}

// ProjectInfo holds the info block of the JSON API response.
type ProjectInfo struct {
	Name           string         `json:"name"`
	Version        string         `json:"version"`
	Summary        string         `json:"summary"`
	Description    string         `json:"description"`
	Author         string         `json:"author"`
	AuthorEmail    string         `json:"author_email"`
	License        string         `json:"license"`
	HomePage       string         `json:"home_page"`
	Classifiers    []string       `json:"classifiers"`
	RequiresDist   []string       `json:"requires_dist"`
	RequiresPython string         `json:"requires_python"`
	ProjectURLs    map[string]any `json:"project_urls"`
}

// ReleaseFile describes one distribution file of a release.
type ReleaseFile struct {
	Filename      string            `json:"filename"`
	URL           string            `json:"url"`
	Size          int64             `json:"size"`
	UploadTime    string            `json:"upload_time"`
	PythonVersion string            `json:"python_version"`
	PackageType   string            `json:"packagetype"`
	Digests       map[string]string `json:"digests"`
	Yanked        bool              `json:"yanked"`
}

// FetchProject retrieves the JSON API document for a package. The name is
// normalized first. A missing package yields a nil Project and no error,
// mirroring the lenient merge behavior of the metadata pipeline: callers
// that need hard failures should check for nil.
func (c *Client) FetchProject(ctx context.Context, name string, refresh bool) (*Project, error) {
	name = NormalizePackageName(name)

	var project Project
	err := c.cached(ctx, "pypi:"+name, refresh, &project, func() error {
		return c.getJSON(ctx, fmt.Sprintf("%s/%s/json", c.JSONBaseURL, name), &project)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// JSONDocument synthesizes a metadata.Document from the JSON API info block,
// shaped like a parsed METADATA file so the two sources can be merged.
func JSONDocument(info ProjectInfo) metadata.Document {
	doc := metadata.Document{}

	scalars := map[string]string{
		"Name":            info.Name,
		"Version":         info.Version,
		"Summary":         info.Summary,
		"Description":     info.Description,
		"Author":          info.Author,
		"Author-email":    info.AuthorEmail,
		"License":         info.License,
		"Home-page":       info.HomePage,
		"Requires-Python": info.RequiresPython,
	}
	for key, value := range scalars {
		if value != "" {
			doc[key] = metadata.String(value)
		}
	}

	if len(info.Classifiers) > 0 {
		doc["Classifier"] = metadata.Strings(info.Classifiers)
	}
	if len(info.RequiresDist) > 0 {
		doc["Requires-Dist"] = metadata.Strings(info.RequiresDist)
	}
	if urls := projectURLStrings(info.ProjectURLs); len(urls) > 0 {
		doc["Project-URL"] = metadata.Strings(urls)
	}

	return doc
}

// projectURLStrings flattens the JSON project_urls object into the
// "Label, URL" entries a METADATA file would carry. Labels are sorted so the
// synthesized document is deterministic.
func projectURLStrings(urls map[string]any) []string {
	labels := make([]string, 0, len(urls))
	for label, v := range urls {
		if _, ok := v.(string); ok {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	entries := make([]string, 0, len(labels))
	for _, label := range labels {
		entries = append(entries, label+", "+urls[label].(string))
	}
	return entries
}

// ValidatePackageName reports whether name is a plausible package name:
// alphanumeric start and end with letters, digits, dots, underscores, or
// hyphens in between.
func ValidatePackageName(name string) bool {
	if name == "" {
		return false
	}
	return packageNameRE.MatchString(name)
}

// NormalizePackageName lowercases and trims a package name and replaces
// underscores with hyphens, following PEP 503 normalization.
func NormalizePackageName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

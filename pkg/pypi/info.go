package pypi

import (
	"context"

	"github.com/MohammadRaziei/pip-browse/pkg/errors"
	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
)

// PackageInfo is the aggregate view of a package: its release tags, the
// metadata of the newest wheel, and the dependencies extracted from it.
type PackageInfo struct {
	Name                 string                           `json:"name"`
	Version              string                           `json:"version,omitempty"`
	Tags                 []Tag                            `json:"tags"`
	Metadata             metadata.Document                `json:"metadata"`
	Dependencies         []metadata.Dependency            `json:"dependencies"`
	OptionalDependencies map[string][]metadata.Dependency `json:"optional_dependencies"`
	WheelFiles           []WheelFile                      `json:"wheel_files,omitempty"`
}

// FetchPackageInfo assembles the full picture of a package. When version is
// non-empty only the matching tag is considered. A package with no release
// tags is reported as not found.
func (c *Client) FetchPackageInfo(ctx context.Context, name, version string, refresh bool) (*PackageInfo, error) {
	name = NormalizePackageName(name)

	tags, err := c.PackageTags(ctx, name, refresh)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetching tags for %q", name)
	}
	if version != "" {
		tags = FilterTagsByVersion(tags, version)
	}
	if len(tags) == 0 {
		return nil, errors.New(errors.ErrCodePackageNotFound, "no releases found for %q", name)
	}

	info := &PackageInfo{
		Name:                 name,
		Version:              version,
		Tags:                 tags,
		Metadata:             metadata.Document{},
		Dependencies:         []metadata.Dependency{},
		OptionalDependencies: map[string][]metadata.Dependency{},
	}

	wheel := newestWheel(tags)
	if wheel == nil {
		return info, nil
	}

	doc, err := c.PackageMetadata(ctx, wheel.BrowserURL, refresh)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetching metadata for %q", name)
	}
	info.Metadata = doc
	info.Dependencies, info.OptionalDependencies = metadata.ExtractDependencies(doc)

	if files, err := c.FetchWheelFiles(ctx, wheel.BrowserURL, refresh); err == nil {
		info.WheelFiles = files
	}

	return info, nil
}

// FilterTagsByVersion keeps the tags whose name equals version.
func FilterTagsByVersion(tags []Tag, version string) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.Name == version {
			out = append(out, t)
		}
	}
	return out
}

// newestWheel returns the first wheel of the first tag, which the browser
// lists newest first.
func newestWheel(tags []Tag) *Wheel {
	for i := range tags {
		if len(tags[i].Wheels) > 0 {
			return &tags[i].Wheels[0]
		}
	}
	return nil
}

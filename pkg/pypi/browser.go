package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MohammadRaziei/pip-browse/pkg/metadata"
)

// Tag is one release listed by pypi-browser.org, with the wheels it carries.
type Tag struct {
	Name   string  `json:"tag"`
	Wheels []Wheel `json:"wheels"`
}

// Wheel is one wheel entry of a tag. The browser page supplies Name and
// BrowserURL; the remaining fields are filled in from the JSON API release
// data when a file with the same name exists there.
type Wheel struct {
	Name       string `json:"name"`
	BrowserURL string `json:"browser_url"`

	PyPIURL       string            `json:"pypi_url,omitempty"`
	Size          int64             `json:"size,omitempty"`
	UploadTime    string            `json:"upload_time,omitempty"`
	PythonVersion string            `json:"python_version,omitempty"`
	PackageType   string            `json:"packagetype,omitempty"`
	Hashes        map[string]string `json:"hashes,omitempty"`
	ProjectURL    string            `json:"project_url,omitempty"`
}

// FetchBrowserTags scrapes the package page of pypi-browser.org: one card
// per release tag, each holding a list group of wheel links. Relative hrefs
// are resolved against the page URL. Tags without wheels are skipped. A
// missing package yields an empty slice.
func (c *Client) FetchBrowserTags(ctx context.Context, name string, refresh bool) ([]Tag, error) {
	pageURL := fmt.Sprintf("%s/%s/", c.BrowserBaseURL, name)

	var content string
	err := c.cached(ctx, "browser:tags:"+name, refresh, &content, func() error {
		var err error
		content, err = c.getText(ctx, pageURL)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)

	var tags []Tag
	doc.Find(".card").Each(func(_ int, card *goquery.Selection) {
		header := card.Find(".card-header").First()
		if header.Length() == 0 {
			return
		}
		tag := Tag{Name: strings.TrimSpace(header.Text())}

		card.Find(".list-group a").Each(func(_ int, a *goquery.Selection) {
			span := a.Find("span").First()
			href, ok := a.Attr("href")
			if span.Length() == 0 || !ok {
				return
			}
			if base != nil {
				if ref, err := url.Parse(href); err == nil {
					href = base.ResolveReference(ref).String()
				}
			}
			tag.Wheels = append(tag.Wheels, Wheel{
				Name:       strings.TrimSpace(span.Text()),
				BrowserURL: href,
			})
		})

		if len(tag.Wheels) > 0 {
			tags = append(tags, tag)
		}
	})

	return tags, nil
}

// PackageTags returns the release tags of a package, combining the wheel
// listing scraped from pypi-browser.org with file details from the pypi.org
// JSON API. Either source may be missing; whatever is available is returned.
func (c *Client) PackageTags(ctx context.Context, name string, refresh bool) ([]Tag, error) {
	name = NormalizePackageName(name)

	tags, err := c.FetchBrowserTags(ctx, name, refresh)
	if err != nil {
		return nil, err
	}

	project, err := c.FetchProject(ctx, name, refresh)
	if err != nil || project == nil {
		// JSON enrichment is best effort; the scraped listing stands alone.
		return tags, nil
	}

	enrichTags(tags, project, name)
	return tags, nil
}

// enrichTags copies release-file details onto wheels whose filename appears
// in the JSON API release data for the same tag.
func enrichTags(tags []Tag, project *Project, name string) {
	for ti := range tags {
		tag := &tags[ti]
		files := project.Releases[tag.Name]
		for wi := range tag.Wheels {
			wheel := &tag.Wheels[wi]
			for _, f := range files {
				if f.Filename != wheel.Name {
					continue
				}
				wheel.PyPIURL = f.URL
				wheel.Size = f.Size
				wheel.UploadTime = f.UploadTime
				wheel.PythonVersion = f.PythonVersion
				wheel.PackageType = f.PackageType
				wheel.Hashes = f.Digests
				wheel.ProjectURL = fmt.Sprintf("https://pypi.org/project/%s/%s/", name, tag.Name)
				break
			}
		}
	}
}

// whitespaceRunRE splits the wheel-file listing text, where name and size
// are separated by runs of whitespace.
var whitespaceRunRE = regexp.MustCompile(`\s{2,}`)

// FetchWheelFiles scrapes the file listing of a wheel page. Each list-group
// item carries the member file name and its human-readable size separated by
// a run of spaces; the href is resolved against the wheel URL.
func (c *Client) FetchWheelFiles(ctx context.Context, wheelURL string, refresh bool) ([]WheelFile, error) {
	var content string
	err := c.cached(ctx, "browser:files:"+wheelURL, refresh, &content, func() error {
		var err error
		content, err = c.getText(ctx, wheelURL)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(wheelURL)

	var files []WheelFile
	doc.Find("a.list-group-item").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		text := strings.TrimSpace(a.Text())

		parts := whitespaceRunRE.Split(text, -1)
		if len(parts) < 2 {
			return
		}
		fileURL := href
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				fileURL = base.ResolveReference(ref).String()
			}
		}
		files = append(files, WheelFile{
			URL:     fileURL,
			Name:    parts[0],
			RawSize: parts[1],
		})
	})

	return files, nil
}

// FetchBrowserMetadata scrapes the METADATA file of a wheel from
// pypi-browser.org. The dist-info directory name is derived from the wheel
// name (first two dash-separated segments), and the metadata text is the
// content of the page's pre element. A missing page or pre element yields an
// empty document.
func (c *Client) FetchBrowserMetadata(ctx context.Context, wheelURL string, refresh bool) (metadata.Document, error) {
	metadataURL := fmt.Sprintf("%s/%s/METADATA", strings.TrimSuffix(wheelURL, "/"), distInfoName(wheelURL))

	var content string
	err := c.cached(ctx, "browser:metadata:"+wheelURL, refresh, &content, func() error {
		var err error
		content, err = c.getText(ctx, metadataURL)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return metadata.Document{}, nil
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return metadata.Document{}, nil
	}
	return metadata.Parse(pre.Text()), nil
}

// PackageMetadata combines the metadata of a wheel from both sources. The
// scraped METADATA document takes precedence over fields synthesized from
// the JSON API.
func (c *Client) PackageMetadata(ctx context.Context, wheelURL string, refresh bool) (metadata.Document, error) {
	browserDoc, err := c.FetchBrowserMetadata(ctx, wheelURL, refresh)
	if err != nil {
		return nil, err
	}

	jsonDoc := metadata.Document{}
	if name, _ := wheelNameParts(wheelURL); name != "" {
		if project, err := c.FetchProject(ctx, name, refresh); err == nil && project != nil {
			jsonDoc = JSONDocument(project.Info)
		}
	}

	return jsonDoc.Merge(browserDoc), nil
}

// distInfoName derives "<name>-<version>.dist-info" from the wheel filename
// at the end of wheelURL.
func distInfoName(wheelURL string) string {
	segments := strings.Split(strings.TrimSuffix(wheelURL, "/"), "/")
	wheelName := segments[len(segments)-1]
	parts := strings.Split(wheelName, "-")
	if len(parts) < 2 {
		return wheelName + ".dist-info"
	}
	return parts[0] + "-" + parts[1] + ".dist-info"
}

// wheelNameParts extracts the package name and version from the wheel
// filename at the end of wheelURL.
func wheelNameParts(wheelURL string) (name, version string) {
	segments := strings.Split(strings.TrimSuffix(wheelURL, "/"), "/")
	parts := strings.Split(segments[len(segments)-1], "-")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

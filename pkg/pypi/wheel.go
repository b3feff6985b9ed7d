package pypi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// WheelFile is one member file of a wheel archive as listed by
// pypi-browser.org.
type WheelFile struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	RawSize string `json:"size"`
}

// Size returns the file size in bytes, or 0 when the listed size can't be
// parsed.
func (f WheelFile) Size() int64 {
	return SizeToBytes(f.RawSize)
}

var sizeUnits = map[string]int64{
	"bytes": 1,
	"byte":  1,
	"b":     1,
	"kib":   1 << 10,
	"mib":   1 << 20,
	"gib":   1 << 30,
	"tib":   1 << 40,
}

// SizeToBytes parses a human-readable size such as "2.2 KiB" or "951 bytes"
// into a byte count. Unrecognized input yields 0.
func SizeToBytes(raw string) int64 {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return 0
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	unit, ok := sizeUnits[strings.ToLower(fields[1])]
	if !ok {
		return 0
	}
	return int64(value * float64(unit))
}

// FormatSize renders a byte count in the largest binary unit that keeps the
// value at or above one.
func FormatSize(bytes int64) string {
	switch {
	case bytes >= 1<<40:
		return fmt.Sprintf("%.1f TiB", float64(bytes)/(1<<40))
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(bytes)/(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// VersionFromFilename extracts the version segment of a wheel filename,
// e.g. "requests-2.31.0-py3-none-any.whl" yields "2.31.0".
func VersionFromFilename(filename string) string {
	parts := strings.Split(filename, "-")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

var pythonTagRE = regexp.MustCompile(`\b(?:cp|py|pp)(\d)(\d*)\b`)

// PythonTags lists the Python interpreter versions a wheel filename declares,
// e.g. "cp311" yields "3.11" and "py3" yields "3".
func PythonTags(filename string) []string {
	stem := strings.TrimSuffix(filename, ".whl")
	var tags []string
	seen := map[string]bool{}
	for _, m := range pythonTagRE.FindAllStringSubmatch(stem, -1) {
		tag := m[1]
		if m[2] != "" {
			tag = m[1] + "." + m[2]
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// FilterWheelsByPlatform keeps the wheels whose filename matches the given
// platform. "any" keeps everything.
func FilterWheelsByPlatform(wheels []Wheel, platform string) []Wheel {
	platform = strings.ToLower(platform)
	if platform == "" || platform == "any" {
		return wheels
	}

	var markers []string
	switch platform {
	case "linux":
		markers = []string{"linux", "manylinux", "musllinux"}
	case "win", "windows":
		markers = []string{"win32", "win_amd64", "win_arm64"}
	case "macos", "darwin":
		markers = []string{"macosx"}
	default:
		markers = []string{platform}
	}

	var out []Wheel
	for _, w := range wheels {
		name := strings.ToLower(w.Name)
		if strings.Contains(name, "-any.whl") {
			out = append(out, w)
			continue
		}
		for _, m := range markers {
			if strings.Contains(name, m) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

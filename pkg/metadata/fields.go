package metadata

import "strings"

const pythonClassifierPrefix = "Programming Language :: Python ::"

// PythonVersion extracts the supported Python version from the document's
// classifiers. Specific versions ("3.8") win over generic ones ("3"); the
// first specific version listed is returned. Returns "" when the classifiers
// carry no version.
func PythonVersion(doc Document) string {
	var classifiers []string
	if v, ok := doc["Classifier"]; ok {
		classifiers = v.AsList()
	}

	generic := ""
	for _, c := range classifiers {
		if !strings.HasPrefix(c, pythonClassifierPrefix) {
			continue
		}
		parts := strings.Split(c, "::")
		version := strings.TrimSpace(parts[len(parts)-1])
		if version == "" || version == "Implementation" {
			continue
		}
		if strings.Contains(version, ".") {
			return version
		}
		if generic == "" {
			generic = version
		}
	}
	return generic
}

// License returns the License field when present, falling back to the tail
// of a "License :: ..." classifier. Returns "" when neither exists.
func License(doc Document) string {
	if v, ok := doc["License"]; ok {
		if s := v.AsString(); s != "" {
			return s
		}
	}

	var classifiers []string
	if v, ok := doc["Classifier"]; ok {
		classifiers = v.AsList()
	}
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, "::")
			return strings.TrimSpace(parts[len(parts)-1])
		}
	}
	return ""
}

// ProjectURLs splits the Project-URL entries ("Label, https://...") into a
// label-to-URL map. Entries without a comma are skipped.
func ProjectURLs(doc Document) map[string]string {
	urls := map[string]string{}
	v, ok := doc["Project-URL"]
	if !ok {
		return urls
	}
	for _, entry := range v.AsList() {
		label, url, found := strings.Cut(entry, ",")
		if !found {
			continue
		}
		urls[strings.TrimSpace(label)] = strings.TrimSpace(url)
	}
	return urls
}

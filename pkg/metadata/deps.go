package metadata

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// extraRE matches a "; extra == 'name'" marker appended to a requirement.
	// The extra keyword is case-insensitive and the name may use single or
	// double quotes.
	extraRE = regexp.MustCompile(`(?i);\s*extra\s*==\s*['"]([^'"]+)['"]`)

	// packageRE splits a cleaned requirement into the leading package-name
	// token and the trailing condition text.
	packageRE = regexp.MustCompile(`^([A-Za-z0-9_.\-]+)\s*(.*)$`)
)

// Dependency is one declared package dependency: the bare package name plus
// whatever version or environment qualifier followed it. Condition is empty
// when the requirement was just a name.
type Dependency struct {
	Package   string
	Condition string
}

// String renders the dependency as "name" or "name condition".
func (d Dependency) String() string {
	if d.Condition == "" {
		return d.Package
	}
	return d.Package + " " + d.Condition
}

// MarshalJSON renders the dependency as {"package": ..., "condition": ...},
// with condition null when absent. Version operators like "<" and ">=" are
// common in conditions, so HTML escaping is turned off to keep them literal.
func (d Dependency) MarshalJSON() ([]byte, error) {
	out := struct {
		Package   string  `json:"package"`
		Condition *string `json:"condition"`
	}{Package: d.Package}
	if d.Condition != "" {
		out.Condition = &d.Condition
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ExtractDependencies classifies the Requires-Dist entries of doc into
// required dependencies and optional dependencies gated behind extras.
//
// A requirement carrying one or more "; extra == 'name'" markers is filed
// under each named extra with the marker text stripped from its condition;
// all other requirements land in the required list. Input order is preserved
// in every output sequence. Requirement strings that do not start with a
// valid package-name token are dropped silently; ExtractDependencies never
// fails.
func ExtractDependencies(doc Document) ([]Dependency, map[string][]Dependency) {
	required := []Dependency{}
	optional := map[string][]Dependency{}

	var requires []string
	if v, ok := doc["Requires-Dist"]; ok {
		requires = v.AsList()
	}

	for _, req := range requires {
		req = strings.TrimSpace(req)
		if req == "" {
			continue
		}

		var extras []string
		for _, m := range extraRE.FindAllStringSubmatch(req, -1) {
			extras = append(extras, m[1])
		}
		cleaned := strings.TrimSpace(extraRE.ReplaceAllString(req, ""))

		m := packageRE.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		dep := Dependency{Package: m[1], Condition: strings.TrimSpace(m[2])}

		if len(extras) == 0 {
			required = append(required, dep)
			continue
		}
		for _, extra := range extras {
			optional[extra] = append(optional[extra], dep)
		}
	}

	return required, optional
}

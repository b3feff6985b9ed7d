// Package metadata parses Python package METADATA documents (PEP 566 style
// key/value headers followed by a free-text description) and extracts
// dependency declarations from them.
//
// The parser is deliberately lenient: malformed header lines are skipped and
// degenerate input degrades to a partial or empty document. Absence of a
// field is how malformation is signaled to callers.
package metadata

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Value holds a metadata field value, which is either a single string or an
// ordered sequence of strings. The tag is explicit so call sites branch on
// IsList instead of probing types at use time.
type Value struct {
	str    string
	list   []string
	isList bool
}

// String creates a scalar Value.
func String(s string) Value { return Value{str: s} }

// Strings creates a sequence Value.
func Strings(ss []string) Value { return Value{list: ss, isList: true} }

// IsList reports whether the value is a sequence.
func (v Value) IsList() bool { return v.isList }

// AsString returns the scalar value, or the first element of a sequence.
// Empty sequences yield "".
func (v Value) AsString() string {
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.str
}

// AsList returns the sequence, or the scalar wrapped in a one-element slice.
func (v Value) AsList() []string {
	if v.isList {
		return v.list
	}
	return []string{v.str}
}

// MarshalJSON renders scalars as JSON strings and sequences as JSON arrays,
// preserving the shape of the source document. Requirement strings carry
// "<" and ">" operators, so HTML escaping is turned off.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var err error
	if v.isList {
		err = enc.Encode(v.list)
	} else {
		err = enc.Encode(v.str)
	}
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Document maps METADATA field names to their values. Field names are
// case-sensitive ("Name", "Requires-Dist", ...). A Document is built once by
// [Parse] and never mutated afterwards.
type Document map[string]Value

// Get returns the value for key and whether it is present.
func (d Document) Get(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Merge returns a new Document containing the fields of d overlaid with the
// fields of other. Fields present in both take other's value.
func (d Document) Merge(other Document) Document {
	merged := make(Document, len(d)+len(other))
	for k, v := range d {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// headerRE matches a "Key: value" header line. Keys are restricted to
// letters, digits, and hyphens; lines with other characters before the colon
// are treated as stray lines and skipped.
var headerRE = regexp.MustCompile(`^([A-Za-z0-9-]+):\s*(.*)$`)

// multiValued lists the fields that are stored as sequences even when a
// single occurrence is seen.
var multiValued = map[string]bool{
	"Classifier":     true,
	"Requires-Dist":  true,
	"Provides-Extra": true,
	"Project-URL":    true,
	"License-File":   true,
}

// Parse converts raw METADATA text into a Document. It never fails: at worst
// the returned Document is incomplete or empty.
//
// The header section ends at the first blank line; everything after it forms
// the free-text description, stored under "Description" when non-empty.
// Indented lines continue the value of the preceding header field, joined
// with a single space. Repeated keys accumulate into a sequence in order of
// appearance.
func Parse(text string) Document {
	doc := Document{}

	var header, description []string
	inDescription := false
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !inDescription {
			if strings.TrimSpace(line) == "" {
				inDescription = true
				continue
			}
			header = append(header, line)
		} else {
			description = append(description, line)
		}
	}

	key := ""
	for _, line := range header {
		if key != "" && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			appendContinuation(doc, key, strings.TrimSpace(line))
			continue
		}

		m := headerRE.FindStringSubmatch(line)
		if m == nil {
			// Stray line: skipped, current key stays active.
			continue
		}
		k, value := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		key = k

		if existing, ok := doc[k]; ok {
			if existing.isList {
				existing.list = append(existing.list, value)
			} else {
				existing = Strings([]string{existing.str, value})
			}
			doc[k] = existing
			continue
		}
		if multiValued[k] {
			doc[k] = Strings([]string{value})
		} else {
			doc[k] = String(value)
		}
	}

	if len(description) > 0 {
		if text := strings.TrimSpace(strings.Join(description, "\n")); text != "" {
			doc["Description"] = String(text)
		}
	}

	return doc
}

// appendContinuation glues text onto the last stored value of key with a
// single separating space. For sequences only the final element grows.
func appendContinuation(doc Document, key, text string) {
	v, ok := doc[key]
	if !ok {
		return
	}
	if v.isList {
		if len(v.list) == 0 {
			return
		}
		v.list[len(v.list)-1] += " " + text
	} else {
		v.str += " " + text
	}
	doc[key] = v
}

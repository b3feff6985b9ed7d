package metadata

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBasicFields(t *testing.T) {
	text := `Metadata-Version: 2.1
Name: test-package
Version: 1.0.0
Summary: A test package
Author: Test Author
Author-email: test@example.com
License: MIT
Classifier: Development Status :: 4 - Beta
Classifier: Programming Language :: Python :: 3
Classifier: Programming Language :: Python :: 3.7
Classifier: Programming Language :: Python :: 3.8

This is a test package description.
It spans multiple lines.
`
	doc := Parse(text)

	scalars := map[string]string{
		"Metadata-Version": "2.1",
		"Name":             "test-package",
		"Version":          "1.0.0",
		"Summary":          "A test package",
		"Author":           "Test Author",
		"Author-email":     "test@example.com",
		"License":          "MIT",
	}
	for key, want := range scalars {
		v, ok := doc[key]
		if !ok {
			t.Fatalf("missing field %q", key)
		}
		if v.IsList() {
			t.Errorf("%s: stored as sequence, want scalar", key)
		}
		if got := v.AsString(); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}

	wantClassifiers := []string{
		"Development Status :: 4 - Beta",
		"Programming Language :: Python :: 3",
		"Programming Language :: Python :: 3.7",
		"Programming Language :: Python :: 3.8",
	}
	if got := doc["Classifier"].AsList(); !reflect.DeepEqual(got, wantClassifiers) {
		t.Errorf("Classifier = %v, want %v", got, wantClassifiers)
	}

	wantDesc := "This is a test package description.\nIt spans multiple lines."
	if got := doc["Description"].AsString(); got != wantDesc {
		t.Errorf("Description = %q, want %q", got, wantDesc)
	}
}

func TestParseContinuationLines(t *testing.T) {
	text := "Name: test-package\nDescription: This is a long description\n    that continues on the next line\n    and another line.\nVersion: 1.0.0\n"
	doc := Parse(text)

	if got := doc["Name"].AsString(); got != "test-package" {
		t.Errorf("Name = %q, want %q", got, "test-package")
	}
	if got := doc["Version"].AsString(); got != "1.0.0" {
		t.Errorf("Version = %q, want %q", got, "1.0.0")
	}
	want := "This is a long description that continues on the next line and another line."
	if got := doc["Description"].AsString(); got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestParseContinuationAppendsToLastElement(t *testing.T) {
	text := "Classifier: First :: Value\nClassifier: Second :: Value\n    continued\n"
	doc := Parse(text)

	want := []string{"First :: Value", "Second :: Value continued"}
	if got := doc["Classifier"].AsList(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classifier = %v, want %v", got, want)
	}
}

func TestParseContinuationWithoutKeyDropped(t *testing.T) {
	text := "    orphan continuation\nName: pkg\n"
	doc := Parse(text)

	if got := doc["Name"].AsString(); got != "pkg" {
		t.Errorf("Name = %q, want %q", got, "pkg")
	}
	if len(doc) != 1 {
		t.Errorf("got %d fields, want 1: %v", len(doc), doc)
	}
}

func TestParseMultiValuedSingleOccurrence(t *testing.T) {
	// Declared multi-valued fields are sequences even with one value.
	for _, field := range []string{"Classifier", "Requires-Dist", "Provides-Extra", "Project-URL", "License-File"} {
		doc := Parse(field + ": only-value\n")
		v, ok := doc[field]
		if !ok {
			t.Fatalf("%s: missing", field)
		}
		if !v.IsList() {
			t.Errorf("%s: stored as scalar, want one-element sequence", field)
		}
		if got := v.AsList(); !reflect.DeepEqual(got, []string{"only-value"}) {
			t.Errorf("%s = %v, want [only-value]", field, got)
		}
	}
}

func TestParseRepeatedScalarUpgradesToSequence(t *testing.T) {
	doc := Parse("Author: First\nAuthor: Second\n")

	v := doc["Author"]
	if !v.IsList() {
		t.Fatal("Author: repeated key not upgraded to sequence")
	}
	if got, want := v.AsList(), []string{"First", "Second"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Author = %v, want %v", got, want)
	}
}

func TestParseHeaderDescriptionSplit(t *testing.T) {
	doc := Parse("Name: pkg\nVersion: 1.0\n\nFirst description line.\nSecond description line.\n")

	want := "First description line.\nSecond description line."
	if got := doc["Description"].AsString(); got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestParseNoBlankLineNoDescription(t *testing.T) {
	doc := Parse("Name: pkg\nVersion: 1.0\n")
	if _, ok := doc["Description"]; ok {
		t.Error("Description present for document without blank line")
	}
}

func TestParseEmptyDescriptionOmitted(t *testing.T) {
	doc := Parse("Name: test-package\nVersion: 1.0.0\n\n")

	if got := doc["Name"].AsString(); got != "test-package" {
		t.Errorf("Name = %q, want %q", got, "test-package")
	}
	if _, ok := doc["Description"]; ok {
		t.Error("Description present for empty description block")
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t\n  "} {
		doc := Parse(text)
		if len(doc) != 0 {
			t.Errorf("Parse(%q) = %v, want empty document", text, doc)
		}
	}
}

func TestParseStrayLinesIgnored(t *testing.T) {
	// Keys must be letters, digits, and hyphens only; anything else before
	// the colon makes the whole line a stray line.
	text := "Name: pkg\nBad Key: nope\nkey_with_underscore: nope\n::::\nVersion: 2.0\n"
	doc := Parse(text)

	if got := doc["Name"].AsString(); got != "pkg" {
		t.Errorf("Name = %q, want %q", got, "pkg")
	}
	if got := doc["Version"].AsString(); got != "2.0" {
		t.Errorf("Version = %q, want %q", got, "2.0")
	}
	if len(doc) != 2 {
		t.Errorf("got %d fields, want 2: %v", len(doc), doc)
	}
}

func TestParseDeterministic(t *testing.T) {
	text := "Name: pkg\nClassifier: A\nClassifier: B\n\nBody text.\n"
	first := Parse(text)
	second := Parse(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse not deterministic: %v vs %v", first, second)
	}
}

func TestParseProjectURLs(t *testing.T) {
	text := `Name: test-package
Project-URL: Homepage, https://example.com
Project-URL: Documentation, https://docs.example.com
Project-URL: Source, https://github.com/example/test-package
`
	doc := Parse(text)

	want := []string{
		"Homepage, https://example.com",
		"Documentation, https://docs.example.com",
		"Source, https://github.com/example/test-package",
	}
	if got := doc["Project-URL"].AsList(); !reflect.DeepEqual(got, want) {
		t.Errorf("Project-URL = %v, want %v", got, want)
	}
}

func TestParseRealWorldMetadata(t *testing.T) {
	text := `Metadata-Version: 2.1
Name: requests
Version: 2.28.2
Summary: Python HTTP for Humans.
Home-page: https://requests.readthedocs.io
Author: Kenneth Reitz
Author-email: me@kennethreitz.org
License: Apache 2.0
Project-URL: Documentation, https://requests.readthedocs.io
Project-URL: Source, https://github.com/psf/requests
Requires-Python: >=3.7, <4
Requires-Dist: certifi>=2017.4.17
Requires-Dist: charset-normalizer~=2.0.0
Requires-Dist: idna<4,>=2.5
Requires-Dist: urllib3<1.27,>=1.21.1
Classifier: Development Status :: 5 - Production/Stable
Classifier: Intended Audience :: Developers
Classifier: License :: OSI Approved :: Apache Software License
Classifier: Natural Language :: English
Classifier: Programming Language :: Python :: 3
Classifier: Programming Language :: Python :: 3.7
Classifier: Programming Language :: Python :: 3.8
Classifier: Programming Language :: Python :: 3.9
Classifier: Programming Language :: Python :: 3.10
Classifier: Programming Language :: Python :: 3.11

Requests is an elegant and simple HTTP library for Python, built for
human beings.
`
	doc := Parse(text)

	if got := doc["Name"].AsString(); got != "requests" {
		t.Errorf("Name = %q, want %q", got, "requests")
	}
	if got := doc["Requires-Python"].AsString(); got != ">=3.7, <4" {
		t.Errorf("Requires-Python = %q, want %q", got, ">=3.7, <4")
	}
	if got := len(doc["Requires-Dist"].AsList()); got != 4 {
		t.Errorf("Requires-Dist count = %d, want 4", got)
	}
	if got := len(doc["Classifier"].AsList()); got != 10 {
		t.Errorf("Classifier count = %d, want 10", got)
	}
	if desc := doc["Description"].AsString(); !strings.Contains(desc, "Requests is an elegant and simple HTTP library") {
		t.Errorf("Description = %q, want mention of the library", desc)
	}
}

func TestDocumentMerge(t *testing.T) {
	base := Document{
		"Name":    String("from-json"),
		"Summary": String("json summary"),
	}
	overlay := Document{
		"Name":    String("from-browser"),
		"Version": String("1.2.3"),
	}
	merged := base.Merge(overlay)

	if got := merged["Name"].AsString(); got != "from-browser" {
		t.Errorf("Name = %q, want overlay to win", got)
	}
	if got := merged["Summary"].AsString(); got != "json summary" {
		t.Errorf("Summary = %q, want base value retained", got)
	}
	if got := merged["Version"].AsString(); got != "1.2.3" {
		t.Errorf("Version = %q, want %q", got, "1.2.3")
	}
	if got := base["Name"].AsString(); got != "from-json" {
		t.Errorf("Merge mutated receiver: Name = %q", got)
	}
}

func TestValueAccessors(t *testing.T) {
	s := String("single")
	if s.IsList() {
		t.Error("String value reports IsList")
	}
	if got := s.AsList(); !reflect.DeepEqual(got, []string{"single"}) {
		t.Errorf("scalar AsList = %v, want [single]", got)
	}

	l := Strings([]string{"a", "b"})
	if !l.IsList() {
		t.Error("Strings value does not report IsList")
	}
	if got := l.AsString(); got != "a" {
		t.Errorf("sequence AsString = %q, want first element", got)
	}
}

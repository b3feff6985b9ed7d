package pypi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MohammadRaziei/pip-browse/pkg/httputil"
)

const projectJSON = `{
	"info": {
		"name": "requests",
		"version": "2.31.0",
		"summary": "Python HTTP for Humans.",
		"license": "Apache-2.0",
		"classifiers": ["Programming Language :: Python :: 3.11"],
		"requires_dist": ["urllib3>=1.21.1", "idna; extra == 'socks'"],
		"requires_python": ">=3.7",
		"project_urls": {"Source": "https://github.com/psf/requests"}
	},
	"releases": {
		"2.31.0": [{
			"filename": "requests-2.31.0-py3-none-any.whl",
			"url": "https://files.pythonhosted.org/requests-2.31.0-py3-none-any.whl",
			"size": 62574,
			"upload_time": "2023-05-22T15:12:42",
			"python_version": "py3",
			"packagetype": "bdist_wheel",
			"digests": {"sha256": "abc123"}
		}]
	}
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(nil, time.Second)
	client.JSONBaseURL = srv.URL
	client.BrowserBaseURL = srv.URL
	return client, srv
}

func TestFetchProject(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requests/json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(projectJSON))
	}))

	project, err := client.FetchProject(context.Background(), "Requests", false)
	if err != nil {
		t.Fatalf("FetchProject returned error: %v", err)
	}
	if project == nil {
		t.Fatal("FetchProject returned nil project")
	}
	if got, want := project.Info.Version, "2.31.0"; got != want {
		t.Errorf("version = %q, want %q", got, want)
	}
	files := project.Releases["2.31.0"]
	if len(files) != 1 {
		t.Fatalf("got %d release files, want 1", len(files))
	}
	if got, want := files[0].Size, int64(62574); got != want {
		t.Errorf("size = %d, want %d", got, want)
	}
	if got, want := files[0].Digests["sha256"], "abc123"; got != want {
		t.Errorf("sha256 digest = %q, want %q", got, want)
	}
}

func TestFetchProjectNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	project, err := client.FetchProject(context.Background(), "no-such-package", false)
	if err != nil {
		t.Fatalf("FetchProject returned error: %v", err)
	}
	if project != nil {
		t.Errorf("FetchProject = %+v, want nil for missing package", project)
	}
}

func TestFetchProjectCaching(t *testing.T) {
	var hits int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(projectJSON))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	client := NewClient(cache, time.Second)
	client.JSONBaseURL = srv.URL

	ctx := context.Background()
	for range 3 {
		if _, err := client.FetchProject(ctx, "requests", false); err != nil {
			t.Fatalf("FetchProject: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server saw %d requests, want 1 (cache hit expected)", hits)
	}

	if _, err := client.FetchProject(ctx, "requests", true); err != nil {
		t.Fatalf("FetchProject with refresh: %v", err)
	}
	if hits != 2 {
		t.Errorf("server saw %d requests after refresh, want 2", hits)
	}
}

func TestJSONDocument(t *testing.T) {
	doc := JSONDocument(ProjectInfo{
		Name:         "requests",
		Version:      "2.31.0",
		Summary:      "Python HTTP for Humans.",
		Classifiers:  []string{"Programming Language :: Python :: 3.11"},
		RequiresDist: []string{"urllib3>=1.21.1"},
		ProjectURLs: map[string]any{
			"Source":   "https://github.com/psf/requests",
			"Homepage": "https://requests.readthedocs.io",
			"Ignored":  nil,
		},
	})

	if got, want := doc["Name"].AsString(), "requests"; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
	if _, ok := doc["Author"]; ok {
		t.Error("empty Author field should be omitted")
	}
	if !doc["Classifier"].IsList() {
		t.Error("Classifier should be a sequence")
	}
	urls := doc["Project-URL"].AsList()
	want := []string{
		"Homepage, https://requests.readthedocs.io",
		"Source, https://github.com/psf/requests",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d project URLs, want %d", len(urls), len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("project URL %d = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"requests", true},
		{"a", true},
		{"zope.interface", true},
		{"typing_extensions", true},
		{"ruff-lsp", true},
		{"", false},
		{"-requests", false},
		{"requests-", false},
		{"not a package", false},
		{"name!", false},
	}
	for _, tt := range tests {
		if got := ValidatePackageName(tt.name); got != tt.valid {
			t.Errorf("ValidatePackageName(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestNormalizePackageName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Requests", "requests"},
		{"typing_extensions", "typing-extensions"},
		{"  Flask  ", "flask"},
		{"ruff", "ruff"},
	}
	for _, tt := range tests {
		if got := NormalizePackageName(tt.in); got != tt.want {
			t.Errorf("NormalizePackageName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

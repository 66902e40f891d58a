package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

type fakeRepository struct {
	files     map[string]map[string]string
	requests  []string
	published []publishedUpload
}

type publishedUpload struct {
	path        string
	body        string
	deps        publishDeps
	contentType string
	disposition string
}

func newFakeRepository(t *testing.T) (*fakeRepository, *Client) {
	t.Helper()
	repo := &fakeRepository{
		files: map[string]map[string]string{
			"model/model.pmml": {"1": "<PMML v1/>", "2": "<PMML v2/>"},
			"data/iris.csv":    {"1.0": "a,b\n1,2\n"},
		},
	}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			repo.requests = append(repo.requests, req.URL.Path)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/getresources/{type}", func(r chi.Router) {
		r.Get("/", repo.available)
		r.Get("/{name}/versions", repo.versions)
		r.Get("/{name}/versions/{version}/file", repo.file)
		r.Get("/{name}/versions/{version}/dependencies", repo.dependencies)
	})
	r.Post("/api/postresources/{type}/{name}/versions/{version}/post", repo.publish)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return repo, New(server.URL+"/api", 5*time.Second)
}

func (f *fakeRepository) lookup(r *http.Request) (map[string]string, bool) {
	versions, ok := f.files[chi.URLParam(r, "type")+"/"+chi.URLParam(r, "name")]
	return versions, ok
}

func (f *fakeRepository) available(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "type") != "model" {
		_ = json.NewEncoder(w).Encode(map[string]fileInfo{})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]fileInfo{
		"model.pmml": {ByteCount: 10, VersionStr: "2"},
		"arima.pmml": {ByteCount: 42, VersionStr: "1.3"},
	})
}

func (f *fakeRepository) versions(w http.ResponseWriter, r *http.Request) {
	versions, ok := f.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	resp := versionsResponse{LatestVersion: "2"}
	for v := range versions {
		resp.Versions = append(resp.Versions, v)
	}
	if chi.URLParam(r, "type") == "data" {
		resp.LatestVersion = "1.0"
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeRepository) file(w http.ResponseWriter, r *http.Request) {
	versions, ok := f.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, ok := versions[chi.URLParam(r, "version")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeRepository) dependencies(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.lookup(r); !ok {
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(dependenciesResponse{
		CodeDeps: map[string]dependencyInfo{
			"train.py": {IsDirectDependency: true, VersionStr: "1.1", ByteCount: 120},
			"prep.py":  {VersionStr: "0.3", ByteCount: 64},
		},
		DataDeps: map[string]dependencyInfo{
			"iris.csv": {IsDirectDependency: true, VersionStr: "1.0", ByteCount: 8},
		},
	})
}

func (f *fakeRepository) publish(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "name") == "rejected.py" {
		http.Error(w, "conflict", http.StatusConflict)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var deps publishDeps
	if err := json.Unmarshal([]byte(r.URL.Query().Get("deps")), &deps); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.published = append(f.published, publishedUpload{
		path:        r.URL.Path,
		body:        string(body),
		deps:        deps,
		contentType: r.Header.Get("Content-Type"),
		disposition: r.Header.Get("Content-Disposition"),
	})
}

func TestFetchResolvesLatestVersion(t *testing.T) {
	repo, client := newFakeRepository(t)
	desc, err := resource.Parse("model.pmml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	artifact, err := client.Fetch(context.Background(), desc)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if artifact.Version != "2" || string(artifact.Data) != "<PMML v2/>" {
		t.Fatalf("artifact = (%q, %q)", artifact.Version, artifact.Data)
	}
	want := []string{
		"/api/getresources/model/model.pmml/versions",
		"/api/getresources/model/model.pmml/versions/2/file",
	}
	if len(repo.requests) != len(want) {
		t.Fatalf("requests = %v, want %v", repo.requests, want)
	}
	for i := range want {
		if repo.requests[i] != want[i] {
			t.Fatalf("request[%d] = %q, want %q", i, repo.requests[i], want[i])
		}
	}
}

func TestFetchRequestedVersion(t *testing.T) {
	repo, client := newFakeRepository(t)
	desc, err := resource.Parse("model.pmml@1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	artifact, err := client.Fetch(context.Background(), desc)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if artifact.Version != "1" || string(artifact.Data) != "<PMML v1/>" {
		t.Fatalf("artifact = (%q, %q)", artifact.Version, artifact.Data)
	}
	if len(repo.requests) != 1 {
		t.Fatalf("requests = %v, want only the file request", repo.requests)
	}
}

func TestFetchMissingResource(t *testing.T) {
	_, client := newFakeRepository(t)
	cases := []string{"unknown.pmml", "model.pmml@9"}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			desc, err := resource.Parse(input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = client.Fetch(context.Background(), desc)
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if !fetchErr.NotFound() {
				t.Fatalf("status = %d, want 404", fetchErr.Status)
			}
		})
	}
}

func TestFetchUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := New(server.URL, time.Second)
	server.Close()

	desc, err := resource.Parse("train.py@1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = client.Fetch(context.Background(), desc)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Status != 0 || fetchErr.Err == nil {
		t.Fatalf("fetchErr = %+v, want transport error", fetchErr)
	}
}

func TestAvailableSortsByName(t *testing.T) {
	_, client := newFakeRepository(t)
	listings, err := client.Available(context.Background(), resource.Model)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	if listings[0].Name != "arima.pmml" || listings[0].Version != "1.3" || listings[0].Size != 42 {
		t.Fatalf("first listing = %+v", listings[0])
	}
	if listings[1].Name != "model.pmml" {
		t.Fatalf("second listing = %+v", listings[1])
	}

	empty, err := client.Available(context.Background(), resource.Code)
	if err != nil {
		t.Fatalf("Available(code): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("code listings = %v, want none", empty)
	}
}

func TestFetchRejectsOversizedArtifact(t *testing.T) {
	previous := maxArtifactBytes
	maxArtifactBytes = 8
	t.Cleanup(func() { maxArtifactBytes = previous })

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "declared length",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("0123456789abcdefghij"))
			},
		},
		{
			name: "chunked",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("0123456789"))
				w.(http.Flusher).Flush()
				_, _ = w.Write([]byte("abcdefghij"))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			t.Cleanup(server.Close)
			client := New(server.URL, 5*time.Second)
			desc, err := resource.Parse("model.pmml@1")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			artifact, err := client.Fetch(context.Background(), desc)
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v (data %q)", err, artifact.Data)
			}
			if !errors.Is(err, errArtifactTooLarge) {
				t.Fatalf("error = %v, want errArtifactTooLarge", err)
			}
			if artifact.Data != nil {
				t.Fatalf("data = %q, want none", artifact.Data)
			}
		})
	}
}

func TestFetchAcceptsArtifactAtLimit(t *testing.T) {
	previous := maxArtifactBytes
	maxArtifactBytes = 10
	t.Cleanup(func() { maxArtifactBytes = previous })

	_, client := newFakeRepository(t)
	desc, err := resource.Parse("model.pmml@2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	artifact, err := client.Fetch(context.Background(), desc)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(artifact.Data) != "<PMML v2/>" {
		t.Fatalf("data = %q", artifact.Data)
	}
}

func TestDependenciesResolvesLatestAndSorts(t *testing.T) {
	repo, client := newFakeRepository(t)
	desc, err := resource.Parse("model.pmml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	deps, err := client.Dependencies(context.Background(), desc)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	want := []resource.Dependency{
		{Category: resource.Code, Name: "prep.py", Version: "0.3", Size: 64},
		{Category: resource.Code, Name: "train.py", Version: "1.1", Size: 120, Direct: true},
		{Category: resource.Data, Name: "iris.csv", Version: "1.0", Size: 8, Direct: true},
	}
	if len(deps) != len(want) {
		t.Fatalf("deps = %+v, want %+v", deps, want)
	}
	for i := range want {
		if deps[i] != want[i] {
			t.Fatalf("deps[%d] = %+v, want %+v", i, deps[i], want[i])
		}
	}
	last := repo.requests[len(repo.requests)-1]
	if last != "/api/getresources/model/model.pmml/versions/2/dependencies" {
		t.Fatalf("last request = %q", last)
	}
}

func TestDependenciesMissingResource(t *testing.T) {
	_, client := newFakeRepository(t)
	desc, err := resource.Parse("unknown.py@1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = client.Dependencies(context.Background(), desc)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || !fetchErr.NotFound() {
		t.Fatalf("error = %v, want 404 *FetchError", err)
	}
}

func TestPublishUploadsBodyAndDeps(t *testing.T) {
	repo, client := newFakeRepository(t)
	desc, err := resource.Parse("train.py@2.2.3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var deps []resource.Description
	for _, raw := range []string{"prep.py@1.2.3", "iris.csv@1.0"} {
		dep, err := resource.Parse(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		deps = append(deps, dep)
	}

	if err := client.Publish(context.Background(), desc, []byte("print(1)\n"), deps); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(repo.published) != 1 {
		t.Fatalf("published = %d, want 1", len(repo.published))
	}
	got := repo.published[0]
	if got.path != "/api/postresources/code/train.py/versions/2.2.3/post" {
		t.Fatalf("path = %q", got.path)
	}
	if got.body != "print(1)\n" {
		t.Fatalf("body = %q", got.body)
	}
	if got.contentType != "application/octet-stream" {
		t.Fatalf("content type = %q", got.contentType)
	}
	if got.disposition != `form-data; filename=train.py; name="files[train.py]"` {
		t.Fatalf("content disposition = %q", got.disposition)
	}
	if got.deps.CodeDeps["prep.py"].Version != "1.2.3" || got.deps.DataDeps["iris.csv"].Version != "1.0" {
		t.Fatalf("deps = %+v", got.deps)
	}
	if len(got.deps.ModelDeps) != 0 {
		t.Fatalf("model deps = %+v, want none", got.deps.ModelDeps)
	}
}

func TestPublishErrors(t *testing.T) {
	_, client := newFakeRepository(t)
	unversionedDep, _ := resource.Parse("prep.py")
	cases := []struct {
		name       string
		input      string
		deps       []resource.Description
		wantStatus int
	}{
		{name: "server rejects", input: "rejected.py@1", wantStatus: http.StatusConflict},
		{name: "missing version", input: "train.py"},
		{name: "unversioned dependency", input: "train.py@1", deps: []resource.Description{unversionedDep}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := resource.Parse(tc.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			err = client.Publish(context.Background(), desc, []byte("x"), tc.deps)
			var publishErr *PublishError
			if !errors.As(err, &publishErr) {
				t.Fatalf("expected *PublishError, got %v", err)
			}
			if publishErr.Status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", publishErr.Status, tc.wantStatus)
			}
		})
	}
}

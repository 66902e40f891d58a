package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/debuglog"
)

// maxArtifactBytes bounds the size of a downloaded file.
var maxArtifactBytes int64 = 1 << 30

// Client talks to a resource repository server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type versionsResponse struct {
	Versions      []string `json:"versions"`
	LatestVersion string   `json:"latestVersion"`
}

type fileInfo struct {
	ByteCount  int64  `json:"byteCount"`
	VersionStr string `json:"versionStr"`
}

type dependencyInfo struct {
	IsDirectDependency bool   `json:"isDirectDependency"`
	VersionStr         string `json:"versionStr"`
	ByteCount          int64  `json:"byteCount"`
}

type dependenciesResponse struct {
	CodeDeps  map[string]dependencyInfo `json:"codeDeps"`
	DataDeps  map[string]dependencyInfo `json:"dataDeps"`
	ModelDeps map[string]dependencyInfo `json:"modelDeps"`
}

type publishedDep struct {
	Version string `json:"version"`
}

type publishDeps struct {
	CodeDeps  map[string]publishedDep `json:"codeDeps"`
	DataDeps  map[string]publishedDep `json:"dataDeps"`
	ModelDeps map[string]publishedDep `json:"modelDeps"`
}

// Fetch downloads a resource. Without a requested version the server's
// latest version is fetched.
func (c *Client) Fetch(ctx context.Context, desc resource.Description) (resource.Artifact, error) {
	version, err := c.resolveVersion(ctx, desc)
	if err != nil {
		return resource.Artifact{}, err
	}

	endpoint := c.endpoint("getresources", desc.Category(), desc.Name(), "versions", version, "file")
	resp, err := c.get(ctx, endpoint, desc.String())
	if err != nil {
		return resource.Artifact{}, err
	}
	defer resp.Body.Close()
	tooLarge := &FetchError{
		Resource: desc.String(),
		Err:      fmt.Errorf("%w of %d bytes", errArtifactTooLarge, maxArtifactBytes),
	}
	if resp.ContentLength > maxArtifactBytes {
		return resource.Artifact{}, tooLarge
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return resource.Artifact{}, &FetchError{Resource: desc.String(), Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > maxArtifactBytes {
		return resource.Artifact{}, tooLarge
	}
	return resource.Artifact{Data: data, Version: version}, nil
}

// Versions returns every version the server holds for a resource, newest first
// as the server orders them, plus the latest one.
func (c *Client) Versions(ctx context.Context, desc resource.Description) ([]string, string, error) {
	endpoint := c.endpoint("getresources", desc.Category(), desc.Name(), "versions")
	var resp versionsResponse
	if err := c.getJSON(ctx, endpoint, desc.Name(), &resp); err != nil {
		return nil, "", err
	}
	return resp.Versions, resp.LatestVersion, nil
}

func (c *Client) resolveVersion(ctx context.Context, desc resource.Description) (string, error) {
	if version, ok := desc.Version(); ok && strings.TrimSpace(version) != "" {
		return version, nil
	}
	versions, latest, err := c.Versions(ctx, desc)
	if err != nil {
		return "", err
	}
	latest = strings.TrimSpace(latest)
	if latest == "" && len(versions) > 0 {
		latest = strings.TrimSpace(versions[0])
	}
	if latest == "" {
		return "", &FetchError{Resource: desc.Name(), Err: errNoVersions}
	}
	return latest, nil
}

// Available lists what the server holds for one category, sorted by name.
func (c *Client) Available(ctx context.Context, category resource.Category) ([]resource.Listing, error) {
	endpoint := c.endpoint("getresources", category, "")
	var resp map[string]fileInfo
	if err := c.getJSON(ctx, endpoint, category.String()+" resources", &resp); err != nil {
		return nil, err
	}
	listings := make([]resource.Listing, 0, len(resp))
	for name, info := range resp {
		listings = append(listings, resource.Listing{Name: name, Version: info.VersionStr, Size: info.ByteCount})
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Name < listings[j].Name
	})
	return listings, nil
}

// Dependencies returns the resolved dependency tree of one resource version,
// ordered by category then name. Without a version the latest one is used.
func (c *Client) Dependencies(ctx context.Context, desc resource.Description) ([]resource.Dependency, error) {
	version, err := c.resolveVersion(ctx, desc)
	if err != nil {
		return nil, err
	}
	endpoint := c.endpoint("getresources", desc.Category(), desc.Name(), "versions", version, "dependencies")
	var resp dependenciesResponse
	if err := c.getJSON(ctx, endpoint, "dependencies of "+desc.Name()+"@"+version, &resp); err != nil {
		return nil, err
	}
	var deps []resource.Dependency
	for _, group := range []struct {
		category resource.Category
		entries  map[string]dependencyInfo
	}{
		{resource.Code, resp.CodeDeps},
		{resource.Model, resp.ModelDeps},
		{resource.Data, resp.DataDeps},
	} {
		for name, info := range group.entries {
			deps = append(deps, resource.Dependency{
				Category: group.category,
				Name:     name,
				Version:  info.VersionStr,
				Size:     info.ByteCount,
				Direct:   info.IsDirectDependency,
			})
		}
	}
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Category != deps[j].Category {
			return deps[i].Category < deps[j].Category
		}
		return deps[i].Name < deps[j].Name
	})
	return deps, nil
}

// Publish uploads data as version of desc's resource, declaring deps as its
// direct dependencies. desc and every dependency must carry a version.
func (c *Client) Publish(ctx context.Context, desc resource.Description, data []byte, deps []resource.Description) error {
	version, ok := desc.Version()
	if !ok || strings.TrimSpace(version) == "" {
		return &PublishError{Resource: desc.String(), Err: fmt.Errorf("version is required")}
	}
	declared := publishDeps{
		CodeDeps:  map[string]publishedDep{},
		DataDeps:  map[string]publishedDep{},
		ModelDeps: map[string]publishedDep{},
	}
	for _, dep := range deps {
		depVersion, ok := dep.Version()
		if !ok {
			return &PublishError{Resource: desc.String(), Err: fmt.Errorf("dependency %s has no version", dep.Name())}
		}
		switch dep.Category() {
		case resource.Code:
			declared.CodeDeps[dep.Name()] = publishedDep{Version: depVersion}
		case resource.Model:
			declared.ModelDeps[dep.Name()] = publishedDep{Version: depVersion}
		case resource.Data:
			declared.DataDeps[dep.Name()] = publishedDep{Version: depVersion}
		}
	}
	encoded, err := json.Marshal(declared)
	if err != nil {
		return &PublishError{Resource: desc.String(), Err: fmt.Errorf("encode dependencies: %w", err)}
	}

	endpoint := c.endpoint("postresources", desc.Category(), desc.Name(), "versions", version, "post")
	endpoint += "?" + url.Values{"deps": {string(encoded)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return &PublishError{Resource: desc.String(), Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "files[" + desc.Name() + "]",
		"filename": desc.Name(),
	}))
	resp, status, err := c.do(req)
	if err != nil {
		return &PublishError{Resource: desc.String(), Err: err}
	}
	if status != 0 {
		return &PublishError{Resource: desc.String(), Status: status}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.Body.Close()
}

func (c *Client) endpoint(route string, category resource.Category, name string, rest ...string) string {
	parts := []string{c.BaseURL, route, category.String()}
	if name != "" {
		parts = append(parts, url.PathEscape(name))
	}
	for _, part := range rest {
		parts = append(parts, url.PathEscape(part))
	}
	return strings.Join(parts, "/")
}

func (c *Client) getJSON(ctx context.Context, endpoint, subject string, out any) error {
	resp, err := c.get(ctx, endpoint, subject)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Resource: subject, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, subject string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Resource: subject, Err: err}
	}
	resp, status, err := c.do(req)
	if err != nil {
		return nil, &FetchError{Resource: subject, Err: err}
	}
	if status != 0 {
		return nil, &FetchError{Resource: subject, Status: status}
	}
	return resp, nil
}

// do sends req. A non-2xx answer is drained and reported as its status code
// with a nil response.
func (c *Client) do(req *http.Request) (*http.Response, int, error) {
	trace := debuglog.NewTrace("http")
	debuglog.LogRequest(trace, req.Method, req.URL.String())
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		debuglog.LogError(trace, err)
		return nil, 0, err
	}
	debuglog.LogResponse(trace, resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, resp.StatusCode, nil
	}
	return resp, 0, nil
}

package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	errNoVersions       = errors.New("server has no versions")
	errArtifactTooLarge = errors.New("artifact exceeds size limit")
)

// FetchError reports a failed request to the repository server. Status is set
// when the server answered with a non-2xx code.
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("unable to get %s from server: %d %s", e.Resource, e.Status, http.StatusText(e.Status))
	}
	if e.Err == nil {
		return fmt.Sprintf("unable to get %s from server", e.Resource)
	}
	return fmt.Sprintf("unable to get %s from server: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the server did not know the resource.
func (e *FetchError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// PublishError reports a failed upload to the repository server.
type PublishError struct {
	Resource string
	Status   int
	Err      error
}

func (e *PublishError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("unable to publish %s to server: %d %s", e.Resource, e.Status, http.StatusText(e.Status))
	}
	if e.Err == nil {
		return fmt.Sprintf("unable to publish %s to server", e.Resource)
	}
	return fmt.Sprintf("unable to publish %s to server: %v", e.Resource, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

package workspace

import (
	"errors"
	"fmt"
)

var ErrNotInstalled = errors.New("resource is not installed")

// WorkspaceError reports a filesystem operation on the workspace that failed.
type WorkspaceError struct {
	Op   string
	Path string
	Err  error
}

func (e *WorkspaceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

// PersistError reports a failure to store a fetched resource.
type PersistError struct {
	Resource string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Resource, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

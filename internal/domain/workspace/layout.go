package workspace

import (
	"fmt"
	"os"

	"github.com/nyoka-pmml/nyoka-cli/internal/infra/paths"
)

// Status is the outcome of ensuring one required path.
type Status struct {
	Path    string
	Created bool
}

// AllExist reports whether every required path is present.
func (w Workspace) AllExist() (bool, error) {
	for _, rel := range w.RequiredPaths() {
		exists, err := paths.DirExists(w.Path(rel))
		if err != nil {
			return false, &WorkspaceError{Op: "check", Path: rel, Err: err}
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

// CreateMissing creates each absent required path in order. On failure the
// statuses for paths handled so far are returned with the error.
func (w Workspace) CreateMissing() ([]Status, error) {
	if w.Root == "" {
		return nil, &WorkspaceError{Op: "create", Err: fmt.Errorf("root directory is required")}
	}
	var statuses []Status
	for _, rel := range w.RequiredPaths() {
		dir := w.Path(rel)
		exists, err := paths.DirExists(dir)
		if err != nil {
			return statuses, &WorkspaceError{Op: "check", Path: rel, Err: err}
		}
		if exists {
			statuses = append(statuses, Status{Path: rel})
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return statuses, &WorkspaceError{Op: "create", Path: rel, Err: err}
		}
		statuses = append(statuses, Status{Path: rel, Created: true})
	}
	return statuses, nil
}

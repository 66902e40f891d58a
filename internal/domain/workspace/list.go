package workspace

import (
	"errors"
	"fmt"
	"os"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

// Entry is one resource file found under a category root.
type Entry struct {
	Name    string
	Size    int64
	Version string
	// Tracked is true when the metadata dir has a record for the file.
	Tracked bool
}

// ListResources returns the files directly under a category root, skipping
// directories (and with them the hidden metadata dir). A missing root yields
// no entries.
func (w Workspace) ListResources(category resource.Category) ([]Entry, error) {
	dirs, ok := w.Layout.Dirs(category)
	if !ok {
		return nil, &WorkspaceError{Op: "list", Err: fmt.Errorf("no directory configured for %s resources", category)}
	}
	items, err := os.ReadDir(w.Path(dirs.Root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &WorkspaceError{Op: "list", Path: dirs.Root, Err: err}
	}

	installed, err := loadInstalled(w.Path(dirs.Meta))
	if err != nil {
		return nil, &WorkspaceError{Op: "read", Path: dirs.Meta, Err: err}
	}

	var entries []Entry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		info, err := item.Info()
		if err != nil {
			return nil, &WorkspaceError{Op: "list", Path: dirs.Root, Err: err}
		}
		if !info.Mode().IsRegular() {
			continue
		}
		entry := Entry{Name: item.Name(), Size: info.Size()}
		if record, ok := installed.Resources[item.Name()]; ok {
			entry.Version = record.Version
			entry.Tracked = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

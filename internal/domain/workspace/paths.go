package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/paths"
)

// CategoryDirs is the pair of directories one category owns, relative to the
// workspace root.
type CategoryDirs struct {
	Category resource.Category
	Root     string
	Meta     string
}

// Layout is the fixed set of directories a workspace must contain.
type Layout struct {
	categories []CategoryDirs
}

// DefaultLayout is Code, Models and Data, each with a hidden .nyoka dir.
var DefaultLayout = newLayout(
	categoryDirs(resource.Code, paths.CodeDirName),
	categoryDirs(resource.Model, paths.ModelsDirName),
	categoryDirs(resource.Data, paths.DataDirName),
)

func newLayout(dirs ...CategoryDirs) Layout {
	return Layout{categories: dirs}
}

func categoryDirs(category resource.Category, root string) CategoryDirs {
	return CategoryDirs{Category: category, Root: root, Meta: paths.MetaDir(root)}
}

// Categories returns the per-category directories in layout order.
func (l Layout) Categories() []CategoryDirs {
	return append([]CategoryDirs(nil), l.categories...)
}

// Dirs returns the directories for one category.
func (l Layout) Dirs(category resource.Category) (CategoryDirs, bool) {
	for _, dirs := range l.categories {
		if dirs.Category == category {
			return dirs, true
		}
	}
	return CategoryDirs{}, false
}

// RequiredPaths yields each category root followed by its metadata dir.
func (l Layout) RequiredPaths() []string {
	out := make([]string, 0, len(l.categories)*2)
	for _, dirs := range l.categories {
		out = append(out, dirs.Root, dirs.Meta)
	}
	return out
}

// Workspace binds a layout to a root directory on disk.
type Workspace struct {
	Root   string
	Layout Layout
}

func New(rootDir string) Workspace {
	return Workspace{Root: rootDir, Layout: DefaultLayout}
}

func (w Workspace) RequiredPaths() []string {
	return w.Layout.RequiredPaths()
}

// Path resolves a layout-relative path against the root.
func (w Workspace) Path(rel string) string {
	return filepath.Join(w.Root, rel)
}

// CategoryRoot returns the absolute root directory of a category.
func (w Workspace) CategoryRoot(category resource.Category) (string, error) {
	dirs, ok := w.Layout.Dirs(category)
	if !ok {
		return "", fmt.Errorf("no directory configured for %s resources", category)
	}
	return w.Path(dirs.Root), nil
}

// MetaRoot returns the absolute metadata directory of a category.
func (w Workspace) MetaRoot(category resource.Category) (string, error) {
	dirs, ok := w.Layout.Dirs(category)
	if !ok {
		return "", fmt.Errorf("no directory configured for %s resources", category)
	}
	return w.Path(dirs.Meta), nil
}

// ResourcePath returns where a resource's bytes live in the workspace.
func (w Workspace) ResourcePath(desc resource.Description) (string, error) {
	name := desc.Name()
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("resource name must be a plain file name: %q", name)
	}
	root, err := w.CategoryRoot(desc.Category())
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

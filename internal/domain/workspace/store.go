package workspace

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/paths"
)

// Store writes fetched resources into a workspace and keeps the installed
// records in each category's metadata dir. Writes to one category are
// serialized.
type Store struct {
	ws  Workspace
	now func() time.Time

	mu    sync.Mutex
	locks map[resource.Category]*sync.Mutex
}

func NewStore(ws Workspace) *Store {
	return &Store{
		ws:    ws,
		now:   func() time.Time { return time.Now().UTC() },
		locks: make(map[resource.Category]*sync.Mutex),
	}
}

func (s *Store) lock(category resource.Category) func() {
	s.mu.Lock()
	l, ok := s.locks[category]
	if !ok {
		l = &sync.Mutex{}
		s.locks[category] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Exists reports whether the resource file is present.
func (s *Store) Exists(desc resource.Description) (bool, error) {
	path, err := s.ws.ResourcePath(desc)
	if err != nil {
		return false, err
	}
	exists, err := paths.FileExists(path)
	if err != nil {
		return false, &WorkspaceError{Op: "check", Path: path, Err: err}
	}
	return exists, nil
}

// Installed returns the record for a resource, if one exists.
func (s *Store) Installed(desc resource.Description) (Record, bool, error) {
	metaDir, err := s.ws.MetaRoot(desc.Category())
	if err != nil {
		return Record{}, false, err
	}
	file, err := loadInstalled(metaDir)
	if err != nil {
		return Record{}, false, &WorkspaceError{Op: "read", Path: metaDir, Err: err}
	}
	record, ok := file.Resources[desc.Name()]
	return record, ok, nil
}

// Record writes data as the resource's file and records version as
// installed. The record is loaded before anything is written, and the file
// only replaces an existing one once the record has been saved.
func (s *Store) Record(desc resource.Description, data []byte, version string) error {
	unlock := s.lock(desc.Category())
	defer unlock()

	fail := func(err error) error {
		return &PersistError{Resource: desc.String(), Err: err}
	}
	root, err := s.ws.CategoryRoot(desc.Category())
	if err != nil {
		return fail(err)
	}
	metaDir, err := s.ws.MetaRoot(desc.Category())
	if err != nil {
		return fail(err)
	}
	path, err := s.ws.ResourcePath(desc)
	if err != nil {
		return fail(err)
	}
	file, err := loadInstalled(metaDir)
	if err != nil {
		return fail(&WorkspaceError{Op: "read", Path: metaDir, Err: err})
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fail(&WorkspaceError{Op: "create", Path: root, Err: err})
	}
	tmp, err := writeTemp(root, desc.Name(), data)
	if err != nil {
		return fail(&WorkspaceError{Op: "write", Path: path, Err: err})
	}

	previous, hadPrevious := file.Resources[desc.Name()]
	file.Resources[desc.Name()] = Record{
		Version:     version,
		Size:        int64(len(data)),
		InstalledAt: s.now(),
	}
	if err := saveInstalled(metaDir, file); err != nil {
		_ = os.Remove(tmp)
		return fail(&WorkspaceError{Op: "write", Path: metaDir, Err: err})
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		if hadPrevious {
			file.Resources[desc.Name()] = previous
		} else {
			delete(file.Resources, desc.Name())
		}
		_ = saveInstalled(metaDir, file)
		return fail(&WorkspaceError{Op: "write", Path: path, Err: err})
	}
	return nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

// Remove deletes the resource file and its record. Nothing is deleted when
// the record cannot be read.
func (s *Store) Remove(desc resource.Description) error {
	unlock := s.lock(desc.Category())
	defer unlock()

	path, err := s.ws.ResourcePath(desc)
	if err != nil {
		return err
	}
	metaDir, err := s.ws.MetaRoot(desc.Category())
	if err != nil {
		return err
	}
	file, err := loadInstalled(metaDir)
	if err != nil {
		return &WorkspaceError{Op: "read", Path: metaDir, Err: err}
	}
	exists, err := paths.FileExists(path)
	if err != nil {
		return &WorkspaceError{Op: "check", Path: path, Err: err}
	}
	if !exists {
		return fmt.Errorf("%s: %w", desc.Name(), ErrNotInstalled)
	}

	record, tracked := file.Resources[desc.Name()]
	if tracked {
		delete(file.Resources, desc.Name())
		if err := saveInstalled(metaDir, file); err != nil {
			return &WorkspaceError{Op: "write", Path: metaDir, Err: err}
		}
	}
	if err := os.Remove(path); err != nil {
		if tracked {
			file.Resources[desc.Name()] = record
			_ = saveInstalled(metaDir, file)
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", desc.Name(), ErrNotInstalled)
		}
		return &WorkspaceError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

func TestStoreRecordAndRemove(t *testing.T) {
	ws := New(t.TempDir())
	store := NewStore(ws)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	desc, err := resource.Parse("weights.pmml@3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := store.Record(desc, []byte("<PMML/>"), "3"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	exists, err := store.Exists(desc)
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v", exists, err)
	}
	path, _ := ws.ResourcePath(desc)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if string(data) != "<PMML/>" {
		t.Fatalf("resource content = %q", data)
	}

	record, ok, err := store.Installed(desc)
	if err != nil || !ok {
		t.Fatalf("Installed = %v, %v", ok, err)
	}
	if record.Version != "3" || record.Size != 7 || !record.InstalledAt.Equal(fixed) {
		t.Fatalf("record = %+v", record)
	}

	entries, err := ws.ListResources(resource.Model)
	if err != nil {
		t.Fatalf("ListResources: %v", err)
	}
	if len(entries) != 1 || entries[0].Version != "3" {
		t.Fatalf("entries = %+v", entries)
	}

	if err := store.Remove(desc); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := store.Installed(desc); ok {
		t.Fatalf("expected record to be removed")
	}
	if err := store.Remove(desc); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("second Remove error = %v, want ErrNotInstalled", err)
	}
}

func TestStoreRecordWrapsFailures(t *testing.T) {
	rootDir := t.TempDir()
	if err := os.WriteFile(rootDir+"/Data", []byte("blocker"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store := NewStore(New(rootDir))
	desc, _ := resource.Parse("table.csv")

	err := store.Record(desc, []byte("a,b"), "1")
	var persistErr *PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected *PersistError, got %v", err)
	}
	var wsErr *WorkspaceError
	if !errors.As(err, &wsErr) {
		t.Fatalf("expected wrapped *WorkspaceError, got %v", err)
	}
}

func writeCorruptRecords(t *testing.T, ws Workspace, category resource.Category) {
	t.Helper()
	metaDir, err := ws.MetaRoot(category)
	if err != nil {
		t.Fatalf("MetaRoot: %v", err)
	}
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		t.Fatalf("mkdir meta: %v", err)
	}
	if err := os.WriteFile(filepath.Join(metaDir, installedFileName), []byte("resources: [\n"), 0o644); err != nil {
		t.Fatalf("write records: %v", err)
	}
}

func TestStoreRecordLeavesNoFileWhenRecordsUnreadable(t *testing.T) {
	ws := New(t.TempDir())
	writeCorruptRecords(t, ws, resource.Model)
	store := NewStore(ws)
	desc, _ := resource.Parse("weights.pmml@3")

	err := store.Record(desc, []byte("<PMML/>"), "3")
	var persistErr *PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected *PersistError, got %v", err)
	}
	exists, err := store.Exists(desc)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("resource file written despite unreadable records")
	}
	root, _ := ws.CategoryRoot(resource.Model)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			t.Fatalf("unexpected file left in %s: %s", root, entry.Name())
		}
	}
}

func TestStoreRecordReplacesExistingFile(t *testing.T) {
	ws := New(t.TempDir())
	store := NewStore(ws)
	desc, _ := resource.Parse("train.py")
	if err := store.Record(desc, []byte("v1"), "1"); err != nil {
		t.Fatalf("Record v1: %v", err)
	}
	if err := store.Record(desc, []byte("v2!"), "2"); err != nil {
		t.Fatalf("Record v2: %v", err)
	}
	path, _ := ws.ResourcePath(desc)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if string(data) != "v2!" {
		t.Fatalf("content = %q, want v2!", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("mode = %v, want 0644", info.Mode().Perm())
	}
	record, ok, err := store.Installed(desc)
	if err != nil || !ok || record.Version != "2" || record.Size != 3 {
		t.Fatalf("record = %+v, %v, %v", record, ok, err)
	}
	root, _ := ws.CategoryRoot(resource.Code)
	entries, _ := os.ReadDir(root)
	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() != "train.py" {
			t.Fatalf("unexpected file left in %s: %s", root, entry.Name())
		}
	}
}

func TestStoreRemoveKeepsFileWhenRecordsUnreadable(t *testing.T) {
	ws := New(t.TempDir())
	store := NewStore(ws)
	desc, _ := resource.Parse("iris.csv")
	if err := store.Record(desc, []byte("a,b"), "1.0"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	writeCorruptRecords(t, ws, resource.Data)

	err := store.Remove(desc)
	var wsErr *WorkspaceError
	if !errors.As(err, &wsErr) {
		t.Fatalf("expected *WorkspaceError, got %v", err)
	}
	if wsErr.Op != "read" {
		t.Fatalf("op = %q, want read", wsErr.Op)
	}
	exists, err := store.Exists(desc)
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v, want file kept", exists, err)
	}
}

func TestStoreRemoveUntrackedFile(t *testing.T) {
	ws := New(t.TempDir())
	store := NewStore(ws)
	desc, _ := resource.Parse("notes.py")
	root, _ := ws.CategoryRoot(resource.Code)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, _ := ws.ResourcePath(desc)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := store.Remove(desc); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat after remove = %v, want not exist", err)
	}
}

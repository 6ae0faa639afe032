package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeSnapshotter struct {
	dbPath    string
	snapshots []string
	err       error
}

func (f *fakeSnapshotter) DBPath() string { return f.dbPath }

func (f *fakeSnapshotter) SnapshotTo(dstPath string) error {
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, dstPath)
	return os.WriteFile(dstPath, []byte("snapshot"), 0o644)
}

type fakeUploader struct {
	uploads []string
	err     error
}

func (f *fakeUploader) UploadFile(_ context.Context, localPath string) error {
	if f.err != nil {
		return f.err
	}
	f.uploads = append(f.uploads, localPath)
	return nil
}

func TestNewManagerDisabled(t *testing.T) {
	m, err := NewManager(&fakeSnapshotter{dbPath: "/tmp/x.duckdb"}, Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m != nil {
		t.Error("disabled config should return nil manager")
	}
}

func TestNewManagerRejectsInMemoryStore(t *testing.T) {
	_, err := NewManager(&fakeSnapshotter{dbPath: ""}, Config{
		Enabled:  true,
		LocalDir: t.TempDir(),
	})
	if err == nil {
		t.Error("expected error for in-memory store")
	}
}

func TestNewManagerRequiresLocalDir(t *testing.T) {
	_, err := NewManager(&fakeSnapshotter{dbPath: "/tmp/x.duckdb"}, Config{Enabled: true})
	if err == nil {
		t.Error("expected error when local-dir is empty")
	}
}

func TestRunOnceCreatesAndUploads(t *testing.T) {
	dir := t.TempDir()
	snap := &fakeSnapshotter{dbPath: "/tmp/x.duckdb"}
	up := &fakeUploader{}

	m := &Manager{
		store:    snap,
		cfg:      Config{LocalDir: dir, KeepLast: 10},
		uploader: up,
	}

	if err := m.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(snap.snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snap.snapshots))
	}
	if len(up.uploads) != 1 || up.uploads[0] != snap.snapshots[0] {
		t.Errorf("uploads = %v", up.uploads)
	}
	if base := filepath.Base(snap.snapshots[0]); base[:len(snapshotPrefix)] != snapshotPrefix {
		t.Errorf("snapshot name %q missing prefix", base)
	}
}

func TestRunOnceSnapshotError(t *testing.T) {
	m := &Manager{
		store: &fakeSnapshotter{dbPath: "/tmp/x.duckdb", err: errors.New("disk full")},
		cfg:   Config{LocalDir: t.TempDir(), KeepLast: 10},
	}
	if err := m.RunOnce(context.Background()); err == nil {
		t.Error("expected snapshot error")
	}
}

func TestPruneLocalBackupsKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		snapshotPrefix + "20260101-000000.duckdb",
		snapshotPrefix + "20260102-000000.duckdb",
		snapshotPrefix + "20260103-000000.duckdb",
	}
	for _, n := range names {
		os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644)
	}

	if err := pruneLocalBackups(dir, 2); err != nil {
		t.Fatalf("pruneLocalBackups: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Error("oldest snapshot not pruned")
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("kept snapshot %s missing: %v", n, err)
		}
	}
}

func TestManagerLoopStops(t *testing.T) {
	dir := t.TempDir()
	snap := &fakeSnapshotter{dbPath: "/tmp/x.duckdb"}

	m, err := NewManager(snap, Config{
		Enabled:  true,
		Interval: time.Hour,
		LocalDir: dir,
		KeepLast: 5,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	// Startup snapshot ran.
	if len(snap.snapshots) != 1 {
		t.Errorf("startup snapshots = %d, want 1", len(snap.snapshots))
	}
	m.Stop()
}

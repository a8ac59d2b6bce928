package repository

import (
	"context"
	"diagform/internal/model"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSnapshotExists is returned when a snapshot name is already taken
var ErrSnapshotExists = errors.New("snapshot already exists")

// SnapshotStore persists raw submissions. Snapshots are write-once.
type SnapshotStore interface {
	Put(ctx context.Context, snapshot *model.Snapshot) error
}

type fileSnapshotStore struct {
	dir string
}

// NewFileSnapshotStore stores snapshots as files under dir
func NewFileSnapshotStore(dir string) (SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &fileSnapshotStore{dir: dir}, nil
}

func (s *fileSnapshotStore) Put(_ context.Context, snapshot *model.Snapshot) error {
	path, err := joinName(s.dir, snapshot.Name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, snapshot.Name)
	}
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", snapshot.Name, err)
	}
	if _, err := f.Write(snapshot.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write snapshot %s: %w", snapshot.Name, err)
	}
	return f.Close()
}

// joinName keeps generated names inside dir
func joinName(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(dir, name), nil
}

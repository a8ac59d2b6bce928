package repository

import (
	"errors"
	"fmt"
	"os"
)

// ArtifactDir holds the spreadsheet artifacts produced by the pipeline
type ArtifactDir struct {
	dir string
}

// NewArtifactDir creates dir when missing
func NewArtifactDir(dir string) (*ArtifactDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &ArtifactDir{dir: dir}, nil
}

// Write stores an artifact and returns its path
func (a *ArtifactDir) Write(name string, data []byte) (string, error) {
	path, err := joinName(a.dir, name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes an artifact; a missing file is not an error
func (a *ArtifactDir) Remove(name string) error {
	path, err := joinName(a.dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove artifact %s: %w", name, err)
	}
	return nil
}

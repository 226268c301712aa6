package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFS implements Storage on the local filesystem: one directory per run,
// one file per artifact.
type LocalFS struct {
	basePath string
}

// NewLocalFS creates a new LocalFS archive rooted at basePath.
func NewLocalFS(basePath string) (*LocalFS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path: %w", err)
	}
	return &LocalFS{basePath: basePath}, nil
}

func (l *LocalFS) artifactPath(run, name string) string {
	return filepath.Join(l.basePath, run, name)
}

func (l *LocalFS) Store(ctx context.Context, run, name string, data []byte) error {
	path := l.artifactPath(run, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (l *LocalFS) Load(ctx context.Context, run, name string) ([]byte, error) {
	return os.ReadFile(l.artifactPath(run, name))
}

func (l *LocalFS) List(ctx context.Context, run string) ([]string, error) {
	runDir := filepath.Join(l.basePath, run)

	var names []string
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(runDir, path)
			names = append(names, rel)
		}
		return nil
	})

	if os.IsNotExist(err) {
		return []string{}, nil
	}
	return names, err
}

func (l *LocalFS) Exists(ctx context.Context, run, name string) (bool, error) {
	_, err := os.Stat(l.artifactPath(run, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"community-resources-be/pkg/resource"
)

// FileStore keeps one JSON document per category in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(c resource.Category) string {
	return filepath.Join(s.dir, string(c)+".json")
}

func (s *FileStore) Load(_ context.Context, c resource.Category) (*resource.Dataset, error) {
	b, err := os.ReadFile(s.path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", c, err)
	}
	return decode(c, b)
}

// Save writes to a temp file and renames it so readers never see a
// half-written artifact.
func (s *FileStore) Save(_ context.Context, d *resource.Dataset) error {
	b, err := encode(d)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, string(d.Category)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact %s: %w", d.Category, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact %s: %w", d.Category, err)
	}
	if err := os.Rename(tmp.Name(), s.path(d.Category)); err != nil {
		return fmt.Errorf("replace artifact %s: %w", d.Category, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, c resource.Category) error {
	err := os.Remove(s.path(c))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact %s: %w", c, err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	for _, c := range resource.Categories {
		if err := s.Delete(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

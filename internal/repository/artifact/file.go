// Package artifact stores fitted-model snapshots. Snapshots are opaque
// bytes; drivers only own placement and retrieval.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

// Compile-time check: FileStore implements the recommender's store contract.
var _ recommend.ArtifactStore = (*FileStore)(nil)

// FileStore persists snapshots as files under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed artifact store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the snapshot to dir/name.json, creating the directory if
// needed.
func (s *FileStore) Save(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", s.dir, err)
	}
	path := s.path(name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot. A missing artifact yields an error wrapping
// domain.ErrArtifactNotFound.
func (s *FileStore) Load(_ context.Context, name string) ([]byte, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s: %w", name, domain.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return data, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name)+".json")
}

package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyhub-ai/courserank/internal/db"
	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

// Compile-time check: KVStore implements the recommender's store contract.
var _ recommend.ArtifactStore = (*KVStore)(nil)

// KVStore persists snapshots in a key-value store so a fitted engine
// survives process restarts without refitting.
type KVStore struct {
	kv     db.KVStore
	prefix string
}

// NewKVStore creates a key-value artifact store. prefix namespaces the keys.
func NewKVStore(kv db.KVStore, prefix string) *KVStore {
	return &KVStore{kv: kv, prefix: prefix}
}

// Save stores the snapshot bytes under the prefixed name.
func (s *KVStore) Save(ctx context.Context, name string, data []byte) error {
	if err := s.kv.Set(ctx, s.key(name), data); err != nil {
		return fmt.Errorf("store artifact %s: %w", name, err)
	}
	return nil
}

// Load retrieves the snapshot bytes. A missing key yields an error wrapping
// domain.ErrArtifactNotFound.
func (s *KVStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("artifact %s: %w", name, domain.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("fetch artifact %s: %w", name, err)
	}
	return data, nil
}

func (s *KVStore) key(name string) string {
	return s.prefix + "artifact:" + name
}

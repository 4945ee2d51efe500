package memory

import (
	"context"
	"sync"

	"github.com/nulzo/llm-translate/internal/store"
)

// Repository keeps settings in process memory using the same flat encoding as
// the persistent backends.
type Repository struct {
	mu sync.RWMutex
	kv map[string]string
}

func New() *Repository {
	return &Repository{kv: make(map[string]string)}
}

func (r *Repository) Get(ctx context.Context) (*store.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return store.Decode(r.kv)
}

func (r *Repository) Save(ctx context.Context, s *store.Settings) error {
	kv := store.Encode(s)
	r.mu.Lock()
	r.kv = kv
	r.mu.Unlock()
	return nil
}

func (r *Repository) Close() error { return nil }

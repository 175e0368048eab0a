// Package source tracks which collections exist and what they were made
// from, and ties source removal to collection deletion.
package source

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("source not found")

// TrackedSource is the caller-facing record of one ingested source. Its ID
// is the vector collection id.
type TrackedSource struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"` // file extension, "text", or "url"
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Registry persists tracked sources.
type Registry interface {
	Insert(ctx context.Context, s TrackedSource) error
	List(ctx context.Context) ([]TrackedSource, error)
	Get(ctx context.Context, id string) (*TrackedSource, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRegistry backs the registry with an in-process map, used when no
// DATABASE_URL is configured. Tracked sources then live as long as the
// process.
type MemoryRegistry struct {
	mu      sync.RWMutex
	sources map[string]TrackedSource
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sources: make(map[string]TrackedSource)}
}

func (r *MemoryRegistry) Insert(_ context.Context, s TrackedSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.ID] = s
	return nil
}

func (r *MemoryRegistry) List(_ context.Context) ([]TrackedSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TrackedSource, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRegistry) Get(_ context.Context, id string) (*TrackedSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemoryRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[id]; !ok {
		return ErrNotFound
	}
	delete(r.sources, id)
	return nil
}

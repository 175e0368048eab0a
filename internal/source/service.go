package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docuchat/backend/internal/vectorstore"
)

// Service couples the tracked-source registry to the vector store, so that
// removing a source also drops its collection.
type Service struct {
	registry Registry
	store    vectorstore.Store
}

func NewService(registry Registry, store vectorstore.Store) *Service {
	return &Service{registry: registry, store: store}
}

func (s *Service) Track(ctx context.Context, ts TrackedSource) error {
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = time.Now().UTC()
	}
	if err := s.registry.Insert(ctx, ts); err != nil {
		return fmt.Errorf("track source %s: %w", ts.ID, err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]TrackedSource, error) {
	return s.registry.List(ctx)
}

// Remove drops the backing collection and the tracking record. A store
// failure is logged but does not keep the record alive: the user deleted
// the source, so it must leave the list.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.registry.Get(ctx, id); err != nil {
		return err
	}

	if err := s.store.DeleteCollection(ctx, id); err != nil {
		slog.Warn("could not drop collection for removed source", "collection", id, "error", err)
	}

	return s.registry.Delete(ctx, id)
}

package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/backend/internal/vectorstore"
)

type stubStore struct {
	deleted   []string
	deleteErr error
}

func (s *stubStore) CreateCollection(context.Context, string, int) error { return nil }

func (s *stubStore) UpsertPoint(context.Context, string, vectorstore.Point) error { return nil }

func (s *stubStore) Search(context.Context, string, []float32, int) ([]vectorstore.ScoredPoint, error) {
	return nil, nil
}

func (s *stubStore) DeleteCollection(_ context.Context, name string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, name)
	return nil
}

func TestMemoryRegistry(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	older := TrackedSource{ID: "file_1", Name: "a.pdf", Type: ".pdf", CreatedAt: time.Now().Add(-time.Hour)}
	newer := TrackedSource{ID: "text_2", Name: "Pasted Text", Type: "text", CreatedAt: time.Now()}
	require.NoError(t, r.Insert(ctx, older))
	require.NoError(t, r.Insert(ctx, newer))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "text_2", list[0].ID, "newest first")

	got, err := r.Get(ctx, "file_1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Name)

	require.NoError(t, r.Delete(ctx, "file_1"))
	_, err = r.Get(ctx, "file_1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "file_1"), ErrNotFound)
}

func TestService_RemoveDropsCollection(t *testing.T) {
	store := &stubStore{}
	svc := NewService(NewMemoryRegistry(), store)
	ctx := context.Background()

	require.NoError(t, svc.Track(ctx, TrackedSource{ID: "url_9", Name: "https://example.com", Type: "url"}))

	require.NoError(t, svc.Remove(ctx, "url_9"))
	assert.Equal(t, []string{"url_9"}, store.deleted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_RemoveSurvivesStoreFailure(t *testing.T) {
	store := &stubStore{deleteErr: errors.New("store down")}
	svc := NewService(NewMemoryRegistry(), store)
	ctx := context.Background()

	require.NoError(t, svc.Track(ctx, TrackedSource{ID: "file_3", Name: "b.txt", Type: ".txt"}))
	require.NoError(t, svc.Remove(ctx, "file_3"), "a store failure must not keep the record alive")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_RemoveUnknownSource(t *testing.T) {
	svc := NewService(NewMemoryRegistry(), &stubStore{})
	assert.ErrorIs(t, svc.Remove(context.Background(), "nope"), ErrNotFound)
}

func TestService_TrackSetsCreatedAt(t *testing.T) {
	svc := NewService(NewMemoryRegistry(), &stubStore{})
	ctx := context.Background()

	require.NoError(t, svc.Track(ctx, TrackedSource{ID: "text_1", Name: "Pasted Text", Type: "text"}))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].CreatedAt.IsZero())
}

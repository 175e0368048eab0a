package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/backend/internal/vectorstore"
)

func seedCollection(store *fakeStore, name string, texts ...string) {
	emb := &fakeEmbedder{}
	store.collections[name] = nil
	for i, text := range texts {
		vec, _ := emb.EmbedSingle(context.Background(), text)
		store.collections[name] = append(store.collections[name], vectorstore.Point{
			ID:     uint64(i + 1),
			Vector: vec,
			Payload: vectorstore.PointPayload{
				Text:     text,
				Document: name,
				Chunk:    i + 1,
			},
		})
	}
}

func TestRetrieve_FanOutAcrossCollections(t *testing.T) {
	store := newFakeStore()
	seedCollection(store, "file_a", "alpha text one", "alpha text two")
	seedCollection(store, "text_b", "beta text")

	r := NewRetriever(store, &fakeEmbedder{}, 3)
	result, err := r.Retrieve(context.Background(), "alpha", []string{"file_a", "text_b"})
	require.NoError(t, err)

	require.Len(t, result.Chunks, 3)
	assert.Empty(t, result.FailedCollections)

	// Caller order first, store rank order within a collection.
	assert.Equal(t, "file_a", result.Chunks[0].Source)
	assert.Equal(t, "file_a", result.Chunks[1].Source)
	assert.Equal(t, "text_b", result.Chunks[2].Source)

	assert.Contains(t, result.Context, "alpha text one")
	assert.Contains(t, result.Context, "beta text")
}

func TestRetrieve_PartialFailure(t *testing.T) {
	store := newFakeStore()
	seedCollection(store, "file_a", "first document")
	seedCollection(store, "file_c", "third document")
	store.searchErr["file_b"] = errors.New("collection not found")

	r := NewRetriever(store, &fakeEmbedder{}, 3)
	result, err := r.Retrieve(context.Background(), "document", []string{"file_a", "file_b", "file_c"})
	require.NoError(t, err, "one failing collection must not fail retrieval")

	assert.Equal(t, []string{"file_b"}, result.FailedCollections)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "file_a", result.Chunks[0].Source)
	assert.Equal(t, "file_c", result.Chunks[1].Source)
}

func TestRetrieve_NoCollections(t *testing.T) {
	emb := &fakeEmbedder{}
	r := NewRetriever(newFakeStore(), emb, 3)

	result, err := r.Retrieve(context.Background(), "question", nil)
	require.NoError(t, err)

	assert.Empty(t, result.Chunks)
	assert.Empty(t, result.Context)
	assert.Equal(t, 1, emb.calls, "the question is still embedded exactly once")
}

func TestRetrieve_QuestionEmbeddedOnce(t *testing.T) {
	store := newFakeStore()
	seedCollection(store, "a", "text a")
	seedCollection(store, "b", "text b")
	seedCollection(store, "c", "text c")

	emb := &fakeEmbedder{}
	r := NewRetriever(store, emb, 3)
	_, err := r.Retrieve(context.Background(), "question", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, emb.calls, "the query embedding is reused across all collections")
}

func TestRetrieve_EmbeddingFailureIsFatal(t *testing.T) {
	emb := &fakeEmbedder{failOn: map[string]bool{"question": true}}
	r := NewRetriever(newFakeStore(), emb, 3)

	_, err := r.Retrieve(context.Background(), "question", []string{"a"})
	assert.ErrorIs(t, err, ErrEmbeddingService)
}

func TestRetrieve_PerCollectionLimit(t *testing.T) {
	store := newFakeStore()
	seedCollection(store, "big", "one", "two", "three", "four", "five")

	r := NewRetriever(store, &fakeEmbedder{}, 2)
	result, err := r.Retrieve(context.Background(), "one", []string{"big"})
	require.NoError(t, err)
	assert.Len(t, result.Chunks, 2)
}

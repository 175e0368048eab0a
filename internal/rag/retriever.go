package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docuchat/backend/internal/vectorstore"
)

// RetrievedChunk is one ranked hit from one collection.
type RetrievedChunk struct {
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
	Source string  `json:"source"`
}

// RetrievalResult merges hits across collections in the order the
// collections were queried; within a collection the store's rank order is
// kept. There is no cross-collection re-ranking.
type RetrievalResult struct {
	Chunks            []RetrievedChunk `json:"chunks"`
	Context           string           `json:"-"`
	FailedCollections []string         `json:"failed_collections,omitempty"`
}

type Retriever struct {
	store    vectorstore.Store
	embedder Embedder
	topK     int // hits per collection
}

func NewRetriever(store vectorstore.Store, embedder Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}
}

// Retrieve embeds the question once and fans it out across the given
// collections. One collection failing to search does not block the others;
// the failure is logged and recorded. Only a failed question embedding is
// fatal, since nothing can be searched without a query vector.
func (r *Retriever) Retrieve(ctx context.Context, question string, collectionIDs []string) (*RetrievalResult, error) {
	queryVec, err := r.embedder.EmbedSingle(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %v", ErrEmbeddingService, err)
	}

	result := &RetrievalResult{}
	for _, id := range collectionIDs {
		hits, err := r.store.Search(ctx, id, queryVec, r.topK)
		if err != nil {
			slog.Warn("collection search failed, continuing with the rest",
				"collection", id,
				"error", err,
			)
			result.FailedCollections = append(result.FailedCollections, id)
			continue
		}
		for _, h := range hits {
			result.Chunks = append(result.Chunks, RetrievedChunk{
				Text:   h.Text,
				Score:  h.Score,
				Source: h.Document,
			})
		}
	}

	result.Context = buildContext(result.Chunks)
	return result, nil
}

func buildContext(chunks []RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n\n")
}

// Package embedding wraps the LLM gateway's embedding endpoint behind a
// small service used by both the ingestion and query paths.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/docuchat/backend/internal/cache"
	"github.com/docuchat/backend/internal/llm"
)

const cacheTTL = 24 * time.Hour

type Service struct {
	gateway llm.Gateway
	model   string
	cache   *cache.Cache // optional; nil disables caching
}

func NewService(gw llm.Gateway, model string, c *cache.Cache) *Service {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Service{gateway: gw, model: model, cache: c}
}

// Embed returns one vector per input text, batching upstream calls.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Batch in groups of 100 for API limits
	const batchSize = 100
	var allEmbeddings [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}

		allEmbeddings = append(allEmbeddings, resp.Embeddings...)
	}

	return allEmbeddings, nil
}

// EmbedSingle embeds one text, consulting the cache first when configured.
func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	key := s.cacheKey(text)

	if s.cache != nil {
		var cached []float32
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, embeddings[0], cacheTTL); err != nil {
			slog.Debug("embedding cache write failed", "error", err)
		}
	}

	return embeddings[0], nil
}

func (s *Service) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.model + "\x00" + text))
	return "emb:" + hex.EncodeToString(sum[:])
}

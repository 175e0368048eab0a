package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/docuchat/backend/internal/llm"
	"github.com/docuchat/backend/internal/vectorstore"
)

const testVectorSize = 8

// fakeEmbedder returns a deterministic bag-of-words vector so similar texts
// land near each other under cosine distance.
type fakeEmbedder struct {
	calls   int
	failOn  map[string]bool // texts whose embedding should fail
	badDims bool            // return wrong-dimension vectors
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failOn[text] {
		return nil, errors.New("embedding backend down")
	}
	dim := testVectorSize
	if f.badDims {
		dim = testVectorSize + 1
	}
	vec := make([]float32, dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := 0
		for _, r := range w {
			h = h*31 + int(r)
		}
		if h < 0 {
			h = -h
		}
		vec[h%dim]++
	}
	return vec, nil
}

// fakeStore keeps collections in memory and searches by dot product.
type fakeStore struct {
	collections map[string][]vectorstore.Point
	createErr   error
	upsertErr   error
	searchErr   map[string]error
	deleted     []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		collections: make(map[string][]vectorstore.Point),
		searchErr:   make(map[string]error),
	}
}

func (s *fakeStore) CreateCollection(_ context.Context, name string, _ int) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.collections[name] = nil
	return nil
}

func (s *fakeStore) UpsertPoint(_ context.Context, collection string, p vectorstore.Point) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if _, ok := s.collections[collection]; !ok {
		return fmt.Errorf("collection %s does not exist", collection)
	}
	// Idempotent on point id: overwrite, never duplicate.
	points := s.collections[collection]
	for i, existing := range points {
		if existing.ID == p.ID {
			points[i] = p
			return nil
		}
	}
	s.collections[collection] = append(points, p)
	return nil
}

func (s *fakeStore) Search(_ context.Context, collection string, vector []float32, limit int) ([]vectorstore.ScoredPoint, error) {
	if err := s.searchErr[collection]; err != nil {
		return nil, err
	}
	points, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s does not exist", collection)
	}

	results := make([]vectorstore.ScoredPoint, 0, len(points))
	for _, p := range points {
		results = append(results, vectorstore.ScoredPoint{
			Text:     p.Payload.Text,
			Document: p.Payload.Document,
			Chunk:    p.Payload.Chunk,
			Score:    dot(vector, p.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *fakeStore) DeleteCollection(_ context.Context, name string) error {
	delete(s.collections, name)
	s.deleted = append(s.deleted, name)
	return nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		if i < len(b) {
			sum += a[i] * b[i]
		}
	}
	return sum
}

func answerResponse(text string) *llm.ChatResponse {
	return &llm.ChatResponse{Provider: "openai", Model: "test-model", Content: text}
}

// fakeGateway implements llm.Gateway for generator tests.
type fakeGateway struct {
	resp    *llm.ChatResponse
	err     error
	lastReq llm.ChatRequest
}

func (g *fakeGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	g.lastReq = req
	return g.resp, g.err
}

func (g *fakeGateway) Embed(_ context.Context, _ llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func (g *fakeGateway) Provider(_ string) (llm.Provider, error) {
	return nil, errors.New("not implemented")
}

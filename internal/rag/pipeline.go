package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docuchat/backend/internal/vectorstore"
	"github.com/docuchat/backend/pkg/chunker"
)

// Embedder is the single-text embedding contract both paths depend on.
// *embedding.Service satisfies it; tests substitute fakes.
type Embedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// Source kinds determine the collection name prefix.
const (
	KindFile = "file"
	KindText = "text"
	KindURL  = "url"
)

// Source is a transient unit of ingestion: extracted text plus an origin
// label (file name, "Pasted Text", or URL).
type Source struct {
	Text  string
	Label string
	Kind  string
}

// IngestResult reports where a source landed and how much of it survived.
// ChunksStored < ChunksProduced means some chunks were skipped (logged,
// non-fatal).
type IngestResult struct {
	CollectionID   string `json:"collection_id"`
	ChunksProduced int    `json:"chunks_produced"`
	ChunksStored   int    `json:"chunks_stored"`
}

type Pipeline struct {
	store      vectorstore.Store
	embedder   Embedder
	retriever  *Retriever
	generator  *Generator
	chunkOpts  chunker.Options
	vectorSize int
}

type PipelineConfig struct {
	ChunkOpts  chunker.Options
	VectorSize int
	TopK       int
}

func NewPipeline(store vectorstore.Store, embedder Embedder, generator *Generator, cfg PipelineConfig) *Pipeline {
	if cfg.ChunkOpts.ChunkSize == 0 {
		cfg.ChunkOpts = chunker.DefaultOptions()
	}
	if cfg.VectorSize == 0 {
		cfg.VectorSize = 1536
	}
	return &Pipeline{
		store:      store,
		embedder:   embedder,
		retriever:  NewRetriever(store, embedder, cfg.TopK),
		generator:  generator,
		chunkOpts:  cfg.ChunkOpts,
		vectorSize: cfg.VectorSize,
	}
}

// Ingest turns one source into a populated collection. Chunks are embedded
// and upserted sequentially, in order; a single chunk's failure is logged
// and skipped, the same policy for every source kind. The collection id is
// only returned once every surviving point is stored.
func (p *Pipeline) Ingest(ctx context.Context, src Source) (*IngestResult, error) {
	chunks, err := chunker.Chunk(src.Text, p.chunkOpts)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, src.Label)
	}

	collectionID := newCollectionID(src.Kind)
	if err := p.store.CreateCollection(ctx, collectionID, p.vectorSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	stored := 0
	for _, c := range chunks {
		vec, err := p.embedder.EmbedSingle(ctx, c.Content)
		if err != nil {
			slog.Warn("skipping chunk: embedding failed",
				"collection", collectionID,
				"source", src.Label,
				"chunk", c.Index+1,
				"error", err,
			)
			continue
		}
		if len(vec) != p.vectorSize {
			// A wrong dimension poisons the whole collection, not one chunk.
			p.dropCollection(ctx, collectionID)
			return nil, fmt.Errorf("%w: embedding dimension %d does not match collection size %d",
				ErrEmbeddingService, len(vec), p.vectorSize)
		}

		point := vectorstore.Point{
			ID:     uint64(c.Index + 1),
			Vector: vec,
			Payload: vectorstore.PointPayload{
				Text:     c.Content,
				Document: src.Label,
				Chunk:    c.Index + 1,
			},
		}
		if err := p.store.UpsertPoint(ctx, collectionID, point); err != nil {
			slog.Warn("skipping chunk: upsert failed",
				"collection", collectionID,
				"source", src.Label,
				"chunk", c.Index+1,
				"error", err,
			)
			continue
		}
		stored++
	}

	if stored < len(chunks) {
		slog.Warn("partial ingestion",
			"collection", collectionID,
			"source", src.Label,
			"produced", len(chunks),
			"stored", stored,
		)
	}

	return &IngestResult{
		CollectionID:   collectionID,
		ChunksProduced: len(chunks),
		ChunksStored:   stored,
	}, nil
}

// AnswerResult is the outcome of a full question round trip.
type AnswerResult struct {
	Answer            string   `json:"answer"`
	SourcesSearched   int      `json:"sources_searched"`
	FailedCollections []string `json:"failed_collections,omitempty"`
}

// Answer retrieves context across the given collections and generates an
// answer. The generator runs even when retrieval came back empty, so the
// user gets a model response rather than a hard error.
func (p *Pipeline) Answer(ctx context.Context, question string, collectionIDs []string) (*AnswerResult, error) {
	retrieval, err := p.retriever.Retrieve(ctx, question, collectionIDs)
	if err != nil {
		return nil, err
	}

	answer, err := p.generator.Generate(ctx, question, retrieval.Context)
	if err != nil {
		return nil, err
	}

	return &AnswerResult{
		Answer:            answer,
		SourcesSearched:   len(collectionIDs) - len(retrieval.FailedCollections),
		FailedCollections: retrieval.FailedCollections,
	}, nil
}

// Retrieve exposes the fan-out directly, without generation.
func (p *Pipeline) Retrieve(ctx context.Context, question string, collectionIDs []string) (*RetrievalResult, error) {
	return p.retriever.Retrieve(ctx, question, collectionIDs)
}

func (p *Pipeline) dropCollection(ctx context.Context, id string) {
	if err := p.store.DeleteCollection(ctx, id); err != nil {
		slog.Warn("could not clean up aborted collection", "collection", id, "error", err)
	}
}

func newCollectionID(kind string) string {
	if kind == "" {
		kind = KindText
	}
	return fmt.Sprintf("%s_%s", kind, uuid.New())
}

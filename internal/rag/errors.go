package rag

import "errors"

// Sentinel errors for the ingestion and retrieval paths. Invalid chunk
// parameters surface as chunker.ErrInvalidOptions from Ingest.
var (
	// ErrEmptySource means chunking produced nothing; no collection is
	// created for such a source.
	ErrEmptySource = errors.New("source contains no chunkable text")

	// ErrStoreUnavailable means the vector store could not be reached or
	// refused the operation.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingService means the embedding call failed in a position
	// where the operation cannot continue (the query embedding, or a
	// dimension mismatch during ingestion).
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrGeneration means the generation service returned no usable text.
	ErrGeneration = errors.New("generation service returned no answer")
)

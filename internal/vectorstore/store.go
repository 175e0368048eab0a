// Package vectorstore owns the lifecycle of per-source vector collections.
package vectorstore

import "context"

// PointPayload is the data stored alongside each vector. Chunk numbers are
// 1-based and match the point id.
type PointPayload struct {
	Text     string `json:"text"`
	Document string `json:"document"`
	Chunk    int    `json:"chunk"`
}

// Point is one embedded chunk. IDs are 1-based and sequential within a
// collection; re-upserting an id overwrites, never duplicates.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload PointPayload
}

// ScoredPoint is a search hit with its similarity score.
type ScoredPoint struct {
	Text     string  `json:"text"`
	Document string  `json:"document"`
	Chunk    int     `json:"chunk"`
	Score    float32 `json:"score"`
}

// Store abstracts the vector database. One collection holds the chunks of
// exactly one ingested source.
type Store interface {
	CreateCollection(ctx context.Context, name string, vectorSize int) error
	UpsertPoint(ctx context.Context, collection string, p Point) error
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error)
	DeleteCollection(ctx context.Context, name string) error
}

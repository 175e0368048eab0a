package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRegistry persists tracked sources in a sources table.
type PostgresRegistry struct {
	db *pgxpool.Pool
}

func NewPostgresRegistry(ctx context.Context, db *pgxpool.Pool) (*PostgresRegistry, error) {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sources (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			type        TEXT NOT NULL,
			size_bytes  BIGINT NOT NULL DEFAULT 0,
			chunk_count INT NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensure sources table: %w", err)
	}
	return &PostgresRegistry{db: db}, nil
}

func (r *PostgresRegistry) Insert(ctx context.Context, s TrackedSource) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sources (id, name, type, size_bytes, chunk_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Type, s.SizeBytes, s.ChunkCount, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) List(ctx context.Context) ([]TrackedSource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, type, size_bytes, chunk_count, created_at
		 FROM sources ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []TrackedSource
	for rows.Next() {
		var s TrackedSource
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.SizeBytes, &s.ChunkCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *PostgresRegistry) Get(ctx context.Context, id string) (*TrackedSource, error) {
	var s TrackedSource
	err := r.db.QueryRow(ctx,
		`SELECT id, name, type, size_bytes, chunk_count, created_at
		 FROM sources WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Type, &s.SizeBytes, &s.ChunkCount, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return &s, nil
}

func (r *PostgresRegistry) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

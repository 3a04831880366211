package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UpsertVector stores an embedding vector for an entity, replacing any
// previously stored vector for the same (entity_type, entity_id) pair.
func (db *DB) UpsertVector(ctx context.Context, entityType string, entityID int64, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("vector must not be empty")
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO embedding_vectors (entity_type, entity_id, vector, dims, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (entity_type, entity_id) DO UPDATE
		 SET vector = $3, dims = $4, updated_at = NOW()`,
		entityType, entityID, vector, len(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vector %s/%d: %w", entityType, entityID, err)
	}
	return nil
}

// GetVector retrieves the stored embedding vector for an entity, or nil
// when no vector has been stored.
func (db *DB) GetVector(ctx context.Context, entityType string, entityID int64) ([]float64, error) {
	var vector []float64
	err := db.pool.QueryRow(ctx,
		`SELECT vector FROM embedding_vectors WHERE entity_type = $1 AND entity_id = $2`,
		entityType, entityID,
	).Scan(&vector)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vector %s/%d: %w", entityType, entityID, err)
	}
	return vector, nil
}

// DeleteVector removes the stored embedding for an entity. Missing vectors
// are not an error.
func (db *DB) DeleteVector(ctx context.Context, entityType string, entityID int64) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM embedding_vectors WHERE entity_type = $1 AND entity_id = $2`,
		entityType, entityID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete vector %s/%d: %w", entityType, entityID, err)
	}
	return nil
}

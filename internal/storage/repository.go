// Package storage persists recommendation records in Postgres.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/travel-compass/internal/travel"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores each recommendation record as a JSONB document keyed
// by id, with query and created_at lifted into columns for listing.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// InsertRecommendation writes rec in a single statement.
func (r *Repository) InsertRecommendation(ctx context.Context, rec *travel.Recommendation) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling recommendation %s: %w", rec.ID, err)
	}

	const q = `
		INSERT INTO travel_recommendations (id, query, document, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.q.Exec(ctx, q, rec.ID, rec.Query, doc, rec.CreatedAt); err != nil {
		return fmt.Errorf("inserting recommendation %s: %w", rec.ID, err)
	}

	return nil
}

// RecentRecommendations returns at most limit records, newest first.
func (r *Repository) RecentRecommendations(ctx context.Context, limit int) ([]*travel.Recommendation, error) {
	const q = `
		SELECT document, created_at
		FROM travel_recommendations
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent recommendations: %w", err)
	}
	defer rows.Close()

	results := make([]*travel.Recommendation, 0, limit)
	for rows.Next() {
		var doc []byte
		var createdAt time.Time
		if err := rows.Scan(&doc, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning recommendation row: %w", err)
		}

		rec, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = createdAt.UTC()
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recommendation rows: %w", err)
	}

	return results, nil
}

// decodeDocument keeps numbers inside the info objects as json.Number so a
// stored record reads back exactly as it was written.
func decodeDocument(doc []byte) (*travel.Recommendation, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var rec travel.Recommendation
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("unmarshaling recommendation document: %w", err)
	}
	if rec.Recommendations == nil {
		rec.Recommendations = []travel.Item{}
	}
	if rec.GeographicInfo == nil {
		rec.GeographicInfo = travel.Info{}
	}
	if rec.ClimateInfo == nil {
		rec.ClimateInfo = travel.Info{}
	}
	return &rec, nil
}

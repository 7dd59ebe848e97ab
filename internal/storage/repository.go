package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/destination-seeder/internal/destination"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores destinations in Postgres as JSONB documents.
type Repository struct {
	q     Querier
	newID func() string
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool, newID: uuid.NewString}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q, newID: uuid.NewString}
}

// CreateDestination stores rec under a fresh id.
func (r *Repository) CreateDestination(ctx context.Context, rec destination.Record) (*destination.Destination, error) {
	dataJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling destination %s: %w", rec.Name, err)
	}

	const q = `
		INSERT INTO destinations (id, name, region, data)
		VALUES ($1, $2, $3, $4)
	`

	id := r.newID()
	if _, err := r.q.Exec(ctx, q, id, rec.Name, rec.Region, dataJSON); err != nil {
		return nil, fmt.Errorf("inserting destination %s: %w", rec.Name, err)
	}

	return &destination.Destination{ID: id, Record: rec}, nil
}

// GetDestination retrieves a destination by id.
// Returns nil, nil when the id is not found.
func (r *Repository) GetDestination(ctx context.Context, id string) (*destination.Destination, error) {
	const q = `SELECT id, data FROM destinations WHERE id = $1`

	var d destination.Destination
	var dataJSON []byte

	err := r.q.QueryRow(ctx, q, id).Scan(&d.ID, &dataJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying destination %s: %w", id, err)
	}

	if err := json.Unmarshal(dataJSON, &d.Record); err != nil {
		return nil, fmt.Errorf("unmarshaling destination %s: %w", id, err)
	}

	return &d, nil
}

// ListDestinations returns up to limit destinations in creation order,
// filtered by region when region is non-empty.
func (r *Repository) ListDestinations(ctx context.Context, region string, limit int) ([]*destination.Destination, error) {
	const q = `
		SELECT id, data
		FROM destinations
		WHERE ($1 = '' OR region = $1)
		ORDER BY created_at, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, q, region, limit)
	if err != nil {
		return nil, fmt.Errorf("querying destinations: %w", err)
	}
	defer rows.Close()

	var results []*destination.Destination
	for rows.Next() {
		var d destination.Destination
		var dataJSON []byte

		if err := rows.Scan(&d.ID, &dataJSON); err != nil {
			return nil, fmt.Errorf("scanning destination row: %w", err)
		}

		if err := json.Unmarshal(dataJSON, &d.Record); err != nil {
			return nil, fmt.Errorf("unmarshaling destination data: %w", err)
		}

		results = append(results, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating destination rows: %w", err)
	}

	return results, nil
}

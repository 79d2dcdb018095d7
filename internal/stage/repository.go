package stage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for process stages.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all stages ordered by id.
func (r *Repository) List(ctx context.Context) ([]Stage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM process_stages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []Stage
	for rows.Next() {
		var st Stage
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

// Get returns one stage by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Stage, error) {
	var st Stage
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM process_stages WHERE id = $1`, id).Scan(&st.ID, &st.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

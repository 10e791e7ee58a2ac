package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Maintenance struct {
	pool *pgxpool.Pool
}

func NewMaintenance(pool *pgxpool.Pool) *Maintenance {
	return &Maintenance{pool: pool}
}

// Reset empties every table. Used by the seeder.
func (m *Maintenance) Reset(ctx context.Context) error {
	const query = `TRUNCATE progress, enrollments, lessons, courses, refresh_tokens, users`
	_, err := m.pool.Exec(ctx, query)
	return err
}

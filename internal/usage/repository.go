package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles daily_usage PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new usage Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the usage snapshot for date. If no row exists yet, it returns a
// zero-count snapshot with defaultMax without creating anything: rows are
// only materialized by Increment.
func (r *Repository) Get(ctx context.Context, date string, defaultMax int) (Snapshot, error) {
	snap := Snapshot{Date: date}
	err := r.pool.QueryRow(ctx,
		`SELECT users_count, max_users FROM daily_usage WHERE date = $1`, date,
	).Scan(&snap.UsersCount, &snap.MaxUsers)
	if errors.Is(err, pgx.ErrNoRows) {
		snap.UsersCount = 0
		snap.MaxUsers = defaultMax
		return snap, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetching daily usage: %w", err)
	}
	return snap, nil
}

// Increment counts one admission for date and returns the new count. The
// create-or-update runs as a single statement, so concurrent increments can
// neither lose an update nor double-create the row. There is deliberately no
// upper-bound check here: eligibility is decided on the read before the AI
// call, and the boundary overshoot that allows is part of the contract.
func (r *Repository) Increment(ctx context.Context, date string, defaultMax int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO daily_usage (date, users_count, max_users)
		 VALUES ($1, 1, $2)
		 ON CONFLICT (date) DO UPDATE
		 SET users_count = daily_usage.users_count + 1,
		     updated_at = NOW()
		 RETURNING users_count`, date, defaultMax,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("incrementing daily usage: %w", err)
	}
	return count, nil
}

// SetMaxUsers overrides the quota for a single date, materializing the row
// if needed.
func (r *Repository) SetMaxUsers(ctx context.Context, date string, maxUsers int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO daily_usage (date, users_count, max_users)
		 VALUES ($1, 0, $2)
		 ON CONFLICT (date) DO UPDATE
		 SET max_users = EXCLUDED.max_users,
		     updated_at = NOW()`, date, maxUsers)
	if err != nil {
		return fmt.Errorf("setting max users: %w", err)
	}
	return nil
}

// Reset zeroes the counter for a date. Operational escape hatch; the normal
// rollover happens by the usage date advancing, not by mutation.
func (r *Repository) Reset(ctx context.Context, date string, maxUsers int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO daily_usage (date, users_count, max_users)
		 VALUES ($1, 0, $2)
		 ON CONFLICT (date) DO UPDATE
		 SET users_count = 0,
		     max_users = EXCLUDED.max_users,
		     updated_at = NOW()`, date, maxUsers)
	if err != nil {
		return fmt.Errorf("resetting daily usage: %w", err)
	}
	return nil
}

package translation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles translations PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new translation Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create appends one translation record. Records are write-once; there is no
// update or delete path.
func (r *Repository) Create(ctx context.Context, rec *Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO translations (id, korean_text, softened_text, emotional_focus, used_ai)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.KoreanText, rec.SoftenedText, rec.EmotionalFocus, rec.UsedAI)
	if err != nil {
		return fmt.Errorf("inserting translation: %w", err)
	}
	return nil
}

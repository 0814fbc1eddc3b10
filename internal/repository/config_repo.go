package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cnqrstore/backend/internal/models"
)

// ConfigRepo reads and updates the single store_config row. Keeping the
// pricing mode in shared storage (instead of a process variable) keeps
// every API instance consistent.
type ConfigRepo struct {
	pool *pgxpool.Pool
}

func NewConfigRepo(pool *pgxpool.Pool) *ConfigRepo {
	return &ConfigRepo{pool: pool}
}

func (r *ConfigRepo) GetPriceMode(ctx context.Context) (models.PriceMode, error) {
	var mode models.PriceMode
	err := r.pool.QueryRow(ctx,
		`SELECT price_mode FROM store_config WHERE id = 1`).Scan(&mode)
	if err != nil {
		return "", mapNoRows(err)
	}
	return mode, nil
}

func (r *ConfigRepo) SetPriceMode(ctx context.Context, mode models.PriceMode) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE store_config SET price_mode = $1, updated_at = now() WHERE id = 1
	`, mode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

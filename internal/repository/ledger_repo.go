package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cnqrstore/backend/internal/models"
)

// LedgerRepo appends to economy_transactions, the game economy's audit
// trail. Entries are insert-only.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreateTx inserts a ledger entry inside the given transaction.
func (r *LedgerRepo) CreateTx(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO economy_transactions
			(id, server_id, sender, receiver, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, e.ID, e.ServerID, e.Sender, e.Receiver, e.Amount, e.Type, e.Description,
	).Scan(&e.CreatedAt)
}

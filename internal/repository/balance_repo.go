package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cnqrstore/backend/internal/models"
)

type BalanceRepo struct {
	pool *pgxpool.Pool
}

func NewBalanceRepo(pool *pgxpool.Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// CreditTx adds purchased credits to a player's balance inside the caller's
// transaction, creating the row on first settlement. The increment happens
// in the UPDATE itself so two near-simultaneous purchases cannot lose an
// update.
func (r *BalanceRepo) CreditTx(ctx context.Context, tx pgx.Tx, serverID, playerName string, credits int64) (*models.PlayerBalance, error) {
	var b models.PlayerBalance
	err := tx.QueryRow(ctx, `
		INSERT INTO economy_balances
			(id, server_id, player_name, balance, total_earned, total_spent)
		VALUES ($1, $2, $3, $4, $4, 0)
		ON CONFLICT (server_id, player_name) DO UPDATE
		SET balance = economy_balances.balance + EXCLUDED.balance,
			total_earned = economy_balances.total_earned + EXCLUDED.total_earned,
			updated_at = now()
		RETURNING id, server_id, player_name, balance, total_earned,
			total_spent, created_at, updated_at
	`, uuid.New(), serverID, playerName, credits).Scan(&b.ID, &b.ServerID,
		&b.PlayerName, &b.Balance, &b.TotalEarned, &b.TotalSpent,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

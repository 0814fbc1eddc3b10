package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
)

// ErrNoPendingTransaction is returned by CompletePending when no pending row
// matches the session id. The caller decides whether that means "already
// completed by a concurrent verification" or "unknown session".
var ErrNoPendingTransaction = errors.New("no pending transaction for session")

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const txColumns = `t.id, t.package_id, t.discord_id, t.server_id, t.email,
	t.base_amount, t.final_amount, t.credits, t.session_id, t.status,
	t.created_at, t.completed_at, p.name`

func scanTransaction(row pgx.Row) (*models.StoreTransaction, error) {
	var t models.StoreTransaction
	err := row.Scan(&t.ID, &t.PackageID, &t.DiscordID, &t.ServerID, &t.Email,
		&t.BaseAmount, &t.FinalAmount, &t.Credits, &t.SessionID, &t.Status,
		&t.CreatedAt, &t.CompletedAt, &t.PackageName)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &t, nil
}

func (r *TransactionRepo) Create(ctx context.Context, t *models.StoreTransaction) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO store_transactions
			(id, package_id, discord_id, server_id, email,
			 base_amount, final_amount, credits, session_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, t.ID, t.PackageID, t.DiscordID, t.ServerID, t.Email,
		t.BaseAmount, t.FinalAmount, t.Credits, t.SessionID, t.Status,
	).Scan(&t.CreatedAt)
}

func (r *TransactionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.StoreTransaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+txColumns+`
		FROM store_transactions t
		JOIN credit_packages p ON p.id = t.package_id
		WHERE t.session_id = $1
	`, sessionID))
}

// CompletePending flips exactly one pending transaction to completed,
// recording the provider's authoritative charged amount. The status guard
// makes the pending -> completed transition atomic at the storage layer, so
// two concurrent verifications of the same session cannot both win.
func (r *TransactionRepo) CompletePending(ctx context.Context, sessionID string, finalAmount decimal.Decimal) (*models.StoreTransaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, `
		UPDATE store_transactions t
		SET status = 'completed', final_amount = $2, completed_at = now()
		FROM credit_packages p
		WHERE t.session_id = $1 AND t.status = 'pending' AND p.id = t.package_id
		RETURNING `+txColumns+`
	`, sessionID, finalAmount))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoPendingTransaction
	}
	return t, err
}

func (r *TransactionRepo) ListByDiscordID(ctx context.Context, discordID string) ([]*models.StoreTransaction, error) {
	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM store_transactions t
		JOIN credit_packages p ON p.id = t.package_id
		WHERE t.discord_id = $1
		ORDER BY t.created_at DESC
	`, discordID)
}

func (r *TransactionRepo) ListAll(ctx context.Context) ([]*models.StoreTransaction, error) {
	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM store_transactions t
		JOIN credit_packages p ON p.id = t.package_id
		ORDER BY t.created_at DESC
	`)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*models.StoreTransaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.StoreTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// StoreStats are the admin dashboard aggregates, computed in SQL.
type StoreStats struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int64           `json:"total_transactions"`
	ActiveUsers       int64           `json:"active_users"`
	ConversionRate    float64         `json:"conversion_rate"`
}

func (r *TransactionRepo) Stats(ctx context.Context) (*StoreStats, error) {
	var s StoreStats
	var attempts int64
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(final_amount) FILTER (WHERE status = 'completed'), 0),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(DISTINCT discord_id) FILTER (WHERE status = 'completed'),
			COUNT(*)
		FROM store_transactions
	`).Scan(&s.TotalRevenue, &s.TotalTransactions, &s.ActiveUsers, &attempts)
	if err != nil {
		return nil, err
	}
	if attempts > 0 {
		s.ConversionRate = float64(s.TotalTransactions) / float64(attempts) * 100
	}
	return &s, nil
}

// MonthlyRevenuePoint is one bucket of the admin revenue chart.
type MonthlyRevenuePoint struct {
	Month   time.Time       `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue returns completed revenue bucketed by month for the last
// `months` months, oldest first.
func (r *TransactionRepo) MonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenuePoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', created_at) AS month, SUM(final_amount)
		FROM store_transactions
		WHERE status = 'completed'
			AND created_at >= date_trunc('month', now()) - ($1 || ' months')::interval
		GROUP BY month
		ORDER BY month
	`, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []MonthlyRevenuePoint
	for rows.Next() {
		var p MonthlyRevenuePoint
		if err := rows.Scan(&p.Month, &p.Revenue); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/notify"
	"github.com/cnqrstore/backend/internal/repository"
)

// ErrNoLinkedAccount means the buyer has not linked an in-game username for
// the target server. The purchase stays completed; credits are simply not
// deliverable until the player links.
var ErrNoLinkedAccount = errors.New("no linked account for player on server")

// LinkStore resolves Discord identity to an in-game name.
type LinkStore interface {
	Get(ctx context.Context, discordID, serverID string) (*models.UsernameLink, error)
}

// BalanceStore applies the credit grant inside a transaction.
type BalanceStore interface {
	CreditTx(ctx context.Context, tx pgx.Tx, serverID, playerName string, credits int64) (*models.PlayerBalance, error)
}

// LedgerStore appends the audit entry inside a transaction.
type LedgerStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error
}

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InsertNotifyTxFunc enqueues the purchase announcement inside the
// settlement transaction. Wired to river's InsertTx in main.
type InsertNotifyTxFunc func(ctx context.Context, tx pgx.Tx, args notify.PurchaseNotifyArgs) error

// Service delivers credits for a completed transaction: resolve the linked
// username, bump the balance, append the ledger row, and enqueue the
// announcement, all in one database transaction.
type Service struct {
	pool         TxBeginner
	links        LinkStore
	balances     BalanceStore
	ledger       LedgerStore
	insertNotify InsertNotifyTxFunc
	log          *slog.Logger
}

func NewService(pool TxBeginner, links LinkStore, balances BalanceStore, ledger LedgerStore, insertNotify InsertNotifyTxFunc, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:         pool,
		links:        links,
		balances:     balances,
		ledger:       ledger,
		insertNotify: insertNotify,
		log:          log,
	}
}

// Outcome reports what a settlement delivered.
type Outcome struct {
	Username   string
	NewBalance int64
}

// Settle grants the purchased credits for a completed transaction. The
// caller guarantees txn.Status is completed and that it holds the only
// settlement attempt for this session (the pending->completed transition is
// the gate).
func (s *Service) Settle(ctx context.Context, txn *models.StoreTransaction) (*Outcome, error) {
	link, err := s.links.Get(ctx, txn.DiscordID, txn.ServerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("no linked account, credits not delivered",
				"discord_id", txn.DiscordID, "server_id", txn.ServerID,
				"session_id", txn.SessionID)
			return nil, ErrNoLinkedAccount
		}
		return nil, fmt.Errorf("resolve username link: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin settlement tx: %w", err)
	}
	defer tx.Rollback(ctx)

	balance, err := s.balances.CreditTx(ctx, tx, txn.ServerID, link.Username, txn.Credits)
	if err != nil {
		return nil, fmt.Errorf("credit balance: %w", err)
	}

	entry := &models.LedgerEntry{
		ID:          uuid.New(),
		ServerID:    txn.ServerID,
		Sender:      models.LedgerSender,
		Receiver:    link.Username,
		Amount:      txn.Credits,
		Type:        models.LedgerTypePurchase,
		Description: fmt.Sprintf("Credits purchased from store - Package: %s", txn.PackageName),
	}
	if err := s.ledger.CreateTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	if s.insertNotify != nil {
		args := notify.PurchaseNotifyArgs{
			Username:    link.Username,
			PackageName: txn.PackageName,
			Credits:     txn.Credits,
			Amount:      txn.FinalAmount,
			ServerID:    txn.ServerID,
			SessionID:   txn.SessionID,
		}
		if err := s.insertNotify(ctx, tx, args); err != nil {
			return nil, fmt.Errorf("enqueue purchase notification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit settlement: %w", err)
	}

	s.log.Info("credits settled",
		"player", link.Username, "server_id", txn.ServerID,
		"credits", txn.Credits, "balance", balance.Balance,
		"session_id", txn.SessionID)
	return &Outcome{Username: link.Username, NewBalance: balance.Balance}, nil
}

package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/payments"
	"github.com/cnqrstore/backend/internal/repository"
	"github.com/cnqrstore/backend/internal/settlement"
)

var (
	ErrSessionNotFound   = errors.New("no transaction for session")
	ErrPaymentIncomplete = errors.New("payment not completed")
)

// TransactionStore is the transaction repository surface the verifier needs.
type TransactionStore interface {
	GetBySessionID(ctx context.Context, sessionID string) (*models.StoreTransaction, error)
	CompletePending(ctx context.Context, sessionID string, finalAmount decimal.Decimal) (*models.StoreTransaction, error)
}

// Settler delivers credits for a completed transaction.
type Settler interface {
	Settle(ctx context.Context, txn *models.StoreTransaction) (*settlement.Outcome, error)
}

// Service confirms payment with the provider and transitions the stored
// transaction from pending to completed exactly once.
type Service struct {
	txns     TransactionStore
	provider payments.Provider
	settler  Settler
	log      *slog.Logger
}

func NewService(txns TransactionStore, provider payments.Provider, settler Settler, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{txns: txns, provider: provider, settler: settler, log: log}
}

// Result is what the success page renders.
type Result struct {
	Success          bool            `json:"success"`
	CreditsGranted   int64           `json:"credits_granted"`
	ServerID         string          `json:"server_id"`
	AmountCharged    decimal.Decimal `json:"amount_charged"`
	AlreadyProcessed bool            `json:"already_processed,omitempty"`
}

// Verify is idempotent: the same session reference may be submitted many
// times (a user reloading the success page), and only the first call that
// wins the pending->completed transition performs settlement. Replays
// return the stored result with no side effects.
func (s *Service) Verify(ctx context.Context, sessionID string) (*Result, error) {
	txn, err := s.txns.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("look up transaction: %w", err)
	}

	// Idempotency guard: checked before any external call.
	if txn.Status == models.TxStatusCompleted {
		return storedResult(txn), nil
	}

	// The provider is the source of truth for money actually collected.
	// Demo sessions never touched a provider; their recorded amount stands.
	finalAmount := txn.BaseAmount
	if s.provider != nil && !payments.IsDemoSession(sessionID) {
		sess, err := s.provider.RetrieveSession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("payment provider: %w", err)
		}
		if !sess.Paid() {
			return nil, ErrPaymentIncomplete
		}
		finalAmount = sess.AmountTotal
	}

	completed, err := s.txns.CompletePending(ctx, sessionID, finalAmount)
	if err != nil {
		if errors.Is(err, repository.ErrNoPendingTransaction) {
			// A concurrent verification won the transition; return its
			// result without settling again.
			txn, rerr := s.txns.GetBySessionID(ctx, sessionID)
			if rerr == nil && txn.Status == models.TxStatusCompleted {
				return storedResult(txn), nil
			}
			return nil, fmt.Errorf("transaction not in a completable state")
		}
		return nil, fmt.Errorf("complete transaction: %w", err)
	}

	// Money was collected: settlement failure past this point must not fail
	// the purchase. It is logged for manual reconciliation instead.
	if _, err := s.settler.Settle(ctx, completed); err != nil {
		if !errors.Is(err, settlement.ErrNoLinkedAccount) {
			s.log.Error("settlement failed after payment, manual reconciliation required",
				"session_id", sessionID, "discord_id", completed.DiscordID,
				"server_id", completed.ServerID, "credits", completed.Credits,
				"error", err)
		}
	}

	return &Result{
		Success:        true,
		CreditsGranted: completed.Credits,
		ServerID:       completed.ServerID,
		AmountCharged:  completed.FinalAmount,
	}, nil
}

func storedResult(txn *models.StoreTransaction) *Result {
	return &Result{
		Success:          true,
		CreditsGranted:   txn.Credits,
		ServerID:         txn.ServerID,
		AmountCharged:    txn.FinalAmount,
		AlreadyProcessed: true,
	}
}

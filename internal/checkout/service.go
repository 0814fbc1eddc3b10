package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/payments"
	"github.com/cnqrstore/backend/internal/pricing"
	"github.com/cnqrstore/backend/internal/repository"
)

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrPackageInactive = errors.New("package is not active")
	ErrInvalidServer   = errors.New("server id is required")
)

// PackageStore looks up the offer being purchased.
type PackageStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error)
}

// TransactionStore records the pending transaction.
type TransactionStore interface {
	Create(ctx context.Context, t *models.StoreTransaction) error
}

// ModeSource resolves the current pricing mode.
type ModeSource interface {
	CurrentMode(ctx context.Context) models.PriceMode
}

// Service opens a hosted payment session for a chosen package and records
// the pending transaction. A nil provider means demo mode: the session
// reference is synthesized locally and no external call is made.
type Service struct {
	packages   PackageStore
	txns       TransactionStore
	modes      ModeSource
	provider   payments.Provider
	successURL string
	cancelURL  string
	log        *slog.Logger
}

func NewService(packages PackageStore, txns TransactionStore, modes ModeSource, provider payments.Provider, successURL, cancelURL string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		packages:   packages,
		txns:       txns,
		modes:      modes,
		provider:   provider,
		successURL: successURL,
		cancelURL:  cancelURL,
		log:        log,
	}
}

type InitiateInput struct {
	PackageID uuid.UUID
	ServerID  string
	DiscordID string
	Email     string
}

type Result struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Demo        bool   `json:"demo,omitempty"`
}

// Initiate looks up the package, prices it under the current mode, opens a
// payment session, and inserts the pending transaction. If the provider
// call fails no transaction is recorded; if the insert fails the freshly
// created session is expired best-effort so no chargeable session exists
// without a local record.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*Result, error) {
	if in.ServerID == "" {
		return nil, ErrInvalidServer
	}

	pkg, err := s.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("look up package: %w", err)
	}
	if !pkg.IsActive {
		return nil, ErrPackageInactive
	}

	mode := s.modes.CurrentMode(ctx)
	amount := pricing.Effective(pkg.BasePrice, mode)

	res := &Result{}
	if s.provider == nil {
		res.SessionID = payments.NewDemoSessionID()
		res.Demo = true
	} else {
		sess, err := s.provider.CreateSession(ctx, payments.CreateSessionInput{
			PackageName:        pkg.Name,
			PackageDescription: pkg.Description,
			Amount:             amount,
			Currency:           "usd",
			CustomerEmail:      in.Email,
			SuccessURL:         s.successURL,
			CancelURL:          s.cancelURL,
			Metadata: map[string]string{
				"package_id": pkg.ID.String(),
				"discord_id": in.DiscordID,
				"server_id":  in.ServerID,
				"email":      in.Email,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("payment provider: %w", err)
		}
		res.SessionID = sess.ID
		res.RedirectURL = sess.URL
	}

	txn := &models.StoreTransaction{
		ID:          uuid.New(),
		PackageID:   pkg.ID,
		DiscordID:   in.DiscordID,
		ServerID:    in.ServerID,
		Email:       in.Email,
		BaseAmount:  amount,
		FinalAmount: amount,
		Credits:     pkg.Credits,
		SessionID:   res.SessionID,
		Status:      models.TxStatusPending,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		if s.provider != nil {
			if expErr := s.provider.ExpireSession(ctx, res.SessionID); expErr != nil {
				s.log.Error("orphaned payment session could not be expired",
					"session_id", res.SessionID, "error", expErr)
			}
		}
		return nil, fmt.Errorf("record pending transaction: %w", err)
	}

	s.log.Info("checkout initiated",
		"session_id", res.SessionID, "package", pkg.Name,
		"server_id", in.ServerID, "amount", amount, "demo", res.Demo)
	return res, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction lifecycle statuses. Rows are never deleted; a transaction is
// the audit record and idempotency key for its checkout session.
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

type StoreTransaction struct {
	ID          uuid.UUID       `json:"id"`
	PackageID   uuid.UUID       `json:"package_id"`
	DiscordID   string          `json:"discord_id"`
	ServerID    string          `json:"server_id"`
	Email       string          `json:"email,omitempty"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Credits     int64           `json:"credits"`
	SessionID   string          `json:"session_id"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	// Joined from credit_packages on lookups; empty elsewhere.
	PackageName string `json:"package_name,omitempty"`
}

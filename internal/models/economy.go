package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerSender is the sender recorded on store-purchase ledger entries.
const LedgerSender = "Store"

// LedgerTypePurchase is the economy_transactions type for settled purchases.
const LedgerTypePurchase = "store_purchase"

// UsernameLink maps a Discord identity to an in-game name on one server.
// Links are created by the game-side bot; this service only reads them.
type UsernameLink struct {
	DiscordID string `json:"discord_id"`
	ServerID  string `json:"server_id"`
	Username  string `json:"username"`
}

type PlayerBalance struct {
	ID          uuid.UUID `json:"id"`
	ServerID    string    `json:"server_id"`
	PlayerName  string    `json:"player_name"`
	Balance     int64     `json:"balance"`
	TotalEarned int64     `json:"total_earned"`
	TotalSpent  int64     `json:"total_spent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LedgerEntry is an append-only economy_transactions row. Entries are never
// mutated or deleted.
type LedgerEntry struct {
	ID          uuid.UUID `json:"id"`
	ServerID    string    `json:"server_id"`
	Sender      string    `json:"sender"`
	Receiver    string    `json:"receiver"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"transaction_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameServer is the storefront view of a server that has at least one
// linked account.
type GameServer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Discord webhook payload shapes. Only the fields the store uses.

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type WebhookMessage struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

const (
	colorGold     = 0xffd700
	storeUsername = "CNQR Store"
	storeFooter   = "CNQR Store • Powered by Stripe"
)

// Purchase is everything the purchase announcement needs.
type Purchase struct {
	Username    string          `json:"username"`
	PackageName string          `json:"package_name"`
	Credits     int64           `json:"credits"`
	Amount      decimal.Decimal `json:"amount"`
	ServerID    string          `json:"server_id"`
}

// PurchaseMessage formats the completed-purchase announcement embed.
func PurchaseMessage(p Purchase, at time.Time) WebhookMessage {
	embed := Embed{
		Title:       "💰 New Credit Purchase!",
		Description: fmt.Sprintf("**%s** just picked up **%d credits**!", p.Username, p.Credits),
		Color:       colorGold,
		Fields: []EmbedField{
			{Name: "🎮 Player", Value: fmt.Sprintf("`%s`", p.Username), Inline: true},
			{Name: "📦 Package", Value: fmt.Sprintf("**%s**", p.PackageName), Inline: true},
			{Name: "💎 Credits", Value: fmt.Sprintf("**%d**", p.Credits), Inline: true},
			{Name: "💵 Amount", Value: fmt.Sprintf("**$%s**", p.Amount.StringFixed(2)), Inline: true},
			{Name: "🎯 Server", Value: fmt.Sprintf("**%s**", p.ServerID), Inline: true},
			{Name: "⚡ Status", Value: "**DELIVERED**", Inline: true},
		},
		Footer:    &EmbedFooter{Text: storeFooter},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
	return WebhookMessage{Username: storeUsername, Embeds: []Embed{embed}}
}

// TestMessage is the embed sent by the admin webhook test endpoint.
func TestMessage(at time.Time) WebhookMessage {
	return WebhookMessage{
		Username: storeUsername,
		Embeds: []Embed{{
			Title:       "🔧 Webhook Test",
			Description: "The store webhook is configured correctly.",
			Color:       colorGold,
			Footer:      &EmbedFooter{Text: storeFooter},
			Timestamp:   at.UTC().Format(time.RFC3339),
		}},
	}
}

// Sender posts webhook messages to a configured URL.
type Sender struct {
	url    string
	client *http.Client
}

// NewSender returns a Sender; an empty url disables sending (Post becomes a
// no-op error so callers can log it once).
func NewSender(url string) *Sender {
	return &Sender{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Configured reports whether a webhook URL is set.
func (s *Sender) Configured() bool { return s.url != "" }

// Post sends one message. Non-2xx responses are errors; the caller decides
// whether to swallow them.
func (s *Sender) Post(ctx context.Context, msg WebhookMessage) error {
	if s.url == "" {
		return fmt.Errorf("webhook URL not configured")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

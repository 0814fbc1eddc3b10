package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusPaid is the provider payment status meaning money was collected.
const StatusPaid = "paid"

// Session is the provider-neutral view of a hosted checkout session.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	// AmountTotal is the amount actually collected, in currency units.
	AmountTotal decimal.Decimal
	Metadata    map[string]string
}

// Paid reports whether the provider considers the session settled.
func (s *Session) Paid() bool {
	return s.PaymentStatus == StatusPaid
}

// CreateSessionInput describes one line-item hosted checkout.
type CreateSessionInput struct {
	PackageName        string
	PackageDescription string
	Amount             decimal.Decimal
	Currency           string
	CustomerEmail      string
	SuccessURL         string
	CancelURL          string
	// Metadata is echoed back unmodified by the provider on retrieval.
	Metadata map[string]string
}

// Provider is the hosted payment integration. A nil Provider in the
// services means demo mode: no external system is contacted.
type Provider interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
	// ExpireSession voids a session that has no local transaction record.
	ExpireSession(ctx context.Context, id string) error
}

const demoPrefix = "demo_"

// NewDemoSessionID synthesizes a locally-unique session reference for demo
// mode (time-based plus a random suffix).
func NewDemoSessionID() string {
	return fmt.Sprintf("%s%d_%s", demoPrefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// IsDemoSession reports whether a session reference was synthesized locally.
func IsDemoSession(id string) bool {
	return strings.HasPrefix(id, demoPrefix)
}

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"github.com/shopspring/decimal"
)

// PurchaseNotifyArgs is the queued announcement for one settled purchase.
// It is inserted in the same database transaction as the settlement writes,
// so a notification exists exactly when the credits were granted.
type PurchaseNotifyArgs struct {
	Username    string          `json:"username"`
	PackageName string          `json:"package_name"`
	Credits     int64           `json:"credits"`
	Amount      decimal.Decimal `json:"amount"`
	ServerID    string          `json:"server_id"`
	SessionID   string          `json:"session_id"`
}

func (PurchaseNotifyArgs) Kind() string { return "purchase_notify" }

// InsertOpts caps the job at a single attempt: the announcement is
// best-effort and must never be retried into a duplicate ping.
func (PurchaseNotifyArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 1}
}

// PurchaseNotifyWorker posts the Discord announcement off the request path.
// Failures never affect the transaction outcome; they are logged and
// swallowed.
type PurchaseNotifyWorker struct {
	river.WorkerDefaults[PurchaseNotifyArgs]
	sender *Sender
	log    *slog.Logger
}

func NewPurchaseNotifyWorker(sender *Sender, log *slog.Logger) *PurchaseNotifyWorker {
	if log == nil {
		log = slog.Default()
	}
	return &PurchaseNotifyWorker{sender: sender, log: log}
}

func (w *PurchaseNotifyWorker) Work(ctx context.Context, job *river.Job[PurchaseNotifyArgs]) error {
	args := job.Args
	if !w.sender.Configured() {
		w.log.Warn("purchase notification skipped, webhook not configured",
			"session_id", args.SessionID)
		return nil
	}

	msg := PurchaseMessage(Purchase{
		Username:    args.Username,
		PackageName: args.PackageName,
		Credits:     args.Credits,
		Amount:      args.Amount,
		ServerID:    args.ServerID,
	}, time.Now())

	if err := w.sender.Post(ctx, msg); err != nil {
		w.log.Error("purchase notification failed",
			"session_id", args.SessionID, "error", err)
	}
	return nil
}

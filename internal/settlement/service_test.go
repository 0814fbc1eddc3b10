package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/notify"
	"github.com/cnqrstore/backend/internal/repository"
)

// fakeTx satisfies pgx.Tx for the methods the service touches; everything
// else panics via the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type mockBeginner struct {
	tx *fakeTx
}

func (m *mockBeginner) Begin(context.Context) (pgx.Tx, error) {
	m.tx = &fakeTx{}
	return m.tx, nil
}

type mockLinks struct {
	links map[string]string // discordID|serverID -> username
}

func (m *mockLinks) Get(_ context.Context, discordID, serverID string) (*models.UsernameLink, error) {
	name, ok := m.links[discordID+"|"+serverID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.UsernameLink{DiscordID: discordID, ServerID: serverID, Username: name}, nil
}

type mockBalances struct {
	rows map[string]*models.PlayerBalance // serverID|player
	err  error
}

func (m *mockBalances) CreditTx(_ context.Context, _ pgx.Tx, serverID, playerName string, credits int64) (*models.PlayerBalance, error) {
	if m.err != nil {
		return nil, m.err
	}
	key := serverID + "|" + playerName
	b, ok := m.rows[key]
	if !ok {
		b = &models.PlayerBalance{ID: uuid.New(), ServerID: serverID, PlayerName: playerName}
		m.rows[key] = b
	}
	b.Balance += credits
	b.TotalEarned += credits
	cp := *b
	return &cp, nil
}

type mockLedger struct {
	entries []*models.LedgerEntry
}

func (m *mockLedger) CreateTx(_ context.Context, _ pgx.Tx, e *models.LedgerEntry) error {
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func completedTxn() *models.StoreTransaction {
	return &models.StoreTransaction{
		ID:          uuid.New(),
		DiscordID:   "907231041167716352",
		ServerID:    "server1",
		Credits:     2500,
		FinalAmount: decimal.RequireFromString("19.99"),
		SessionID:   "cs_test_123",
		Status:      models.TxStatusCompleted,
		PackageName: "Pro Pack",
	}
}

func TestSettleCreditsLinkedPlayer(t *testing.T) {
	beginner := &mockBeginner{}
	balances := &mockBalances{rows: map[string]*models.PlayerBalance{
		"server1|ooovenenoso": {ServerID: "server1", PlayerName: "ooovenenoso", Balance: 1000, TotalEarned: 1000},
	}}
	ledger := &mockLedger{}
	links := &mockLinks{links: map[string]string{"907231041167716352|server1": "ooovenenoso"}}

	var enqueued []notify.PurchaseNotifyArgs
	insert := func(_ context.Context, _ pgx.Tx, args notify.PurchaseNotifyArgs) error {
		enqueued = append(enqueued, args)
		return nil
	}

	svc := NewService(beginner, links, balances, ledger, insert, nil)
	out, err := svc.Settle(context.Background(), completedTxn())
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if out.Username != "ooovenenoso" {
		t.Errorf("username = %s", out.Username)
	}
	if out.NewBalance != 3500 {
		t.Errorf("new balance = %d, want 3500", out.NewBalance)
	}

	b := balances.rows["server1|ooovenenoso"]
	if b.Balance != 3500 || b.TotalEarned != 3500 {
		t.Errorf("balance/earned = %d/%d, want 3500/3500", b.Balance, b.TotalEarned)
	}
	if b.TotalSpent != 0 {
		t.Errorf("total spent = %d, want unchanged 0", b.TotalSpent)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(ledger.entries))
	}
	e := ledger.entries[0]
	if e.Sender != "Store" || e.Receiver != "ooovenenoso" || e.Amount != 2500 || e.Type != "store_purchase" {
		t.Errorf("ledger entry = %+v", e)
	}

	if len(enqueued) != 1 {
		t.Fatalf("notifications enqueued = %d, want 1", len(enqueued))
	}
	if enqueued[0].Username != "ooovenenoso" || enqueued[0].Credits != 2500 {
		t.Errorf("notification args = %+v", enqueued[0])
	}

	if !beginner.tx.committed {
		t.Error("settlement transaction was not committed")
	}
}

func TestSettleCreatesBalanceOnFirstPurchase(t *testing.T) {
	beginner := &mockBeginner{}
	balances := &mockBalances{rows: map[string]*models.PlayerBalance{}}
	links := &mockLinks{links: map[string]string{"907231041167716352|server1": "newplayer"}}

	svc := NewService(beginner, links, balances, &mockLedger{}, nil, nil)
	out, err := svc.Settle(context.Background(), completedTxn())
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if out.NewBalance != 2500 {
		t.Errorf("first balance = %d, want 2500", out.NewBalance)
	}
	b := balances.rows["server1|newplayer"]
	if b.Balance != 2500 || b.TotalEarned != 2500 || b.TotalSpent != 0 {
		t.Errorf("created row = %+v", b)
	}
}

func TestSettleWithoutLinkTouchesNothing(t *testing.T) {
	beginner := &mockBeginner{}
	balances := &mockBalances{rows: map[string]*models.PlayerBalance{}}
	ledger := &mockLedger{}
	links := &mockLinks{links: map[string]string{}}

	notified := 0
	insert := func(context.Context, pgx.Tx, notify.PurchaseNotifyArgs) error {
		notified++
		return nil
	}

	svc := NewService(beginner, links, balances, ledger, insert, nil)
	_, err := svc.Settle(context.Background(), completedTxn())
	if !errors.Is(err, ErrNoLinkedAccount) {
		t.Fatalf("err = %v, want ErrNoLinkedAccount", err)
	}
	if len(balances.rows) != 0 {
		t.Error("balance mutated without a linked account")
	}
	if len(ledger.entries) != 0 {
		t.Error("ledger written without a linked account")
	}
	if notified != 0 {
		t.Error("notification enqueued without a linked account")
	}
	if beginner.tx != nil {
		t.Error("transaction begun before resolving the link")
	}
}

func TestSettleBalanceFailureRollsBack(t *testing.T) {
	beginner := &mockBeginner{}
	balances := &mockBalances{rows: map[string]*models.PlayerBalance{}, err: errors.New("deadlock")}
	links := &mockLinks{links: map[string]string{"907231041167716352|server1": "p1"}}

	svc := NewService(beginner, links, balances, &mockLedger{}, nil, nil)
	if _, err := svc.Settle(context.Background(), completedTxn()); err == nil {
		t.Fatal("expected error")
	}
	if beginner.tx.committed {
		t.Error("failed settlement must not commit")
	}
	if !beginner.tx.rolledBack {
		t.Error("failed settlement must roll back")
	}
}

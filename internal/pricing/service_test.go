package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
)

type mockConfig struct {
	mode    models.PriceMode
	getErr  error
	setErr  error
	setMode models.PriceMode
}

func (m *mockConfig) GetPriceMode(context.Context) (models.PriceMode, error) {
	return m.mode, m.getErr
}

func (m *mockConfig) SetPriceMode(_ context.Context, mode models.PriceMode) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setMode = mode
	m.mode = mode
	return nil
}

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		base string
		mode models.PriceMode
		want string
	}{
		{"9.99", models.PriceModeNormal, "9.99"},
		{"9.99", models.PriceModeDiscounted, "5.00"}, // 4.995 rounds half away from zero
		{"9.99", models.PriceModeSurge, "11.49"},     // 11.4885
		{"19.99", models.PriceModeNormal, "19.99"},
		{"19.99", models.PriceModeDiscounted, "10.00"}, // 9.995
		{"19.99", models.PriceModeSurge, "22.99"},      // 22.9885
		{"79.99", models.PriceModeDiscounted, "40.00"},
	}
	for _, tc := range cases {
		got := Effective(decimal.RequireFromString(tc.base), tc.mode)
		if got.StringFixed(2) != tc.want {
			t.Errorf("Effective(%s, %s) = %s, want %s", tc.base, tc.mode, got, tc.want)
		}
	}
}

func TestCurrentModeReadsStore(t *testing.T) {
	svc := NewService(&mockConfig{mode: models.PriceModeSurge}, nil)
	if mode := svc.CurrentMode(context.Background()); mode != models.PriceModeSurge {
		t.Fatalf("CurrentMode = %s, want surge", mode)
	}
}

func TestCurrentModeFallsBackToLastKnown(t *testing.T) {
	cfg := &mockConfig{mode: models.PriceModeDiscounted}
	svc := NewService(cfg, nil)

	// Prime the cache, then break the store.
	if mode := svc.CurrentMode(context.Background()); mode != models.PriceModeDiscounted {
		t.Fatalf("CurrentMode = %s, want discounted", mode)
	}
	cfg.getErr = errors.New("connection refused")
	if mode := svc.CurrentMode(context.Background()); mode != models.PriceModeDiscounted {
		t.Fatalf("CurrentMode after store error = %s, want last known discounted", mode)
	}
}

func TestCurrentModeDefaultsToNormal(t *testing.T) {
	cfg := &mockConfig{getErr: errors.New("down")}
	svc := NewService(cfg, nil)
	if mode := svc.CurrentMode(context.Background()); mode != models.PriceModeNormal {
		t.Fatalf("CurrentMode with no history = %s, want normal", mode)
	}
}

func TestSetModeValidatesEnum(t *testing.T) {
	cfg := &mockConfig{mode: models.PriceModeNormal}
	svc := NewService(cfg, nil)

	if err := svc.SetMode(context.Background(), "high_season"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("SetMode(high_season) err = %v, want ErrInvalidMode", err)
	}
	if cfg.setMode != "" {
		t.Fatal("invalid mode must not reach the store")
	}

	if err := svc.SetMode(context.Background(), models.PriceModeSurge); err != nil {
		t.Fatalf("SetMode(surge) err = %v", err)
	}
	if cfg.setMode != models.PriceModeSurge {
		t.Fatalf("store mode = %s, want surge", cfg.setMode)
	}
}

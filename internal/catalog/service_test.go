package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
)

type mockPackages struct {
	pkgs []*models.Package
	err  error
}

func (m *mockPackages) ListActive(context.Context) ([]*models.Package, error) {
	return m.pkgs, m.err
}

type fixedMode models.PriceMode

func (m fixedMode) CurrentMode(context.Context) models.PriceMode {
	return models.PriceMode(m)
}

func pkg(name string, credits int64, base string) *models.Package {
	return &models.Package{
		ID:        uuid.New(),
		Name:      name,
		Credits:   credits,
		BasePrice: decimal.RequireFromString(base),
		IsActive:  true,
	}
}

func TestListPackagesNormalMode(t *testing.T) {
	store := &mockPackages{pkgs: []*models.Package{pkg("Pro Pack", 2500, "19.99")}}
	svc := NewService(store, fixedMode(models.PriceModeNormal), nil)

	got := svc.ListPackages(context.Background())
	if len(got) != 1 {
		t.Fatalf("got %d packages, want 1", len(got))
	}
	p := got[0]
	if p.Price.StringFixed(2) != "19.99" {
		t.Errorf("price = %s, want 19.99", p.Price)
	}
	if p.OriginalPrice != nil {
		t.Error("normal mode must not expose an original price")
	}
	if p.Discount != 0 || p.PriceIncrease != 0 {
		t.Errorf("normal mode discount/increase = %d/%d, want 0/0", p.Discount, p.PriceIncrease)
	}
}

func TestListPackagesDiscountedMode(t *testing.T) {
	store := &mockPackages{pkgs: []*models.Package{pkg("Pro Pack", 2500, "19.99")}}
	svc := NewService(store, fixedMode(models.PriceModeDiscounted), nil)

	p := svc.ListPackages(context.Background())[0]
	if p.Price.StringFixed(2) != "10.00" {
		t.Errorf("discounted price = %s, want 10.00", p.Price)
	}
	if p.OriginalPrice == nil || p.OriginalPrice.StringFixed(2) != "19.99" {
		t.Errorf("original price = %v, want 19.99", p.OriginalPrice)
	}
	if p.Discount != 50 {
		t.Errorf("discount = %d, want 50", p.Discount)
	}
}

func TestListPackagesSurgeMode(t *testing.T) {
	store := &mockPackages{pkgs: []*models.Package{pkg("Starter", 1000, "9.99")}}
	svc := NewService(store, fixedMode(models.PriceModeSurge), nil)

	p := svc.ListPackages(context.Background())[0]
	if p.Price.StringFixed(2) != "11.49" {
		t.Errorf("surge price = %s, want 11.49", p.Price)
	}
	if p.PriceIncrease != 15 {
		t.Errorf("price increase = %d, want 15", p.PriceIncrease)
	}
}

func TestListPackagesFallbackOnStoreError(t *testing.T) {
	store := &mockPackages{err: errors.New("connection refused")}
	svc := NewService(store, fixedMode(models.PriceModeNormal), nil)

	got := svc.ListPackages(context.Background())
	if len(got) != 4 {
		t.Fatalf("fallback catalog has %d packages, want 4", len(got))
	}
	if got[1].Name != "Pro Pack" || got[1].Credits != 2500 {
		t.Errorf("fallback[1] = %s/%d, want Pro Pack/2500", got[1].Name, got[1].Credits)
	}
	if got[3].Price.StringFixed(2) != "79.99" {
		t.Errorf("fallback ultimate price = %s, want 79.99", got[3].Price)
	}
}

func TestListPackagesFallbackKeepsMode(t *testing.T) {
	store := &mockPackages{err: errors.New("down")}
	svc := NewService(store, fixedMode(models.PriceModeDiscounted), nil)

	got := svc.ListPackages(context.Background())
	if got[0].Price.StringFixed(2) != "5.00" { // 9.99 * 0.5 = 4.995
		t.Errorf("discounted fallback price = %s, want 5.00", got[0].Price)
	}
}

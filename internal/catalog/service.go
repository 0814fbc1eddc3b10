package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
	"github.com/cnqrstore/backend/internal/pricing"
)

// PackageStore is the subset of the package repository the catalog needs.
type PackageStore interface {
	ListActive(ctx context.Context) ([]*models.Package, error)
}

// ModeSource resolves the current store-wide pricing mode.
type ModeSource interface {
	CurrentMode(ctx context.Context) models.PriceMode
}

// PricedPackage is a package with its mode-adjusted price applied, the shape
// the storefront renders.
type PricedPackage struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Credits       int64            `json:"credits"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url"`
	Popular       bool             `json:"popular"`
	BestValue     bool             `json:"best_value"`
	Discount      int              `json:"discount"`
	PriceIncrease int              `json:"price_increase"`
	PriceMode     models.PriceMode `json:"price_mode"`
}

type Service struct {
	packages PackageStore
	modes    ModeSource
	log      *slog.Logger
}

func NewService(packages PackageStore, modes ModeSource, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{packages: packages, modes: modes, log: log}
}

// ListPackages returns the active catalog with effective prices. The catalog
// must always render something: on a store error it serves the hard-coded
// fallback offers instead of failing.
func (s *Service) ListPackages(ctx context.Context) []PricedPackage {
	mode := s.modes.CurrentMode(ctx)

	pkgs, err := s.packages.ListActive(ctx)
	if err != nil {
		s.log.Error("package listing failed, serving fallback catalog", "error", err)
		pkgs = fallbackPackages()
	}

	out := make([]PricedPackage, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, price(p, mode))
	}
	return out
}

func price(p *models.Package, mode models.PriceMode) PricedPackage {
	pp := PricedPackage{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Credits:       p.Credits,
		BasePrice:     p.BasePrice,
		Price:         pricing.Effective(p.BasePrice, mode),
		ImageURL:      p.ImageURL,
		Popular:       p.IsPopular,
		BestValue:     p.IsBestValue,
		Discount:      mode.DiscountPercent(),
		PriceIncrease: mode.SurgePercent(),
		PriceMode:     mode,
	}
	if mode != models.PriceModeNormal {
		orig := p.BasePrice
		pp.OriginalPrice = &orig
	}
	return pp
}

// Fallback offer ids are fixed so the storefront can still build checkout
// links against the seeded catalog when the database comes back.
var fallbackIDs = [4]uuid.UUID{
	uuid.MustParse("00000000-0000-0000-0000-0000000000a1"),
	uuid.MustParse("00000000-0000-0000-0000-0000000000a2"),
	uuid.MustParse("00000000-0000-0000-0000-0000000000a3"),
	uuid.MustParse("00000000-0000-0000-0000-0000000000a4"),
}

func fallbackPackages() []*models.Package {
	return []*models.Package{
		{
			ID: fallbackIDs[0], Name: "Starter Pack",
			Description: "Perfect for new players getting started",
			Credits:     1000, BasePrice: decimal.RequireFromString("9.99"),
			IsActive: true, SortOrder: 1,
		},
		{
			ID: fallbackIDs[1], Name: "Pro Pack",
			Description: "Most popular choice among players",
			Credits:     2500, BasePrice: decimal.RequireFromString("19.99"),
			IsActive: true, IsPopular: true, SortOrder: 2,
		},
		{
			ID: fallbackIDs[2], Name: "Elite Pack",
			Description: "For serious gamers who want more",
			Credits:     6000, BasePrice: decimal.RequireFromString("39.99"),
			IsActive: true, SortOrder: 3,
		},
		{
			ID: fallbackIDs[3], Name: "Ultimate Pack",
			Description: "Maximum value for hardcore players",
			Credits:     15000, BasePrice: decimal.RequireFromString("79.99"),
			IsActive: true, IsBestValue: true, SortOrder: 4,
		},
	}
}

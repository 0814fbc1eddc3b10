package models

import "github.com/shopspring/decimal"

// PriceMode is the store-wide pricing state. Exactly one mode is active at
// any time; it lives in the single-row store_config table so every API
// instance reads the same value.
type PriceMode string

const (
	PriceModeNormal     PriceMode = "normal"
	PriceModeDiscounted PriceMode = "discounted"
	PriceModeSurge      PriceMode = "surge"
)

var priceMultipliers = map[PriceMode]decimal.Decimal{
	PriceModeNormal:     decimal.NewFromInt(1),
	PriceModeDiscounted: decimal.RequireFromString("0.5"),
	PriceModeSurge:      decimal.RequireFromString("1.15"),
}

// Valid reports whether m is one of the three known modes.
func (m PriceMode) Valid() bool {
	_, ok := priceMultipliers[m]
	return ok
}

// Multiplier returns the price multiplier for the mode. Unknown modes fall
// back to the normal multiplier.
func (m PriceMode) Multiplier() decimal.Decimal {
	if mult, ok := priceMultipliers[m]; ok {
		return mult
	}
	return priceMultipliers[PriceModeNormal]
}

// DiscountPercent is the display percentage for the discounted mode (0 otherwise).
func (m PriceMode) DiscountPercent() int {
	if m == PriceModeDiscounted {
		return 50
	}
	return 0
}

// SurgePercent is the display percentage for the surge mode (0 otherwise).
func (m PriceMode) SurgePercent() int {
	if m == PriceModeSurge {
		return 15
	}
	return 0
}

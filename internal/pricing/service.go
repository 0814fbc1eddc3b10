package pricing

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/cnqrstore/backend/internal/models"
)

// ErrInvalidMode is returned when a mode outside the known enum is submitted.
var ErrInvalidMode = errors.New("invalid price mode")

// ConfigStore is the store_config access the service needs.
type ConfigStore interface {
	GetPriceMode(ctx context.Context) (models.PriceMode, error)
	SetPriceMode(ctx context.Context, mode models.PriceMode) error
}

// Service resolves the store-wide pricing mode and computes effective
// prices. The mode lives in shared storage; the last successfully read
// value is kept in memory so pricing still works when the store is down
// (the catalog's availability-over-consistency fallback).
type Service struct {
	cfg  ConfigStore
	log  *slog.Logger
	last atomic.Value // models.PriceMode
}

func NewService(cfg ConfigStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{cfg: cfg, log: log}
	s.last.Store(models.PriceModeNormal)
	return s
}

// CurrentMode returns the active pricing mode, falling back to the last
// known mode when the store cannot be read.
func (s *Service) CurrentMode(ctx context.Context) models.PriceMode {
	mode, err := s.cfg.GetPriceMode(ctx)
	if err != nil || !mode.Valid() {
		last := s.last.Load().(models.PriceMode)
		if err != nil {
			s.log.Warn("price mode read failed, using last known", "mode", last, "error", err)
		}
		return last
	}
	s.last.Store(mode)
	return mode
}

// SetMode validates and persists a new store-wide mode.
func (s *Service) SetMode(ctx context.Context, mode models.PriceMode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	if err := s.cfg.SetPriceMode(ctx, mode); err != nil {
		return err
	}
	s.last.Store(mode)
	s.log.Info("price mode updated", "mode", mode)
	return nil
}

// Effective applies the mode multiplier to a base price and rounds to two
// decimal places, half away from zero.
func Effective(base decimal.Decimal, mode models.PriceMode) decimal.Decimal {
	return base.Mul(mode.Multiplier()).Round(2)
}

package sizing

import (
	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// VolatilityScaledStrategy replaces the explicit stop distance with an
// ATR-derived one, so the same dollar risk buys fewer units when the
// market is noisy and more when it is calm.
type VolatilityScaledStrategy struct {
	cfg *config.SizingConfig
}

func NewVolatilityScaledStrategy(cfg *config.SizingConfig) *VolatilityScaledStrategy {
	return &VolatilityScaledStrategy{cfg: cfg}
}

func (s *VolatilityScaledStrategy) Name() string { return config.StrategyVolatility }

func (s *VolatilityScaledStrategy) Size(req Request) (Result, error) {
	if req.ATR <= 0 {
		// No volatility reading, fall back to the explicit stop.
		qty, err := baseQuantity(req, req.RiskPct)
		if err != nil {
			return Result{}, err
		}
		return Result{Quantity: qty, RiskPctApplied: req.RiskPct}, nil
	}

	if req.EntryPrice <= 0 {
		return Result{}, engineerrors.NewDegenerateStopError("sizing", req.EntryPrice, req.StopLossPrice)
	}
	stopFraction := req.ATR * s.cfg.ATRMultiplier / req.EntryPrice
	qty := quantityFor(req, req.RiskPct, stopFraction)
	return Result{Quantity: qty, RiskPctApplied: req.RiskPct}, nil
}

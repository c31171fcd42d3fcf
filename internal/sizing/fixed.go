package sizing

import (
	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// FixedStrategy applies the base risk computation at the requested
// risk percentage. When FixedNotional is configured it instead buys a
// constant notional value per trade, capped at the account balance.
type FixedStrategy struct {
	cfg *config.SizingConfig
}

func NewFixedStrategy(cfg *config.SizingConfig) *FixedStrategy {
	return &FixedStrategy{cfg: cfg}
}

func (s *FixedStrategy) Name() string { return config.StrategyFixed }

func (s *FixedStrategy) Size(req Request) (Result, error) {
	if s.cfg.FixedNotional > 0 {
		if req.EntryPrice <= 0 {
			return Result{}, engineerrors.NewDegenerateStopError("sizing", req.EntryPrice, req.StopLossPrice)
		}
		notional := s.cfg.FixedNotional
		capped := false
		reason := ""
		if notional > req.AccountBalance {
			notional = req.AccountBalance
			capped = true
			reason = "fixed notional capped at account balance"
		}
		return Result{
			Quantity:       notional / req.EntryPrice,
			RiskPctApplied: req.RiskPct,
			Capped:         capped,
			CapReason:      reason,
		}, nil
	}

	qty, err := baseQuantity(req, req.RiskPct)
	if err != nil {
		return Result{}, err
	}
	return Result{Quantity: qty, RiskPctApplied: req.RiskPct}, nil
}

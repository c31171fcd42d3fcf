package sizing

import (
	"math"

	"github.com/minhtran-quant/crypto-risk-engine/internal/ledger"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// BlendedStrategy scales the base quantity by a performance factor,
// sqrt(winRate * profitFactor), so position size grows with proven
// edge and shrinks as the trailing record deteriorates. The scaled
// quantity is capped relative to the account balance.
type BlendedStrategy struct {
	cfg *config.SizingConfig
}

func NewBlendedStrategy(cfg *config.SizingConfig) *BlendedStrategy {
	return &BlendedStrategy{cfg: cfg}
}

func (s *BlendedStrategy) Name() string { return config.StrategyBlended }

func (s *BlendedStrategy) Size(req Request) (Result, error) {
	qty, err := baseQuantity(req, req.RiskPct)
	if err != nil {
		return Result{}, err
	}

	leverage := req.Leverage
	if leverage <= 0 {
		leverage = 1
	}
	maxQuantity := req.AccountBalance * s.cfg.MaxRiskPct / 100 * leverage
	capped := false
	reason := ""

	riskPct := req.RiskPct
	stats := ledger.ComputeTrailing(req.Ledger, s.cfg.BlendLookback)
	switch {
	case stats.TotalTrades > 0 && stats.Losses == 0:
		// A loss-free window has an unbounded profit factor; the
		// quantity ceiling bounds it instead of a factor.
		qty = maxQuantity
		riskPct = s.cfg.MaxRiskPct
		capped = true
		reason = "blended quantity capped"
	case stats.TotalTrades > 0:
		factor := math.Sqrt(stats.WinRate * stats.ProfitFactor)
		qty *= factor
		riskPct *= factor
	}

	if qty > maxQuantity {
		qty = maxQuantity
		capped = true
		reason = "blended quantity capped"
	}
	return Result{Quantity: qty, RiskPctApplied: riskPct, Capped: capped, CapReason: reason}, nil
}

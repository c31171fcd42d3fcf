package sizing

import (
	"github.com/minhtran-quant/crypto-risk-engine/internal/ledger"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// KellyStrategy risks a configurable fraction of the Kelly criterion.
// Win rate and payoff come from the request when supplied, otherwise
// from the trailing trades of the ledger. With too little history the
// strategy degrades to plain risk-based sizing rather than guessing.
type KellyStrategy struct {
	cfg *config.SizingConfig
}

func NewKellyStrategy(cfg *config.SizingConfig) *KellyStrategy {
	return &KellyStrategy{cfg: cfg}
}

func (s *KellyStrategy) Name() string { return config.StrategyKelly }

func (s *KellyStrategy) Size(req Request) (Result, error) {
	winRate, payoff := req.WinRate, req.PayoffRatio
	if winRate <= 0 || payoff <= 0 {
		if len(req.Ledger) < s.cfg.MinKellyTrades {
			qty, err := baseQuantity(req, req.RiskPct)
			if err != nil {
				return Result{}, err
			}
			return Result{Quantity: qty, RiskPctApplied: req.RiskPct}, nil
		}
		stats := ledger.ComputeTrailing(req.Ledger, s.cfg.KellyLookback)
		winRate, payoff = stats.WinRate, stats.PayoffRatio
	}

	kelly := kellyFraction(winRate, payoff)
	if kelly <= 0 {
		// No statistical edge, stand aside.
		return Result{Capped: true, CapReason: "non-positive kelly edge"}, nil
	}

	riskPct := kelly * s.cfg.KellyFraction * 100
	capped := false
	reason := ""
	if riskPct > s.cfg.MaxRiskPct {
		riskPct = s.cfg.MaxRiskPct
		capped = true
		reason = "kelly risk capped at max risk pct"
	}

	qty, err := baseQuantity(req, riskPct)
	if err != nil {
		return Result{}, err
	}
	return Result{Quantity: qty, RiskPctApplied: riskPct, Capped: capped, CapReason: reason}, nil
}

// kellyFraction is the classic f* = (p*b - q) / b with b the payoff
// ratio, p the win rate and q = 1-p. A loss-free record has no
// measurable payoff ratio; it is full edge, f* = 1, bounded downstream
// by the fractional Kelly multiplier and the max risk cap.
func kellyFraction(winRate, payoff float64) float64 {
	if winRate <= 0 {
		return 0
	}
	if winRate >= 1 {
		return 1
	}
	if payoff <= 0 {
		return 0
	}
	return (winRate*payoff - (1 - winRate)) / payoff
}

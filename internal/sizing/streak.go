package sizing

import (
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// StreakState is the anti-martingale unit multiplier. It is passed in
// by the caller and advanced with AfterTrade, keeping the strategy
// itself stateless and safe to share.
type StreakState struct {
	UnitMultiplier  float64 `json:"unit_multiplier"`
	ConsecutiveWins int     `json:"consecutive_wins"`
}

// NewStreakState returns a fresh streak at exactly one unit.
func NewStreakState() StreakState {
	return StreakState{UnitMultiplier: 1}
}

// AfterTrade returns the state following a closed trade. Wins multiply
// the unit by increaseFactor up to maxUnits; any loss resets the
// multiplier to exactly 1.
func (s StreakState) AfterTrade(win bool, increaseFactor, maxUnits float64) StreakState {
	if !win {
		return NewStreakState()
	}
	next := StreakState{
		UnitMultiplier:  s.UnitMultiplier * increaseFactor,
		ConsecutiveWins: s.ConsecutiveWins + 1,
	}
	if next.UnitMultiplier > maxUnits {
		next.UnitMultiplier = maxUnits
	}
	return next
}

// StreakStrategy scales the requested risk by the current streak
// multiplier, pressing winners and cutting back to baseline after a
// loss. The effective risk is still capped at MaxRiskPct.
type StreakStrategy struct {
	cfg *config.SizingConfig
}

func NewStreakStrategy(cfg *config.SizingConfig) *StreakStrategy {
	return &StreakStrategy{cfg: cfg}
}

func (s *StreakStrategy) Name() string { return config.StrategyStreak }

func (s *StreakStrategy) Size(req Request) (Result, error) {
	state := NewStreakState()
	if req.Streak != nil {
		state = *req.Streak
	}
	multiplier := state.UnitMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	if multiplier > s.cfg.MaxUnits {
		multiplier = s.cfg.MaxUnits
	}

	riskPct := req.RiskPct * multiplier
	capped := false
	reason := ""
	if riskPct > s.cfg.MaxRiskPct {
		riskPct = s.cfg.MaxRiskPct
		capped = true
		reason = "streak risk capped at max risk pct"
	}

	qty, err := baseQuantity(req, riskPct)
	if err != nil {
		return Result{}, err
	}
	return Result{Quantity: qty, RiskPctApplied: riskPct, Capped: capped, CapReason: reason}, nil
}

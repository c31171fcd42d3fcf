package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

// TestStreakState_WinsCompound tests the anti-martingale progression
func TestStreakState_WinsCompound(t *testing.T) {
	state := NewStreakState()

	state = state.AfterTrade(true, 1.5, 4.0)
	assert.InDelta(t, 1.5, state.UnitMultiplier, 1e-9)
	assert.Equal(t, 1, state.ConsecutiveWins)

	state = state.AfterTrade(true, 1.5, 4.0)
	assert.InDelta(t, 2.25, state.UnitMultiplier, 1e-9)
	assert.Equal(t, 2, state.ConsecutiveWins)
}

// TestStreakState_CappedAtMaxUnits tests the multiplier ceiling
func TestStreakState_CappedAtMaxUnits(t *testing.T) {
	state := NewStreakState()
	for i := 0; i < 10; i++ {
		state = state.AfterTrade(true, 1.5, 4.0)
	}

	assert.Equal(t, 4.0, state.UnitMultiplier)
	assert.Equal(t, 10, state.ConsecutiveWins)
}

// TestStreakState_LossResetsToOne tests the hard reset on any loss
func TestStreakState_LossResetsToOne(t *testing.T) {
	state := NewStreakState()
	state = state.AfterTrade(true, 1.5, 4.0)
	state = state.AfterTrade(true, 1.5, 4.0)

	state = state.AfterTrade(false, 1.5, 4.0)

	assert.Equal(t, 1.0, state.UnitMultiplier)
	assert.Equal(t, 0, state.ConsecutiveWins)
}

// TestStreakStrategy_MultiplierScalesRisk tests risk scaling by streak
func TestStreakStrategy_MultiplierScalesRisk(t *testing.T) {
	strategy := NewStreakStrategy(config.DefaultSizingConfig())

	req := baseRequest()
	req.RiskPct = 0.5
	req.Streak = &StreakState{UnitMultiplier: 2.25, ConsecutiveWins: 2}

	res, err := strategy.Size(req)
	require.NoError(t, err)
	assert.InDelta(t, 1.125, res.RiskPctApplied, 1e-9)
	assert.False(t, res.Capped)
}

// TestStreakStrategy_NilStateIsBaseline tests sizing with a fresh streak
func TestStreakStrategy_NilStateIsBaseline(t *testing.T) {
	strategy := NewStreakStrategy(config.DefaultSizingConfig())

	res, err := strategy.Size(baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.RiskPctApplied)
	assert.InDelta(t, 0.1, res.Quantity, 1e-9)
}

// TestStreakStrategy_CappedAtMaxRisk tests the effective risk ceiling
func TestStreakStrategy_CappedAtMaxRisk(t *testing.T) {
	cfg := config.DefaultSizingConfig()
	strategy := NewStreakStrategy(cfg)

	req := baseRequest()
	req.RiskPct = 1.0
	req.Streak = &StreakState{UnitMultiplier: 4.0, ConsecutiveWins: 4}

	res, err := strategy.Size(req)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxRiskPct, res.RiskPctApplied)
	assert.True(t, res.Capped)
	assert.Equal(t, "streak risk capped at max risk pct", res.CapReason)
}

package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

func newAllocator(t *testing.T, cfg *config.SizingConfig) *PortfolioAllocator {
	t.Helper()
	allocator, err := NewPortfolioAllocator(cfg)
	require.NoError(t, err)
	return allocator
}

// TestAllocate_ProportionalToStrength tests the base weighting
func TestAllocate_ProportionalToStrength(t *testing.T) {
	allocator := newAllocator(t, nil)

	allocs := allocator.Allocate([]SymbolSignal{
		{Symbol: "BTCUSDT", Strength: 3},
		{Symbol: "ETHUSDT", Strength: 1},
	}, 4.0, nil)

	require.Len(t, allocs, 2)
	assert.InDelta(t, 3.0, allocs[0].RiskPct, 1e-9)
	assert.InDelta(t, 1.0, allocs[1].RiskPct, 1e-9)
	assert.False(t, allocs[0].Capped)
}

// TestAllocate_SymbolCap tests the per-symbol ceiling
func TestAllocate_SymbolCap(t *testing.T) {
	allocator := newAllocator(t, nil)

	allocs := allocator.Allocate([]SymbolSignal{
		{Symbol: "BTCUSDT", Strength: 9},
		{Symbol: "ETHUSDT", Strength: 1},
	}, 10.0, nil)

	// Default MaxSymbolRiskPct is 3.0, proportional share would be 9.0.
	assert.InDelta(t, 3.0, allocs[0].RiskPct, 1e-9)
	assert.True(t, allocs[0].Capped)
	assert.Equal(t, "symbol risk cap", allocs[0].CapReason)
	assert.False(t, allocs[1].Capped)
}

// TestAllocate_PortfolioScaleDown tests the proportional total cap
func TestAllocate_PortfolioScaleDown(t *testing.T) {
	cfg := config.DefaultSizingConfig()
	cfg.MaxSymbolRiskPct = 10
	cfg.MaxPortfolioRiskPct = 10
	allocator := newAllocator(t, cfg)

	allocs := allocator.Allocate([]SymbolSignal{
		{Symbol: "BTCUSDT", Strength: 2},
		{Symbol: "ETHUSDT", Strength: 1},
		{Symbol: "SOLUSDT", Strength: 1},
	}, 20.0, nil)

	total := 0.0
	for _, a := range allocs {
		total += a.RiskPct
		assert.True(t, a.Capped)
		assert.Equal(t, "portfolio risk cap", a.CapReason)
	}
	assert.InDelta(t, 10.0, total, 1e-9)

	// Proportions survive the scale-down.
	assert.InDelta(t, 2.0, allocs[0].RiskPct/allocs[1].RiskPct, 1e-9)
}

// TestAllocate_CorrelatedGroupCap tests the correlated exposure cap
func TestAllocate_CorrelatedGroupCap(t *testing.T) {
	cfg := config.DefaultSizingConfig()
	cfg.MaxSymbolRiskPct = 5
	cfg.MaxPortfolioRiskPct = 12
	cfg.MaxCorrelatedExposurePct = 6
	allocator := newAllocator(t, cfg)

	corr := types.CorrelationMatrix{
		"BTCUSDT": {"ETHUSDT": 0.9, "GOLD": 0.1},
	}

	allocs := allocator.Allocate([]SymbolSignal{
		{Symbol: "BTCUSDT", Strength: 1},
		{Symbol: "ETHUSDT", Strength: 1},
		{Symbol: "GOLD", Strength: 1},
	}, 12.0, corr)

	// BTC and ETH form a correlated group: their 8.0 combined risk is
	// scaled to the 6.0 group cap. Gold is untouched.
	assert.InDelta(t, 3.0, allocs[0].RiskPct, 1e-9)
	assert.InDelta(t, 3.0, allocs[1].RiskPct, 1e-9)
	assert.Equal(t, "correlated exposure cap", allocs[0].CapReason)
	assert.InDelta(t, 4.0, allocs[2].RiskPct, 1e-9)
	assert.False(t, allocs[2].Capped)
}

// TestAllocate_NoSignal tests degenerate inputs
func TestAllocate_NoSignal(t *testing.T) {
	allocator := newAllocator(t, nil)

	allocs := allocator.Allocate([]SymbolSignal{
		{Symbol: "BTCUSDT", Strength: 0},
		{Symbol: "ETHUSDT", Strength: -1},
	}, 10.0, nil)

	for _, a := range allocs {
		assert.Equal(t, 0.0, a.RiskPct)
	}
}

// TestCapMarginal_SymbolCap tests the per-symbol cap on a new position
func TestCapMarginal_SymbolCap(t *testing.T) {
	allocator := newAllocator(t, nil)

	capped, reason := allocator.CapMarginal("BTCUSDT", 5.0, nil, nil)
	assert.InDelta(t, 3.0, capped, 1e-9)
	assert.Equal(t, "symbol risk cap", reason)
}

// TestCapMarginal_PortfolioBudget tests the remaining portfolio budget
func TestCapMarginal_PortfolioBudget(t *testing.T) {
	allocator := newAllocator(t, nil)

	open := map[string]types.OpenPosition{
		"ETHUSDT": {Symbol: "ETHUSDT", RiskPctCommitted: 5.0},
		"SOLUSDT": {Symbol: "SOLUSDT", RiskPctCommitted: 4.0},
	}

	// 9.0 already committed against a 10.0 portfolio cap.
	capped, reason := allocator.CapMarginal("BTCUSDT", 2.0, open, nil)
	assert.InDelta(t, 1.0, capped, 1e-9)
	assert.Equal(t, "portfolio risk cap", reason)
}

// TestCapMarginal_CorrelatedExposure tests the correlated group budget
func TestCapMarginal_CorrelatedExposure(t *testing.T) {
	allocator := newAllocator(t, nil)

	open := map[string]types.OpenPosition{
		"ETHUSDT": {Symbol: "ETHUSDT", RiskPctCommitted: 5.0},
	}
	corr := types.CorrelationMatrix{
		"BTCUSDT": {"ETHUSDT": 0.9},
	}

	// Default MaxCorrelatedExposurePct is 6.0 with 5.0 held by ETH.
	capped, reason := allocator.CapMarginal("BTCUSDT", 2.0, open, corr)
	assert.InDelta(t, 1.0, capped, 1e-9)
	assert.Equal(t, "correlated exposure cap", reason)
}

// TestCapMarginal_ExhaustedBudget tests clamping at zero
func TestCapMarginal_ExhaustedBudget(t *testing.T) {
	allocator := newAllocator(t, nil)

	open := map[string]types.OpenPosition{
		"ETHUSDT": {Symbol: "ETHUSDT", RiskPctCommitted: 12.0},
	}

	capped, reason := allocator.CapMarginal("BTCUSDT", 2.0, open, nil)
	assert.Equal(t, 0.0, capped)
	assert.Equal(t, "portfolio risk cap", reason)
}

// TestCapMarginal_Uncapped tests the pass-through case
func TestCapMarginal_Uncapped(t *testing.T) {
	allocator := newAllocator(t, nil)

	capped, reason := allocator.CapMarginal("BTCUSDT", 1.0, nil, nil)
	assert.Equal(t, 1.0, capped)
	assert.Equal(t, "", reason)
}

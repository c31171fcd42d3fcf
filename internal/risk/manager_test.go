package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/internal/regime"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := config.DefaultRiskConfig()
	cfg.Simulation.Seed = 42
	manager, err := NewManager(cfg)
	require.NoError(t, err)
	return manager
}

// shortLedger stays below MinLedgerSize so the simulator keeps the
// default risk and evaluations stay arithmetically predictable.
func shortLedger() []types.TradeRecord {
	return []types.TradeRecord{
		{Symbol: "BTCUSDT", EntryPrice: 100, ExitPrice: 102, ReturnPct: 2},
		{Symbol: "BTCUSDT", EntryPrice: 100, ExitPrice: 99, ReturnPct: -1},
	}
}

func testRequest(balance float64) EvaluateRequest {
	return EvaluateRequest{
		Symbol:         "BTCUSDT",
		EntryPrice:     50000,
		StopLossPrice:  49000,
		AccountBalance: balance,
		Leverage:       1,
		Ledger:         shortLedger(),
		Now:            testNow,
	}
}

// TestEvaluate_UnknownRegimeHalvesRisk tests the full pipeline with a
// short candle window and a short ledger.
func TestEvaluate_UnknownRegimeHalvesRisk(t *testing.T) {
	manager := newTestManager(t)

	eval, err := manager.Evaluate(testRequest(10000))
	require.NoError(t, err)

	assert.Equal(t, regime.RegimeUnknown, eval.Regime.Regime)
	assert.Equal(t, 1.0, eval.Budget.SuggestedRiskPct)
	assert.Equal(t, 1.0, eval.DrawdownScale)

	// suggested 1.0 x unknown multiplier 0.5 = 0.5% risk:
	// 50 / (50000 * 0.02) = 0.05
	assert.InDelta(t, 0.5, eval.RiskPctApplied, 1e-9)
	assert.InDelta(t, 0.05, eval.PositionSize, 1e-9)
	assert.False(t, eval.Capped)
}

// TestEvaluate_DailyCircuitBreaker tests the daily loss hard stop
func TestEvaluate_DailyCircuitBreaker(t *testing.T) {
	manager := newTestManager(t)

	// 6% realized loss against a 5% daily limit.
	manager.RecordTradeOutcome(-600, testNow)

	eval, err := manager.Evaluate(testRequest(10000))
	require.NoError(t, err)

	assert.Equal(t, 0.0, eval.PositionSize)
	assert.True(t, eval.Capped)
	assert.Equal(t, "daily loss circuit breaker", eval.CapReason)
}

// TestEvaluate_CircuitBreakerResetsNextDay tests the day rollover
func TestEvaluate_CircuitBreakerResetsNextDay(t *testing.T) {
	manager := newTestManager(t)
	manager.RecordTradeOutcome(-600, testNow)

	req := testRequest(10000)
	req.Now = testNow.Add(24 * time.Hour)

	eval, err := manager.Evaluate(req)
	require.NoError(t, err)
	assert.Greater(t, eval.PositionSize, 0.0)
}

// TestEvaluate_DrawdownThrottle tests linear risk decay in drawdown
func TestEvaluate_DrawdownThrottle(t *testing.T) {
	manager := newTestManager(t)

	// Establish the peak, then evaluate 10% below it.
	_, err := manager.Evaluate(testRequest(10000))
	require.NoError(t, err)

	eval, err := manager.Evaluate(testRequest(9000))
	require.NoError(t, err)

	// Soft threshold 5%, hard limit 20%: scale = (20-10)/(20-5)
	assert.InDelta(t, 10.0/15.0, eval.DrawdownScale, 1e-9)
	assert.InDelta(t, 0.5*10.0/15.0, eval.RiskPctApplied, 1e-9)
}

// TestEvaluate_MaxDrawdownBlocksRisk tests the zero-risk hard stop
func TestEvaluate_MaxDrawdownBlocksRisk(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.Evaluate(testRequest(10000))
	require.NoError(t, err)

	eval, err := manager.Evaluate(testRequest(8000))
	require.NoError(t, err)

	assert.Equal(t, 0.0, eval.DrawdownScale)
	assert.Equal(t, 0.0, eval.PositionSize)
	assert.True(t, eval.Capped)
	assert.Equal(t, "max drawdown reached", eval.CapReason)
}

// TestEvaluate_CorrelationCapRescales tests the marginal portfolio cap
func TestEvaluate_CorrelationCapRescales(t *testing.T) {
	cfg := config.DefaultRiskConfig()
	cfg.Simulation.Seed = 42
	cfg.Sizing.MaxCorrelatedExposurePct = 0.3
	manager, err := NewManager(cfg)
	require.NoError(t, err)

	req := testRequest(10000)
	req.OpenPositions = map[string]types.OpenPosition{
		"ETHUSDT": {Symbol: "ETHUSDT", RiskPctCommitted: 0.2},
	}
	req.Correlations = types.CorrelationMatrix{
		"BTCUSDT": {"ETHUSDT": 0.9},
	}

	eval, err := manager.Evaluate(req)
	require.NoError(t, err)

	// Effective 0.5% is cut to the 0.1% left in the correlated budget.
	assert.InDelta(t, 0.1, eval.RiskPctApplied, 1e-9)
	assert.True(t, eval.Capped)
	assert.Equal(t, "correlated exposure cap", eval.CapReason)
}

// TestEvaluate_MaxRiskClampSetsCapped tests that the per-trade ceiling
// is recorded as a cap
func TestEvaluate_MaxRiskClampSetsCapped(t *testing.T) {
	manager := newTestManager(t)

	// A loss-free 40-trade ledger simulates zero drawdown, so the
	// budget hits the simulator ceiling of 5%. The unknown-regime
	// multiplier halves it to 2.5%, still above the 2% per-trade cap.
	returns := make([]types.TradeRecord, 40)
	for i := range returns {
		returns[i] = types.TradeRecord{Symbol: "BTCUSDT", EntryPrice: 100, ExitPrice: 101, ReturnPct: 1}
	}
	req := testRequest(10000)
	req.Ledger = returns

	eval, err := manager.Evaluate(req)
	require.NoError(t, err)

	assert.Equal(t, 5.0, eval.Budget.SuggestedRiskPct)
	assert.InDelta(t, 2.0, eval.RiskPctApplied, 1e-9)
	assert.InDelta(t, 0.2, eval.PositionSize, 1e-9)
	assert.True(t, eval.Capped)
	assert.Equal(t, "risk clamped at max risk pct", eval.CapReason)
}

// TestEvaluate_DegenerateStopPropagates tests the error path
func TestEvaluate_DegenerateStopPropagates(t *testing.T) {
	manager := newTestManager(t)

	req := testRequest(10000)
	req.StopLossPrice = req.EntryPrice

	_, err := manager.Evaluate(req)
	require.Error(t, err)
	assert.True(t, engineerrors.IsDegenerateStop(err))
}

// TestEvaluate_RejectsNonPositiveBalance tests input validation
func TestEvaluate_RejectsNonPositiveBalance(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.Evaluate(testRequest(0))
	require.Error(t, err)
	assert.True(t, engineerrors.IsInvalidConfiguration(err))
}

// TestDayTracker_Accumulates tests PnL accumulation within one day
func TestDayTracker_Accumulates(t *testing.T) {
	tracker := NewDayTracker(testNow)
	tracker.AddRealizedPnL(-100)
	tracker.AddRealizedPnL(40)

	assert.InDelta(t, -60.0, tracker.RealizedPnL(), 1e-9)
}

// TestDayTracker_Rollover tests the UTC day boundary reset
func TestDayTracker_Rollover(t *testing.T) {
	tracker := NewDayTracker(testNow)
	tracker.AddRealizedPnL(-100)

	// Same day: nothing changes.
	tracker.RolloverIfNeeded(testNow.Add(time.Hour))
	assert.InDelta(t, -100.0, tracker.RealizedPnL(), 1e-9)

	// Next UTC day: the accumulator resets.
	tracker.RolloverIfNeeded(testNow.Add(24 * time.Hour))
	assert.Equal(t, 0.0, tracker.RealizedPnL())
}

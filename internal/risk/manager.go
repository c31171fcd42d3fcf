// Package risk orchestrates regime detection, drawdown simulation and
// position sizing into a single pre-trade evaluation with account
// level circuit breakers layered on top.
package risk

import (
	"strings"
	"sync"
	"time"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/internal/logger"
	"github.com/minhtran-quant/crypto-risk-engine/internal/monitoring"
	"github.com/minhtran-quant/crypto-risk-engine/internal/regime"
	"github.com/minhtran-quant/crypto-risk-engine/internal/simulation"
	"github.com/minhtran-quant/crypto-risk-engine/internal/sizing"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// EvaluateRequest carries everything one pre-trade evaluation needs.
// All history (candles, ledger, open positions) is supplied by the
// caller; the manager holds no market state of its own.
type EvaluateRequest struct {
	Symbol         string
	EntryPrice     float64
	StopLossPrice  float64
	AccountBalance float64
	Leverage       float64
	ATR            float64

	Candles       []types.OHLCV
	Ledger        []types.TradeRecord
	OpenPositions map[string]types.OpenPosition
	Correlations  types.CorrelationMatrix
	Streak        *sizing.StreakState

	// Now anchors day rollover; zero means the current time.
	Now time.Time
}

// Evaluation is the manager's verdict on one trade candidate. A zero
// PositionSize with Capped set means the trade is refused, not an
// error.
type Evaluation struct {
	Symbol string `json:"symbol"`
	types.SizingResult

	Regime        regime.Classification `json:"regime"`
	Budget        types.RiskBudget      `json:"budget"`
	DrawdownScale float64               `json:"drawdown_scale"`
}

// Manager wires the detector, simulator, sizing strategy and portfolio
// allocator behind one Evaluate call.
type Manager struct {
	cfg       *config.RiskConfig
	detector  *regime.Detector
	simulator *simulation.Simulator
	strategy  sizing.Strategy
	allocator *sizing.PortfolioAllocator
	day       *DayTracker
	log       *logger.Logger

	mu          sync.Mutex
	peakBalance float64
}

// NewManager builds a manager from the configuration tree. A nil
// config uses defaults.
func NewManager(cfg *config.RiskConfig) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultRiskConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	detector, err := regime.NewDetector(cfg.Regime)
	if err != nil {
		return nil, err
	}
	simulator, err := simulation.NewSimulator(cfg.Simulation)
	if err != nil {
		return nil, err
	}
	strategy, err := sizing.NewStrategy(cfg.Sizing)
	if err != nil {
		return nil, err
	}
	allocator, err := sizing.NewPortfolioAllocator(cfg.Sizing)
	if err != nil {
		return nil, err
	}
	return &Manager{
		cfg:       cfg,
		detector:  detector,
		simulator: simulator,
		strategy:  strategy,
		allocator: allocator,
		day:       NewDayTracker(time.Now()),
	}, nil
}

// SetLogger attaches a logger to the manager and its simulator.
func (m *Manager) SetLogger(log *logger.Logger) {
	m.log = log
	m.simulator.SetLogger(log)
}

// Detector exposes the regime detector for diagnostic callers.
func (m *Manager) Detector() *regime.Detector { return m.detector }

// Simulator exposes the drawdown simulator for diagnostic callers.
func (m *Manager) Simulator() *simulation.Simulator { return m.simulator }

// RecordTradeOutcome feeds a closed trade's realized PnL into the
// daily circuit breaker. Losses are negative, in account currency.
func (m *Manager) RecordTradeOutcome(realizedPnL float64, now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	m.day.RolloverIfNeeded(now)
	m.day.AddRealizedPnL(realizedPnL)
}

// Evaluate runs the full pre-trade pipeline: day rollover, daily-loss
// circuit breaker, regime classification, simulated risk budget,
// drawdown throttle, portfolio caps and finally the sizing strategy.
func (m *Manager) Evaluate(req EvaluateRequest) (Evaluation, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	m.day.RolloverIfNeeded(now)

	if req.AccountBalance <= 0 {
		return Evaluation{}, engineerrors.NewInvalidConfigurationError("risk",
			"account balance must be positive")
	}

	eval := Evaluation{Symbol: req.Symbol}

	// Circuit breaker: once the day's realized losses reach the limit,
	// no new risk until rollover.
	if loss := -m.day.RealizedPnL(); loss >= req.AccountBalance*m.cfg.MaxDailyLossPct/100 {
		eval.Capped = true
		eval.CapReason = "daily loss circuit breaker"
		if m.log != nil {
			m.log.Warning("evaluate %s: daily loss %.2f tripped the circuit breaker", req.Symbol, loss)
		}
		monitoring.RecordEvaluation(req.Symbol, true, eval.CapReason, 0)
		return eval, nil
	}

	eval.Regime = m.detector.Classify(req.Candles)
	monitoring.UpdateRegime(eval.Regime.Regime.String(), eval.Regime.Confidence)

	eval.Budget = m.simulator.SuggestRisk(req.Ledger, m.cfg.DefaultRiskPct)
	monitoring.UpdateSuggestedRisk(eval.Budget.SuggestedRiskPct)

	effective := eval.Budget.SuggestedRiskPct * eval.Regime.RiskMultiplier
	clampReason := ""
	if effective < m.cfg.MinRiskPct {
		effective = m.cfg.MinRiskPct
	}
	if effective > m.cfg.MaxRiskPct {
		effective = m.cfg.MaxRiskPct
		clampReason = "risk clamped at max risk pct"
	}

	eval.DrawdownScale = m.drawdownScale(req.AccountBalance)
	effective *= eval.DrawdownScale
	if effective <= 0 {
		eval.Capped = true
		eval.CapReason = "max drawdown reached"
		monitoring.RecordEvaluation(req.Symbol, true, eval.CapReason, 0)
		return eval, nil
	}

	allowed, capReason := m.allocator.CapMarginal(req.Symbol, effective, req.OpenPositions, req.Correlations)
	if allowed <= 0 {
		eval.Capped = true
		eval.CapReason = capReason
		monitoring.RecordEvaluation(req.Symbol, true, capReason, 0)
		return eval, nil
	}

	res, err := m.strategy.Size(sizing.Request{
		Symbol:         req.Symbol,
		EntryPrice:     req.EntryPrice,
		StopLossPrice:  req.StopLossPrice,
		AccountBalance: req.AccountBalance,
		RiskPct:        allowed,
		Leverage:       req.Leverage,
		ATR:            req.ATR,
		Ledger:         req.Ledger,
		Streak:         req.Streak,
	})
	if err != nil {
		if m.log != nil {
			m.log.Error("evaluate %s: sizing failed: %v", req.Symbol, err)
		}
		return Evaluation{}, err
	}

	eval.PositionSize = res.Quantity
	eval.RiskPctApplied = res.RiskPctApplied

	// Every cap that bit is preserved, outermost first.
	var reasons []string
	if clampReason != "" {
		reasons = append(reasons, clampReason)
	}
	if allowed < effective && capReason != "" {
		reasons = append(reasons, capReason)
	}
	if res.CapReason != "" {
		reasons = append(reasons, res.CapReason)
	}
	eval.Capped = res.Capped || len(reasons) > 0
	eval.CapReason = strings.Join(reasons, "; ")

	monitoring.RecordEvaluation(req.Symbol, eval.Capped, eval.CapReason, eval.RiskPctApplied)
	return eval, nil
}

// drawdownScale implements the account drawdown throttle. Full risk up
// to the soft threshold, scaling linearly to zero at the hard limit.
// The peak balance is tracked across calls.
func (m *Manager) drawdownScale(balance float64) float64 {
	m.mu.Lock()
	if balance > m.peakBalance {
		m.peakBalance = balance
	}
	peak := m.peakBalance
	m.mu.Unlock()

	if peak <= 0 {
		return 1
	}
	drawdownPct := (peak - balance) / peak * 100
	switch {
	case drawdownPct <= m.cfg.DrawdownSoftThresholdPct:
		return 1
	case drawdownPct >= m.cfg.MaxDrawdownPct:
		return 0
	default:
		return (m.cfg.MaxDrawdownPct - drawdownPct) / (m.cfg.MaxDrawdownPct - m.cfg.DrawdownSoftThresholdPct)
	}
}

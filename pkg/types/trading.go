package types

import "time"

// PositionSide identifies the direction of an open position.
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// TradeRecord is one closed trade as reported by the execution layer.
// The ledger of trade records is ordered chronologically and consumed
// read-only by the risk engine.
type TradeRecord struct {
	Symbol     string    `json:"symbol"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	ReturnPct  float64   `json:"return_pct"` // realized return in percent

	// Optional tags recorded by the execution layer.
	MarketRegime string `json:"market_regime,omitempty"`
	SetupType    string `json:"setup_type,omitempty"`
}

// OpenPosition is a read-only snapshot of a live position. The caller
// owns the position book; the risk engine only reads committed risk
// and correlation exposure from it.
type OpenPosition struct {
	Symbol           string       `json:"symbol"`
	Side             PositionSide `json:"side"`
	Quantity         float64      `json:"quantity"`
	EntryPrice       float64      `json:"entry_price"`
	RiskPctCommitted float64      `json:"risk_pct_committed"`
}

// CorrelationMatrix maps symbol pairs to their return correlation in
// [-1, 1]. The matrix may be partial; missing pairs are treated as
// uncorrelated and the diagonal is always 1.
type CorrelationMatrix map[string]map[string]float64

// Correlation returns the correlation between two symbols, checking
// both orientations of the pair.
func (m CorrelationMatrix) Correlation(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if row, ok := m[a]; ok {
		if c, ok := row[b]; ok {
			return c
		}
	}
	if row, ok := m[b]; ok {
		if c, ok := row[a]; ok {
			return c
		}
	}
	return 0.0
}

// RiskBudget is the simulator's suggestion for per-trade risk, derived
// from the trade ledger at call time.
type RiskBudget struct {
	SuggestedRiskPct    float64         `json:"suggested_risk_pct"`
	ConfidenceLevel     float64         `json:"confidence_level"`
	SimulatedVaR        float64         `json:"simulated_var"` // drawdown pct at the confidence level
	DrawdownPercentiles map[int]float64 `json:"drawdown_percentiles,omitempty"`
}

// SizingResult is the externally meaningful output of a risk
// evaluation: a concrete position size plus how it was constrained.
type SizingResult struct {
	PositionSize   float64 `json:"position_size"`
	RiskPctApplied float64 `json:"risk_pct_applied"`
	Capped         bool    `json:"capped"`
	CapReason      string  `json:"cap_reason,omitempty"`
}

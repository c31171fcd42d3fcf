// Package sizing converts a risk percentage and entry/stop prices into
// a concrete trade quantity using one of several competing strategies.
// Strategies are selected by configuration through the factory; all of
// them share the same base risk computation.
package sizing

import (
	"math"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// Request carries the inputs of a single sizing call. The ledger and
// streak state are only read by the adaptive strategies.
type Request struct {
	Symbol         string
	EntryPrice     float64
	StopLossPrice  float64
	AccountBalance float64
	RiskPct        float64 // percent of balance to risk
	Leverage       float64 // zero is treated as 1

	// ATR is the optional volatility measure the volatility-scaled
	// strategy substitutes for an explicit stop distance.
	ATR float64

	// Optional Kelly inputs; when zero they are derived from the
	// ledger's trailing trades instead.
	WinRate     float64
	PayoffRatio float64

	// Read-only trade ledger for the adaptive strategies.
	Ledger []types.TradeRecord

	// Streak state for the anti-martingale strategy. Nil means a
	// fresh streak at one unit.
	Streak *StreakState
}

// Result is the outcome of one sizing call.
type Result struct {
	Quantity       float64
	RiskPctApplied float64
	Capped         bool
	CapReason      string
}

// Strategy sizes a single order.
type Strategy interface {
	Name() string
	Size(req Request) (Result, error)
}

// validatePrices enforces the sizing contract: positive prices and a
// non-zero stop distance. Violations are surfaced, never clamped.
func validatePrices(entry, stop float64) error {
	if entry <= 0 || stop <= 0 || entry == stop {
		return engineerrors.NewDegenerateStopError("sizing", entry, stop)
	}
	return nil
}

// baseQuantity applies the shared base computation:
//
//	riskAmount   = balance * riskPct/100
//	stopFraction = |entry - stop| / entry
//	quantity     = riskAmount / (entry * stopFraction) * leverage
func baseQuantity(req Request, riskPct float64) (float64, error) {
	if err := validatePrices(req.EntryPrice, req.StopLossPrice); err != nil {
		return 0, err
	}
	stopFraction := math.Abs(req.EntryPrice-req.StopLossPrice) / req.EntryPrice
	return quantityFor(req, riskPct, stopFraction), nil
}

// quantityFor sizes a quantity from an already-resolved stop fraction
func quantityFor(req Request, riskPct, stopFraction float64) float64 {
	if stopFraction <= 0 || req.EntryPrice <= 0 {
		return 0
	}
	leverage := req.Leverage
	if leverage <= 0 {
		leverage = 1
	}
	riskAmount := req.AccountBalance * riskPct / 100
	return riskAmount / (req.EntryPrice * stopFraction) * leverage
}

package config

import (
	"fmt"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
)

// Supported sizing strategy names.
const (
	StrategyFixed      = "fixed"
	StrategyVolatility = "volatility"
	StrategyKelly      = "kelly"
	StrategyStreak     = "streak"
	StrategyBlended    = "blended"
)

// SizingConfig holds configuration for the position sizing strategies
// and the portfolio-level exposure caps.
type SizingConfig struct {
	Strategy string `json:"strategy"` // One of fixed, volatility, kelly, streak, blended

	// Fixed strategy: optional fixed notional, capped at the account
	// balance. Zero sizes from the risk percentage instead.
	FixedNotional float64 `json:"fixed_notional"`

	// Volatility strategy: stop distance substituted by ATR x multiplier.
	ATRMultiplier float64 `json:"atr_multiplier"`

	// Kelly strategy.
	KellyFraction  float64 `json:"kelly_fraction"`   // Fractional Kelly, e.g. 0.5 for half-Kelly
	KellyLookback  int     `json:"kelly_lookback"`   // Trailing trades for win rate / payoff
	MinKellyTrades int     `json:"min_kelly_trades"` // Ledger size required before Kelly stats apply

	// Streak-adaptive (anti-martingale) strategy.
	IncreaseFactor float64 `json:"increase_factor"` // Unit multiplier growth per win
	MaxUnits       float64 `json:"max_units"`       // Cap on the unit multiplier

	// Blended (pythagorean) strategy.
	BlendLookback int `json:"blend_lookback"` // Trailing trades for win rate x profit factor

	// Per-trade and portfolio caps.
	MaxRiskPct               float64 `json:"max_risk_pct"`
	MaxSymbolRiskPct         float64 `json:"max_symbol_risk_pct"`
	MaxPortfolioRiskPct      float64 `json:"max_portfolio_risk_pct"`
	MaxCorrelatedExposurePct float64 `json:"max_correlated_exposure_pct"`
	CorrelationThreshold     float64 `json:"correlation_threshold"` // Pairwise correlation marking a correlated group
}

// DefaultSizingConfig creates the default sizing configuration
func DefaultSizingConfig() *SizingConfig {
	return &SizingConfig{
		Strategy:                 StrategyFixed,
		FixedNotional:            0,
		ATRMultiplier:            2.0,
		KellyFraction:            0.5,
		KellyLookback:            50,
		MinKellyTrades:           10,
		IncreaseFactor:           1.5,
		MaxUnits:                 4.0,
		BlendLookback:            50,
		MaxRiskPct:               2.0,
		MaxSymbolRiskPct:         3.0,
		MaxPortfolioRiskPct:      10.0,
		MaxCorrelatedExposurePct: 6.0,
		CorrelationThreshold:     0.7,
	}
}

// Validate validates the sizing configuration
func (c *SizingConfig) Validate() error {
	switch c.Strategy {
	case StrategyFixed, StrategyVolatility, StrategyKelly, StrategyStreak, StrategyBlended:
	default:
		return engineerrors.NewInvalidConfigurationError("sizing",
			fmt.Sprintf("unknown sizing strategy %q", c.Strategy))
	}
	if c.FixedNotional < 0 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"fixed notional cannot be negative")
	}
	if c.ATRMultiplier <= 0 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"ATR multiplier must be positive")
	}
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"kelly fraction must lie inside (0, 1]")
	}
	if c.KellyLookback < 1 || c.MinKellyTrades < 1 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"kelly lookback and min kelly trades must be positive")
	}
	if c.IncreaseFactor < 1 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"increase factor must be at least 1")
	}
	if c.MaxUnits < 1 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"max units must be at least 1")
	}
	if c.BlendLookback < 1 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"blend lookback must be positive")
	}
	if c.MaxRiskPct <= 0 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"max risk pct must be positive")
	}
	if c.MaxSymbolRiskPct <= 0 || c.MaxPortfolioRiskPct <= 0 || c.MaxCorrelatedExposurePct <= 0 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"portfolio risk caps must be positive")
	}
	if c.MaxSymbolRiskPct > c.MaxPortfolioRiskPct {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"max symbol risk cannot exceed max portfolio risk")
	}
	if c.CorrelationThreshold < 0 || c.CorrelationThreshold >= 1 {
		return engineerrors.NewInvalidConfigurationError("sizing",
			"correlation threshold must lie inside [0, 1)")
	}
	return nil
}

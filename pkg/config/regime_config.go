package config

import (
	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
)

// RegimeConfig holds configuration for market regime detection.
//
// The score thresholds below are hand-tuned defaults, not derived
// constants. Treat them as tunable configuration.
type RegimeConfig struct {
	LookbackPeriods     int `json:"lookback_periods"`      // Candle window for classification (default: 60)
	MaxRSLag            int `json:"max_rs_lag"`            // Largest lag for rescaled-range analysis (default: 20)
	FractalMaxK         int `json:"fractal_max_k"`         // Largest k for Higuchi path lengths (default: 10)
	TrendStrengthPeriod int `json:"trend_strength_period"` // Smoothing period for directional movement (default: 14)
	ATRPeriod           int `json:"atr_period"`            // Period for the volatility ratio (default: 14)

	HurstTrendThreshold      float64 `json:"hurst_trend_threshold"`      // H above this signals persistence (default: 0.6)
	HurstChopThreshold       float64 `json:"hurst_chop_threshold"`       // H below this signals mean reversion (default: 0.4)
	TrendStrengthThreshold   float64 `json:"trend_strength_threshold"`   // 0-100 directional strength cutoff (default: 25)
	FractalTrendThreshold    float64 `json:"fractal_trend_threshold"`    // Dimension below this reads as smooth (default: 1.4)
	FractalChopThreshold     float64 `json:"fractal_chop_threshold"`     // Dimension above this reads as rough (default: 1.6)
	HighVolatilityRatio      float64 `json:"high_volatility_ratio"`      // ATR as % of price marking high vol (default: 3.0)
	LowVolatilityRatio       float64 `json:"low_volatility_ratio"`       // ATR as % of price marking quiet markets (default: 0.8)
	VolatilityShiftThreshold float64 `json:"volatility_shift_threshold"` // Recent/earlier stddev ratio for expansion (default: 1.5)
	ExcessKurtosisThreshold  float64 `json:"excess_kurtosis_threshold"`  // Fat-tail cutoff on excess kurtosis (default: 1.0)

	HistoryLimit int `json:"history_limit"` // Bounded diagnostic history size (default: 100)
}

// DefaultRegimeConfig creates the default regime detection configuration
func DefaultRegimeConfig() *RegimeConfig {
	return &RegimeConfig{
		LookbackPeriods:          60,
		MaxRSLag:                 20,
		FractalMaxK:              10,
		TrendStrengthPeriod:      14,
		ATRPeriod:                14,
		HurstTrendThreshold:      0.6,
		HurstChopThreshold:       0.4,
		TrendStrengthThreshold:   25.0,
		FractalTrendThreshold:    1.4,
		FractalChopThreshold:     1.6,
		HighVolatilityRatio:      3.0,
		LowVolatilityRatio:       0.8,
		VolatilityShiftThreshold: 1.5,
		ExcessKurtosisThreshold:  1.0,
		HistoryLimit:             100,
	}
}

// Validate validates the regime detection configuration
func (c *RegimeConfig) Validate() error {
	if c.LookbackPeriods < 20 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"lookback periods must be at least 20")
	}
	if c.MaxRSLag < 4 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"max rescaled-range lag must be at least 4")
	}
	if c.FractalMaxK < 2 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"fractal max k must be at least 2")
	}
	if c.TrendStrengthPeriod < 2 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"trend strength period must be at least 2")
	}
	if c.ATRPeriod < 2 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"ATR period must be at least 2")
	}
	if c.HurstChopThreshold >= c.HurstTrendThreshold {
		return engineerrors.NewInvalidConfigurationError("regime",
			"hurst chop threshold must be below hurst trend threshold")
	}
	if c.HurstChopThreshold <= 0 || c.HurstTrendThreshold >= 1 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"hurst thresholds must lie inside (0, 1)")
	}
	if c.FractalTrendThreshold >= c.FractalChopThreshold {
		return engineerrors.NewInvalidConfigurationError("regime",
			"fractal trend threshold must be below fractal chop threshold")
	}
	if c.LowVolatilityRatio >= c.HighVolatilityRatio {
		return engineerrors.NewInvalidConfigurationError("regime",
			"low volatility ratio must be below high volatility ratio")
	}
	if c.TrendStrengthThreshold <= 0 || c.TrendStrengthThreshold >= 100 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"trend strength threshold must lie inside (0, 100)")
	}
	if c.HistoryLimit < 0 {
		return engineerrors.NewInvalidConfigurationError("regime",
			"history limit cannot be negative")
	}
	return nil
}

package config

import (
	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
)

// RiskConfig is the top-level configuration of the risk engine. It
// nests the per-component configurations the same way the engine nests
// its components.
type RiskConfig struct {
	// Per-trade risk bounds applied after the regime multiplier.
	MinRiskPct float64 `json:"min_risk_pct"`
	MaxRiskPct float64 `json:"max_risk_pct"`

	// DefaultRiskPct is the baseline fed into the drawdown simulator.
	DefaultRiskPct float64 `json:"default_risk_pct"`

	// Daily circuit breaker: no new risk once realized daily losses
	// exceed this fraction of the account.
	MaxDailyLossPct float64 `json:"max_daily_loss_pct"`

	// Drawdown throttle: risk scales from 1.0 at the soft threshold
	// down to 0.0 at MaxDrawdownPct.
	DrawdownSoftThresholdPct float64 `json:"drawdown_soft_threshold_pct"`
	MaxDrawdownPct           float64 `json:"max_drawdown_pct"`

	Regime     *RegimeConfig     `json:"regime"`
	Simulation *SimulationConfig `json:"simulation"`
	Sizing     *SizingConfig     `json:"sizing"`
}

// DefaultRiskConfig creates the default engine configuration
func DefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		MinRiskPct:               0.1,
		MaxRiskPct:               2.0,
		DefaultRiskPct:           1.0,
		MaxDailyLossPct:          5.0,
		DrawdownSoftThresholdPct: 5.0,
		MaxDrawdownPct:           20.0,
		Regime:                   DefaultRegimeConfig(),
		Simulation:               DefaultSimulationConfig(),
		Sizing:                   DefaultSizingConfig(),
	}
}

// Validate validates the whole configuration tree
func (c *RiskConfig) Validate() error {
	if c.MinRiskPct <= 0 || c.MinRiskPct > c.MaxRiskPct {
		return engineerrors.NewInvalidConfigurationError("risk",
			"min risk pct must be positive and no greater than max risk pct")
	}
	if c.DefaultRiskPct < c.MinRiskPct || c.DefaultRiskPct > c.MaxRiskPct {
		return engineerrors.NewInvalidConfigurationError("risk",
			"default risk pct must lie inside [min_risk_pct, max_risk_pct]")
	}
	if c.MaxDailyLossPct <= 0 || c.MaxDailyLossPct >= 100 {
		return engineerrors.NewInvalidConfigurationError("risk",
			"max daily loss pct must lie inside (0, 100)")
	}
	if c.DrawdownSoftThresholdPct <= 0 || c.DrawdownSoftThresholdPct >= c.MaxDrawdownPct {
		return engineerrors.NewInvalidConfigurationError("risk",
			"drawdown soft threshold must be positive and below max drawdown")
	}
	if c.MaxDrawdownPct >= 100 {
		return engineerrors.NewInvalidConfigurationError("risk",
			"max drawdown pct must be below 100")
	}
	if c.Regime == nil || c.Simulation == nil || c.Sizing == nil {
		return engineerrors.NewInvalidConfigurationError("risk",
			"regime, simulation and sizing sections are required")
	}
	if err := c.Regime.Validate(); err != nil {
		return err
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	return c.Sizing.Validate()
}

package config

import (
	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
)

// SimulationConfig holds configuration for the resampling drawdown
// simulator.
type SimulationConfig struct {
	ConfidenceLevel          float64 `json:"confidence_level"`            // Drawdown quantile used as VaR (default: 0.95)
	NumSimulations           int     `json:"num_simulations"`             // Synthetic equity curves per run (default: 1000)
	SequenceLength           int     `json:"sequence_length"`             // Trades drawn per synthetic curve (default: 20)
	MaxAcceptableDrawdownPct float64 `json:"max_acceptable_drawdown_pct"` // Drawdown the risk budget must stay within (default: 20.0)
	MinRiskPct               float64 `json:"min_risk_pct"`                // Floor on the suggested risk (default: 0.1)
	MaxRiskPct               float64 `json:"max_risk_pct"`                // Ceiling on the suggested risk (default: 5.0)
	MinLedgerSize            int     `json:"min_ledger_size"`             // Trades required before resampling (default: 30)

	// RecencyWindow restricts resampling to the most recent N trades.
	// Zero draws uniformly from the whole ledger.
	RecencyWindow int `json:"recency_window"`

	Seed    int64 `json:"seed"`    // Zero seeds from the clock; set for reproducible runs
	Workers int   `json:"workers"` // Parallel simulation workers, zero = NumCPU
}

// DefaultSimulationConfig creates the default simulator configuration
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		ConfidenceLevel:          0.95,
		NumSimulations:           1000,
		SequenceLength:           20,
		MaxAcceptableDrawdownPct: 20.0,
		MinRiskPct:               0.1,
		MaxRiskPct:               5.0,
		MinLedgerSize:            30,
		RecencyWindow:            0,
		Seed:                     0,
		Workers:                  0,
	}
}

// Validate validates the simulator configuration
func (c *SimulationConfig) Validate() error {
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"confidence level must lie inside (0, 1)")
	}
	if c.NumSimulations <= 0 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"number of simulations must be positive")
	}
	if c.SequenceLength <= 0 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"sequence length must be positive")
	}
	if c.MaxAcceptableDrawdownPct <= 0 || c.MaxAcceptableDrawdownPct >= 100 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"max acceptable drawdown must lie inside (0, 100)")
	}
	if c.MinRiskPct <= 0 || c.MinRiskPct > c.MaxRiskPct {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"min risk pct must be positive and no greater than max risk pct")
	}
	if c.MinLedgerSize < 2 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"min ledger size must be at least 2")
	}
	if c.RecencyWindow < 0 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"recency window cannot be negative")
	}
	if c.Workers < 0 {
		return engineerrors.NewInvalidConfigurationError("simulation",
			"workers cannot be negative")
	}
	return nil
}

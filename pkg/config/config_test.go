package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
)

// TestDefaultRiskConfig_Valid tests that the shipped defaults validate
func TestDefaultRiskConfig_Valid(t *testing.T) {
	assert.NoError(t, DefaultRiskConfig().Validate())
	assert.NoError(t, DefaultRegimeConfig().Validate())
	assert.NoError(t, DefaultSimulationConfig().Validate())
	assert.NoError(t, DefaultSizingConfig().Validate())
}

// TestRiskConfig_Validate tests top-level validation rules
func TestRiskConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RiskConfig)
	}{
		{"min above max", func(c *RiskConfig) { c.MinRiskPct = 3.0 }},
		{"default outside bounds", func(c *RiskConfig) { c.DefaultRiskPct = 5.0 }},
		{"daily loss at 100", func(c *RiskConfig) { c.MaxDailyLossPct = 100 }},
		{"soft threshold above hard", func(c *RiskConfig) { c.DrawdownSoftThresholdPct = 25 }},
		{"missing simulation section", func(c *RiskConfig) { c.Simulation = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRiskConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, engineerrors.IsInvalidConfiguration(err))
		})
	}
}

// TestSimulationConfig_Validate tests the confidence level bounds
func TestSimulationConfig_Validate(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.ConfidenceLevel = 1.0
	assert.Error(t, cfg.Validate())

	cfg = DefaultSimulationConfig()
	cfg.ConfidenceLevel = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultSimulationConfig()
	cfg.NumSimulations = 0
	assert.Error(t, cfg.Validate())
}

// TestManager_LoadDefaults tests loading without a config file
func TestManager_LoadDefaults(t *testing.T) {
	cfg, err := NewManager().Load("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.DefaultRiskPct)
	assert.Equal(t, StrategyFixed, cfg.Sizing.Strategy)
}

// TestManager_LoadFile tests the JSON file merge
func TestManager_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.json")
	payload := `{
		"max_risk_pct": 1.5,
		"simulation": {
			"confidence_level": 0.99,
			"num_simulations": 500,
			"sequence_length": 20,
			"max_acceptable_drawdown_pct": 20,
			"min_risk_pct": 0.1,
			"max_risk_pct": 5,
			"min_ledger_size": 30
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	cfg, err := NewManager().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.MaxRiskPct)
	assert.Equal(t, 0.99, cfg.Simulation.ConfidenceLevel)
	assert.Equal(t, 500, cfg.Simulation.NumSimulations)
}

// TestManager_MissingFile tests the error on a bad path
func TestManager_MissingFile(t *testing.T) {
	_, err := NewManager().Load("/nonexistent/risk.json")
	assert.Error(t, err)
}

// TestManager_EnvOverrides tests environment variable precedence
func TestManager_EnvOverrides(t *testing.T) {
	t.Setenv("RISK_MAX_RISK_PCT", "1.8")
	t.Setenv("SIM_SEED", "1234")
	t.Setenv("SIZING_STRATEGY", StrategyKelly)

	cfg, err := NewManager().Load("")
	require.NoError(t, err)
	assert.Equal(t, 1.8, cfg.MaxRiskPct)
	assert.Equal(t, int64(1234), cfg.Simulation.Seed)
	assert.Equal(t, StrategyKelly, cfg.Sizing.Strategy)
}

// TestManager_InvalidOverrideRejected tests post-merge validation
func TestManager_InvalidOverrideRejected(t *testing.T) {
	t.Setenv("SIZING_STRATEGY", "martingale")

	_, err := NewManager().Load("")
	require.Error(t, err)
	assert.True(t, engineerrors.IsInvalidConfiguration(err))
}

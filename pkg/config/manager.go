package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Manager loads risk engine configuration from defaults, an optional
// JSON file and environment overrides, in that order.
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// Load builds a validated RiskConfig. configFile may be empty, in
// which case defaults plus environment overrides are used.
func (m *Manager) Load(configFile string) (*RiskConfig, error) {
	// Best-effort .env loading; a missing file is not an error.
	_ = godotenv.Load()

	cfg := DefaultRiskConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	m.applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile merges a JSON configuration file over the defaults
func (m *Manager) loadFromFile(configFile string, cfg *RiskConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", configFile, err)
	}
	return nil
}

// applyEnvOverrides applies RISK_* / SIM_* / SIZING_* environment
// variables on top of the loaded configuration.
func (m *Manager) applyEnvOverrides(cfg *RiskConfig) {
	if v, ok := envFloat("RISK_MAX_RISK_PCT"); ok {
		cfg.MaxRiskPct = v
	}
	if v, ok := envFloat("RISK_MIN_RISK_PCT"); ok {
		cfg.MinRiskPct = v
	}
	if v, ok := envFloat("RISK_DEFAULT_RISK_PCT"); ok {
		cfg.DefaultRiskPct = v
	}
	if v, ok := envFloat("RISK_MAX_DAILY_LOSS_PCT"); ok {
		cfg.MaxDailyLossPct = v
	}
	if v, ok := envFloat("RISK_MAX_DRAWDOWN_PCT"); ok {
		cfg.MaxDrawdownPct = v
	}
	if v, ok := envInt("SIM_NUM_SIMULATIONS"); ok {
		cfg.Simulation.NumSimulations = v
	}
	if v, ok := envFloat("SIM_CONFIDENCE_LEVEL"); ok {
		cfg.Simulation.ConfidenceLevel = v
	}
	if v, ok := envInt("SIM_SEQUENCE_LENGTH"); ok {
		cfg.Simulation.SequenceLength = v
	}
	if v, ok := envInt64("SIM_SEED"); ok {
		cfg.Simulation.Seed = v
	}
	if v := os.Getenv("SIZING_STRATEGY"); v != "" {
		cfg.Sizing.Strategy = v
	}
	if v, ok := envFloat("SIZING_KELLY_FRACTION"); ok {
		cfg.Sizing.KellyFraction = v
	}
	if v, ok := envInt("REGIME_LOOKBACK_PERIODS"); ok {
		cfg.Regime.LookbackPeriods = v
	}
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envInt64(key string) (int64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Package regime classifies a rolling candle window into one of five
// behavioral market regimes using fractal and statistical features.
package regime

import (
	"math"
	"sync"
	"time"

	"github.com/minhtran-quant/crypto-risk-engine/internal/indicators"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// Regime is a discrete label describing current market behavior
type Regime int

const (
	RegimeUnknown Regime = iota
	RegimeTrending
	RegimeRanging
	RegimeVolatile
	RegimeQuiet
	RegimeChoppy
)

func (r Regime) String() string {
	switch r {
	case RegimeTrending:
		return "trending"
	case RegimeRanging:
		return "ranging"
	case RegimeVolatile:
		return "volatile"
	case RegimeQuiet:
		return "quiet"
	case RegimeChoppy:
		return "choppy"
	default:
		return "unknown"
	}
}

// RiskMultiplier maps a regime to the factor applied to the simulated
// risk budget. Hostile regimes earn smaller multipliers.
func (r Regime) RiskMultiplier() float64 {
	switch r {
	case RegimeTrending:
		return 1.0
	case RegimeQuiet:
		return 0.9
	case RegimeRanging:
		return 0.8
	case RegimeChoppy:
		return 0.7
	case RegimeVolatile:
		return 0.6
	default:
		return 0.5
	}
}

// ExitHints are the per-regime reward:risk ratio and trailing-stop
// distance (in ATR multiples) suggested to the execution layer.
// Advisory data only; sizing does not depend on them.
type ExitHints struct {
	RewardRisk      float64 `json:"reward_risk"`
	TrailingStopATR float64 `json:"trailing_stop_atr"`
}

// Hints returns the exit policy suggestion for the regime
func (r Regime) Hints() ExitHints {
	switch r {
	case RegimeTrending:
		return ExitHints{RewardRisk: 2.5, TrailingStopATR: 3.0}
	case RegimeQuiet:
		return ExitHints{RewardRisk: 2.0, TrailingStopATR: 2.5}
	case RegimeRanging:
		return ExitHints{RewardRisk: 1.5, TrailingStopATR: 2.0}
	case RegimeVolatile:
		return ExitHints{RewardRisk: 1.5, TrailingStopATR: 3.5}
	case RegimeChoppy:
		return ExitHints{RewardRisk: 1.2, TrailingStopATR: 1.5}
	default:
		return ExitHints{RewardRisk: 1.5, TrailingStopATR: 2.0}
	}
}

// FeatureSnapshot captures the statistical features a classification
// was scored from.
type FeatureSnapshot struct {
	Hurst            float64 `json:"hurst"`             // persistence, 0.1-0.9
	FractalDimension float64 `json:"fractal_dimension"` // roughness, 1.1-1.9
	TrendStrength    float64 `json:"trend_strength"`    // ADX-style, 0-100
	VolatilityRatio  float64 `json:"volatility_ratio"`  // ATR as % of recent price
	VolatilityShift  float64 `json:"volatility_shift"`  // recent/earlier return stddev
	Skewness         float64 `json:"skewness"`
	ExcessKurtosis   float64 `json:"excess_kurtosis"`
}

// Classification is the result of classifying one candle window. It is
// a pure function of the window: identical input yields an identical
// classification.
type Classification struct {
	Regime         Regime          `json:"regime"`
	Confidence     float64         `json:"confidence"`
	RiskMultiplier float64         `json:"risk_multiplier"`
	Hints          ExitHints       `json:"hints"`
	Features       FeatureSnapshot `json:"features"`
	WindowEnd      time.Time       `json:"window_end"`
}

// Detector classifies candle windows. The bounded diagnostic history
// of past classifications is its only mutable state and is
// mutex-guarded; classification itself reads nothing from it.
type Detector struct {
	cfg *config.RegimeConfig
	atr *indicators.ATR
	adx *indicators.ADX

	mu      sync.Mutex
	history []Classification
}

// NewDetector creates a regime detector. A nil config uses defaults.
func NewDetector(cfg *config.RegimeConfig) (*Detector, error) {
	if cfg == nil {
		cfg = config.DefaultRegimeConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		cfg: cfg,
		atr: indicators.NewATR(cfg.ATRPeriod),
		adx: indicators.NewADX(cfg.TrendStrengthPeriod),
	}, nil
}

// Classify classifies the most recent lookback window of candles.
// Windows shorter than the lookback yield RegimeUnknown with zero
// confidence rather than an error.
func (d *Detector) Classify(candles []types.OHLCV) Classification {
	if len(candles) < d.cfg.LookbackPeriods {
		return d.finish(Classification{Regime: RegimeUnknown}, candles)
	}

	window := candles[len(candles)-d.cfg.LookbackPeriods:]
	features := d.extractFeatures(window)
	scores := scoreRegimes(features, d.cfg)
	winner, confidence := pickRegime(scores)

	return d.finish(Classification{
		Regime:     winner,
		Confidence: confidence,
		Features:   features,
	}, window)
}

// History returns a copy of the bounded diagnostic history, most
// recent last.
func (d *Detector) History() []Classification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Classification, len(d.history))
	copy(out, d.history)
	return out
}

func (d *Detector) finish(c Classification, window []types.OHLCV) Classification {
	c.RiskMultiplier = c.Regime.RiskMultiplier()
	c.Hints = c.Regime.Hints()
	if len(window) > 0 {
		c.WindowEnd = window[len(window)-1].Timestamp
	}
	d.record(c)
	return c
}

func (d *Detector) record(c Classification) {
	if d.cfg.HistoryLimit <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, c)
	if len(d.history) > d.cfg.HistoryLimit {
		d.history = d.history[len(d.history)-d.cfg.HistoryLimit:]
	}
}

// extractFeatures computes the statistical features of a full window
func (d *Detector) extractFeatures(window []types.OHLCV) FeatureSnapshot {
	closes := types.Closes(window)

	maxLag := d.cfg.LookbackPeriods / 2
	if maxLag > d.cfg.MaxRSLag {
		maxLag = d.cfg.MaxRSLag
	}

	features := FeatureSnapshot{
		Hurst:            hurstExponent(closes, maxLag),
		FractalDimension: higuchiDimension(closes, d.cfg.FractalMaxK),
	}

	if strength, err := d.adx.Calculate(window); err == nil {
		features.TrendStrength = strength
	}

	if atrValue, err := d.atr.Calculate(window); err == nil {
		recent := closes
		if len(recent) > d.cfg.ATRPeriod {
			recent = recent[len(recent)-d.cfg.ATRPeriod:]
		}
		if avgPrice := mean(recent); avgPrice > 0 {
			features.VolatilityRatio = atrValue / avgPrice * 100
		}
	}

	returns := simpleReturns(closes)
	features.VolatilityShift = volatilityShift(returns)
	features.Skewness = skewness(returns)
	features.ExcessKurtosis = excessKurtosis(returns)

	return features
}

// volatilityShift is the ratio of the recent-half return standard
// deviation to the earlier-half one. Returns 1.0 when either half is
// flat.
func volatilityShift(returns []float64) float64 {
	if len(returns) < 4 {
		return 1.0
	}
	half := len(returns) / 2
	earlier := stdDev(returns[:half])
	recent := stdDev(returns[half:])
	if earlier <= 0 {
		return 1.0
	}
	return recent / earlier
}

// scoreRegimes applies the weighted rule table to the features. The
// weights are an inspectable heuristic, not a trained model; tune them
// through RegimeConfig.
func scoreRegimes(f FeatureSnapshot, cfg *config.RegimeConfig) map[Regime]float64 {
	scores := make(map[Regime]float64, 5)

	trending := 0.0
	if f.Hurst > cfg.HurstTrendThreshold {
		trending += 2.0
	}
	if f.TrendStrength > cfg.TrendStrengthThreshold {
		trending += 2.0
	}
	if f.FractalDimension < cfg.FractalTrendThreshold {
		trending += 1.0
	}
	scores[RegimeTrending] = trending

	choppy := 0.0
	if f.Hurst < cfg.HurstChopThreshold {
		choppy += 2.0
	}
	if f.FractalDimension > cfg.FractalChopThreshold {
		choppy += 2.0
	}
	if f.TrendStrength < cfg.TrendStrengthThreshold {
		choppy += 0.5
	}
	scores[RegimeChoppy] = choppy

	volatile := 0.0
	if f.VolatilityRatio > cfg.HighVolatilityRatio {
		volatile += 2.0
	}
	if f.ExcessKurtosis > cfg.ExcessKurtosisThreshold {
		volatile += 1.5
	}
	if f.VolatilityShift > cfg.VolatilityShiftThreshold {
		volatile += 1.0
	}
	scores[RegimeVolatile] = volatile

	quiet := 0.0
	if f.VolatilityRatio > 0 && f.VolatilityRatio < cfg.LowVolatilityRatio {
		quiet += 2.0
	}
	if f.VolatilityShift < 1.0 {
		quiet += 0.5
	}
	if math.Abs(f.Skewness) < 0.5 {
		quiet += 0.5
	}
	scores[RegimeQuiet] = quiet

	ranging := 0.0
	if f.Hurst >= cfg.HurstChopThreshold && f.Hurst <= cfg.HurstTrendThreshold {
		ranging += 1.5
	}
	if f.TrendStrength < cfg.TrendStrengthThreshold {
		ranging += 1.0
	}
	if f.FractalDimension >= cfg.FractalTrendThreshold && f.FractalDimension <= cfg.FractalChopThreshold {
		ranging += 0.5
	}
	scores[RegimeRanging] = ranging

	return scores
}

// pickRegime selects the highest scoring regime; confidence is the
// winner's share of the total score. All-zero scores map to unknown.
func pickRegime(scores map[Regime]float64) (Regime, float64) {
	order := []Regime{RegimeTrending, RegimeVolatile, RegimeChoppy, RegimeQuiet, RegimeRanging}

	total := 0.0
	best := RegimeUnknown
	bestScore := 0.0
	for _, r := range order {
		s := scores[r]
		total += s
		if s > bestScore {
			best = r
			bestScore = s
		}
	}
	if total == 0 || bestScore == 0 {
		return RegimeUnknown, 0
	}
	return best, bestScore / total
}

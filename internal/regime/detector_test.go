package regime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

func candlesFromCloses(closes []float64, spread float64) []types.OHLCV {
	data := make([]types.OHLCV, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		data[i] = types.OHLCV{
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    1000,
			Timestamp: start.Add(time.Duration(i) * time.Hour),
		}
	}
	return data
}

// trendingCloses is a steady uptrend with a smooth low-frequency wiggle
func trendingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i) + 2*math.Sin(float64(i)/10)
	}
	return closes
}

// zigzagCloses alternates between two levels every candle
func zigzagCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 103
		}
	}
	return closes
}

// TestHurstExponent_TrendVsZigzag tests persistence ordering of the estimator
func TestHurstExponent_TrendVsZigzag(t *testing.T) {
	trend := hurstExponent(trendingCloses(120), 20)
	zigzag := hurstExponent(zigzagCloses(120), 20)

	assert.Greater(t, trend, 0.5)
	assert.Less(t, zigzag, 0.5)
}

// TestHurstExponent_DegenerateInput tests the random-walk fallback
func TestHurstExponent_DegenerateInput(t *testing.T) {
	assert.Equal(t, 0.5, hurstExponent([]float64{100, 101, 102}, 20))
	assert.Equal(t, 0.5, hurstExponent(nil, 20))

	// Constant closes have zero-variance returns in every block.
	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 100
	}
	assert.Equal(t, 0.5, hurstExponent(flat, 20))
}

// TestHiguchiDimension_SmoothVsRough tests roughness ordering of the estimator
func TestHiguchiDimension_SmoothVsRough(t *testing.T) {
	smooth := higuchiDimension(trendingCloses(120), 10)
	rough := higuchiDimension(zigzagCloses(120), 10)

	assert.Greater(t, rough, smooth)
	assert.GreaterOrEqual(t, smooth, 1.1)
	assert.LessOrEqual(t, rough, 1.9)
}

// TestHiguchiDimension_DegenerateInput tests the midpoint fallback
func TestHiguchiDimension_DegenerateInput(t *testing.T) {
	assert.Equal(t, 1.5, higuchiDimension([]float64{100, 101}, 10))
	assert.Equal(t, 1.5, higuchiDimension([]float64{100, -1, 102, 103, 104, 105, 106}, 10))
}

// TestDetector_InsufficientData tests the unknown fallback on short windows
func TestDetector_InsufficientData(t *testing.T) {
	detector, err := NewDetector(nil)
	require.NoError(t, err)

	c := detector.Classify(candlesFromCloses(trendingCloses(10), 0.5))

	assert.Equal(t, RegimeUnknown, c.Regime)
	assert.Equal(t, 0.0, c.Confidence)
	assert.Equal(t, 0.5, c.RiskMultiplier)
}

// TestDetector_TrendingWindow tests classification of a steady uptrend
func TestDetector_TrendingWindow(t *testing.T) {
	detector, err := NewDetector(nil)
	require.NoError(t, err)

	c := detector.Classify(candlesFromCloses(trendingCloses(120), 0.5))

	assert.Equal(t, RegimeTrending, c.Regime)
	assert.Greater(t, c.Confidence, 0.0)
	assert.LessOrEqual(t, c.Confidence, 1.0)
	assert.Equal(t, 1.0, c.RiskMultiplier)
	assert.Greater(t, c.Features.Hurst, 0.5)
}

// TestDetector_Idempotent tests that identical windows classify identically
func TestDetector_Idempotent(t *testing.T) {
	detector, err := NewDetector(nil)
	require.NoError(t, err)

	window := candlesFromCloses(trendingCloses(120), 0.5)
	first := detector.Classify(window)
	second := detector.Classify(window)

	assert.Equal(t, first.Regime, second.Regime)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Features, second.Features)
	assert.Equal(t, first.WindowEnd, second.WindowEnd)
}

// TestDetector_WindowEndFromCandles tests that the timestamp comes from the data
func TestDetector_WindowEndFromCandles(t *testing.T) {
	detector, err := NewDetector(nil)
	require.NoError(t, err)

	window := candlesFromCloses(trendingCloses(120), 0.5)
	c := detector.Classify(window)

	assert.Equal(t, window[len(window)-1].Timestamp, c.WindowEnd)
}

// TestDetector_HistoryBounded tests the diagnostic history limit
func TestDetector_HistoryBounded(t *testing.T) {
	cfg := config.DefaultRegimeConfig()
	cfg.HistoryLimit = 5
	detector, err := NewDetector(cfg)
	require.NoError(t, err)

	window := candlesFromCloses(trendingCloses(120), 0.5)
	for i := 0; i < 10; i++ {
		detector.Classify(window)
	}

	assert.Len(t, detector.History(), 5)
}

// TestRegime_RiskMultipliers tests the per-regime risk multipliers
func TestRegime_RiskMultipliers(t *testing.T) {
	assert.Equal(t, 1.0, RegimeTrending.RiskMultiplier())
	assert.Equal(t, 0.9, RegimeQuiet.RiskMultiplier())
	assert.Equal(t, 0.8, RegimeRanging.RiskMultiplier())
	assert.Equal(t, 0.7, RegimeChoppy.RiskMultiplier())
	assert.Equal(t, 0.6, RegimeVolatile.RiskMultiplier())
	assert.Equal(t, 0.5, RegimeUnknown.RiskMultiplier())
}

// TestPickRegime_AllZero tests that a zero score table maps to unknown
func TestPickRegime_AllZero(t *testing.T) {
	regime, confidence := pickRegime(map[Regime]float64{})
	assert.Equal(t, RegimeUnknown, regime)
	assert.Equal(t, 0.0, confidence)
}

// TestScoreRegimes_VolatileFeatures tests the volatile rule weights
func TestScoreRegimes_VolatileFeatures(t *testing.T) {
	cfg := config.DefaultRegimeConfig()
	features := FeatureSnapshot{
		Hurst:            0.5,
		FractalDimension: 1.5,
		TrendStrength:    30,
		VolatilityRatio:  5.0, // above HighVolatilityRatio
		VolatilityShift:  2.0, // above VolatilityShiftThreshold
		ExcessKurtosis:   3.0, // above ExcessKurtosisThreshold
	}

	scores := scoreRegimes(features, cfg)
	regime, confidence := pickRegime(scores)

	assert.Equal(t, RegimeVolatile, regime)
	assert.InDelta(t, 4.5, scores[RegimeVolatile], 1e-9)
	assert.Greater(t, confidence, 0.0)
}

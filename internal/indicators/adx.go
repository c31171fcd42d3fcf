package indicators

import (
	"math"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// ADX measures trend strength regardless of direction on a 0-100
// scale. Values above ~25 indicate a trending market, above ~40 a
// strong trend. Like ATR, the computation is a pure function of the
// supplied window.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

// Calculate returns the smoothed directional index of the window
func (a *ADX) Calculate(data []types.OHLCV) (float64, error) {
	minPoints := a.period*2 + 1
	if len(data) < minPoints {
		return 0, engineerrors.NewInsufficientDataError("indicators", "adx", len(data), minPoints)
	}

	trEMA := NewEMA(a.period)
	plusEMA := NewEMA(a.period)
	minusEMA := NewEMA(a.period)
	adxEMA := NewEMA(a.period)

	for i := 1; i < len(data); i++ {
		current := data[i]
		previous := data[i-1]

		tr := TrueRange(current, previous.Close)

		// Directional movement from consecutive high/low deltas.
		plusDM := 0.0
		minusDM := 0.0
		highDiff := current.High - previous.High
		lowDiff := previous.Low - current.Low
		if highDiff > lowDiff && highDiff > 0 {
			plusDM = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			minusDM = lowDiff
		}

		smoothedTR := trEMA.Update(tr)
		smoothedPlus := plusEMA.Update(plusDM)
		smoothedMinus := minusEMA.Update(minusDM)

		// Let the smoothers warm up before reading DX.
		if i < a.period || smoothedTR <= 0 {
			continue
		}

		plusDI := 100 * smoothedPlus / smoothedTR
		minusDI := 100 * smoothedMinus / smoothedTR
		diSum := plusDI + minusDI
		if diSum == 0 {
			continue
		}

		dx := 100 * math.Abs(plusDI-minusDI) / diSum
		adxEMA.Update(dx)
	}

	if !adxEMA.Initialized() {
		return 0, nil
	}
	return adxEMA.Value(), nil
}

// Period returns the smoothing period
func (a *ADX) Period() int {
	return a.period
}

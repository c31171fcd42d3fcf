package indicators

import (
	"math"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// ATR computes the Average True Range over a candle window. The
// calculation is a pure function of the supplied window so repeated
// calls over identical data return identical values.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Calculate returns the EMA-smoothed true range of the window
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period+1 {
		return 0, engineerrors.NewInsufficientDataError("indicators", "atr", len(data), a.period+1)
	}

	ema := NewEMA(a.period)
	for i := range data {
		var tr float64
		if i == 0 {
			tr = data[i].High - data[i].Low
		} else {
			tr = TrueRange(data[i], data[i-1].Close)
		}
		ema.Update(tr)
	}
	return ema.Value(), nil
}

// Period returns the smoothing period
func (a *ATR) Period() int {
	return a.period
}

// TrueRange is max(H-L, |H-prevClose|, |L-prevClose|)
func TrueRange(current types.OHLCV, prevClose float64) float64 {
	hl := current.High - current.Low
	hc := math.Abs(current.High - prevClose)
	lc := math.Abs(current.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

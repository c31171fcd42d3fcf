package indicators

// EMA is an exponential moving average accumulator used for Wilder
// style smoothing inside the window indicators.
type EMA struct {
	period      int
	alpha       float64
	lastValue   float64
	initialized bool
}

// NewEMA creates a new EMA accumulator
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

// Update feeds a single value into the average and returns the new EMA
func (e *EMA) Update(value float64) float64 {
	if !e.initialized {
		e.lastValue = value
		e.initialized = true
	} else {
		e.lastValue = (value * e.alpha) + (e.lastValue * (1 - e.alpha))
	}
	return e.lastValue
}

// Value returns the last computed EMA value
func (e *EMA) Value() float64 {
	return e.lastValue
}

// Initialized reports whether the EMA has seen any data
func (e *EMA) Initialized() bool {
	return e.initialized
}

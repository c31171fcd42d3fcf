package regime

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// skewness is the standardized third moment of the sample
func skewness(values []float64) float64 {
	sd := stdDev(values)
	if sd == 0 || len(values) < 3 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		z := (v - m) / sd
		sum += z * z * z
	}
	return sum / float64(len(values))
}

// excessKurtosis is the standardized fourth moment minus 3, so a
// normal distribution scores 0 and fat tails score positive
func excessKurtosis(values []float64) float64 {
	sd := stdDev(values)
	if sd == 0 || len(values) < 4 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		z := (v - m) / sd
		sum += z * z * z * z
	}
	return sum/float64(len(values)) - 3.0
}

// regressionSlope fits y = a + b*x by least squares and returns b
func regressionSlope(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0
	}
	mx := mean(x)
	my := mean(y)
	var num, den float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		num += dx * (y[i] - my)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// logReturns converts a price series into log returns, skipping
// non-positive prices
func logReturns(prices []float64) []float64 {
	returns := make([]float64, 0, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	return returns
}

// simpleReturns converts a price series into fractional returns
func simpleReturns(prices []float64) []float64 {
	returns := make([]float64, 0, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

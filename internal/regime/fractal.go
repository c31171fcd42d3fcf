package regime

import "math"

// higuchiDimension estimates the fractal dimension of the log-price
// path. Values near 1 describe a smooth, trending path; values near 2
// a rough, space-filling one. Clamped to [1.1, 1.9]; degenerate
// inputs return the midpoint 1.5.
func higuchiDimension(closes []float64, maxK int) float64 {
	n := len(closes)
	if maxK > n/3 {
		maxK = n / 3
	}
	if n < 6 || maxK < 2 {
		return 1.5
	}

	logPrices := make([]float64, 0, n)
	for _, price := range closes {
		if price <= 0 {
			return 1.5
		}
		logPrices = append(logPrices, math.Log(price))
	}

	var logInvK, logLen []float64
	for k := 1; k <= maxK; k++ {
		length := higuchiLength(logPrices, k)
		if length <= 0 {
			continue
		}
		logInvK = append(logInvK, math.Log(1.0/float64(k)))
		logLen = append(logLen, math.Log(length))
	}
	if len(logInvK) < 2 {
		return 1.5
	}

	return clamp(regressionSlope(logInvK, logLen), 1.1, 1.9)
}

// higuchiLength is the normalized curve length at scale k, averaged
// over the k offset sub-series.
func higuchiLength(x []float64, k int) float64 {
	n := len(x)
	total := 0.0
	counted := 0

	for m := 0; m < k; m++ {
		steps := (n - 1 - m) / k
		if steps < 1 {
			continue
		}

		length := 0.0
		for i := 1; i <= steps; i++ {
			length += math.Abs(x[m+i*k] - x[m+(i-1)*k])
		}

		// Higuchi normalization for the truncated sub-series.
		norm := float64(n-1) / (float64(steps) * float64(k))
		total += length * norm / float64(k)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

package regime

import "math"

// hurstExponent estimates trend persistence via rescaled-range
// analysis of the log-return series. H above 0.5 indicates a
// persistent (trending) series, below 0.5 a mean-reverting one.
// The estimate is clamped to [0.1, 0.9]; degenerate inputs return the
// random-walk value 0.5.
func hurstExponent(closes []float64, maxLag int) float64 {
	returns := logReturns(closes)
	if len(returns) < 8 {
		return 0.5
	}
	if maxLag > len(returns)/2 {
		maxLag = len(returns) / 2
	}
	if maxLag < 2 {
		return 0.5
	}

	var logLags, logRS []float64
	for lag := 2; lag <= maxLag; lag++ {
		rs := rescaledRange(returns, lag)
		if rs <= 0 {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logRS = append(logRS, math.Log(rs))
	}
	if len(logLags) < 2 {
		return 0.5
	}

	return clamp(regressionSlope(logLags, logRS), 0.1, 0.9)
}

// rescaledRange averages the R/S statistic over non-overlapping blocks
// of blockLen returns: each block contributes the range of its
// mean-centered cumulative sum divided by its standard deviation.
func rescaledRange(returns []float64, blockLen int) float64 {
	numBlocks := len(returns) / blockLen
	if numBlocks == 0 {
		return 0
	}

	sum := 0.0
	counted := 0
	for b := 0; b < numBlocks; b++ {
		block := returns[b*blockLen : (b+1)*blockLen]
		sd := stdDev(block)
		if sd <= 0 {
			continue
		}

		m := mean(block)
		cum, minCum, maxCum := 0.0, 0.0, 0.0
		for _, r := range block {
			cum += r - m
			if cum < minCum {
				minCum = cum
			}
			if cum > maxCum {
				maxCum = cum
			}
		}

		sum += (maxCum - minCum) / sd
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

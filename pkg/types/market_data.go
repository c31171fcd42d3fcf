package types

import "time"

// OHLCV is a single candle in an ordered, append-only price series.
// A rolling window of the most recent candles is the unit of analysis
// for regime detection.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Closes extracts the closing-price series from a candle window.
func Closes(data []OHLCV) []float64 {
	closes := make([]float64, len(data))
	for i, c := range data {
		closes[i] = c.Close
	}
	return closes
}

// Package ledger derives trading statistics from the read-only trade
// ledger supplied by the execution layer.
package ledger

import (
	"math"

	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// Stats summarizes a slice of closed trades.
type Stats struct {
	TotalTrades int
	Wins        int
	Losses      int

	WinRate      float64 // fraction of winning trades, 0-1
	AvgWinPct    float64 // mean positive return, percent
	AvgLossPct   float64 // mean absolute negative return, percent
	PayoffRatio  float64 // AvgWinPct / AvgLossPct
	ProfitFactor float64 // gross wins / gross losses
	Expectancy   float64 // WinRate*AvgWin - (1-WinRate)*AvgLoss, percent
}

// Compute summarizes the whole ledger.
func Compute(trades []types.TradeRecord) Stats {
	stats := Stats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	var sumWins, sumLosses float64
	for _, trade := range trades {
		if trade.ReturnPct > 0 {
			stats.Wins++
			sumWins += trade.ReturnPct
		} else {
			stats.Losses++
			sumLosses += math.Abs(trade.ReturnPct)
		}
	}

	stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades)
	if stats.Wins > 0 {
		stats.AvgWinPct = sumWins / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLossPct = sumLosses / float64(stats.Losses)
	}
	if stats.AvgLossPct > 0 {
		stats.PayoffRatio = stats.AvgWinPct / stats.AvgLossPct
	}
	if sumLosses > 0 {
		stats.ProfitFactor = sumWins / sumLosses
	}
	stats.Expectancy = stats.WinRate*stats.AvgWinPct - (1-stats.WinRate)*stats.AvgLossPct

	return stats
}

// ComputeTrailing summarizes the most recent n trades. n <= 0 or
// n >= len(trades) summarizes the whole ledger.
func ComputeTrailing(trades []types.TradeRecord, n int) Stats {
	if n > 0 && n < len(trades) {
		trades = trades[len(trades)-n:]
	}
	return Compute(trades)
}

// Returns extracts the per-trade percentage returns in ledger order.
func Returns(trades []types.TradeRecord) []float64 {
	returns := make([]float64, len(trades))
	for i, trade := range trades {
		returns[i] = trade.ReturnPct
	}
	return returns
}

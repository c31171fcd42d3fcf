// Package simulation estimates a sustainable per-trade risk budget by
// resampling the trade ledger's historical return distribution into
// synthetic equity curves and measuring their drawdowns.
package simulation

import (
	"math"
	"math/rand"
	"sort"
	"time"

	engineerrors "github.com/minhtran-quant/crypto-risk-engine/internal/errors"
	"github.com/minhtran-quant/crypto-risk-engine/internal/ledger"
	"github.com/minhtran-quant/crypto-risk-engine/internal/logger"
	"github.com/minhtran-quant/crypto-risk-engine/internal/monitoring"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// Reported percentiles of the simulated drawdown distribution.
var distributionPercentiles = []int{50, 75, 90, 95, 99}

// Simulator runs the resampling drawdown analysis. It holds only
// configuration; every call derives its state from the supplied
// ledger.
type Simulator struct {
	cfg *config.SimulationConfig
	log *logger.Logger
}

// NewSimulator creates a drawdown simulator. A nil config uses
// defaults; an invalid one fails here, at construction.
func NewSimulator(cfg *config.SimulationConfig) (*Simulator, error) {
	if cfg == nil {
		cfg = config.DefaultSimulationConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

// SetLogger attaches an optional diagnostics logger for fallback
// warnings.
func (s *Simulator) SetLogger(log *logger.Logger) {
	s.log = log
}

// SuggestRisk derives a risk budget from the ledger. Ledgers shorter
// than the configured minimum return defaultRiskPct unchanged: a
// degraded but valid answer, never an error.
func (s *Simulator) SuggestRisk(trades []types.TradeRecord, defaultRiskPct float64) types.RiskBudget {
	start := time.Now()
	defer func() { monitoring.ObserveSimulationDuration(time.Since(start)) }()

	returns := s.sampleUniverse(trades)
	if len(returns) < s.cfg.MinLedgerSize {
		if s.log != nil {
			s.log.Warning("suggest_risk: ledger has %d trades, need %d; keeping default risk %.2f%%",
				len(returns), s.cfg.MinLedgerSize, defaultRiskPct)
		}
		return types.RiskBudget{
			SuggestedRiskPct: defaultRiskPct,
			ConfidenceLevel:  s.cfg.ConfidenceLevel,
		}
	}

	drawdowns := s.simulate(returns)
	sort.Float64s(drawdowns)

	simulatedVaR := quantile(drawdowns, s.cfg.ConfidenceLevel)

	// Scale the baseline so the simulated VaR lands on the acceptable
	// drawdown; a near-zero VaR means the ledger never draws down and
	// the ceiling applies.
	suggested := s.cfg.MaxRiskPct
	if simulatedVaR > 1e-9 {
		suggested = defaultRiskPct * s.cfg.MaxAcceptableDrawdownPct / simulatedVaR
	}
	if suggested < s.cfg.MinRiskPct {
		suggested = s.cfg.MinRiskPct
	}
	if suggested > s.cfg.MaxRiskPct {
		suggested = s.cfg.MaxRiskPct
	}

	return types.RiskBudget{
		SuggestedRiskPct:    suggested,
		ConfidenceLevel:     s.cfg.ConfidenceLevel,
		SimulatedVaR:        simulatedVaR,
		DrawdownPercentiles: percentileTable(drawdowns),
	}
}

// Distribution exposes the full simulated drawdown distribution for
// reporting.
type Distribution struct {
	Percentiles map[int]float64 `json:"percentiles"`
	Drawdowns   []float64       `json:"drawdowns"` // sorted ascending
}

// DrawdownDistribution runs the same resampling procedure and returns
// the whole distribution. Unlike SuggestRisk there is no meaningful
// fallback, so a short ledger is an explicit error.
func (s *Simulator) DrawdownDistribution(trades []types.TradeRecord) (Distribution, error) {
	returns := s.sampleUniverse(trades)
	if len(returns) < s.cfg.MinLedgerSize {
		return Distribution{}, engineerrors.NewInsufficientDataError(
			"simulation", "drawdown_distribution", len(returns), s.cfg.MinLedgerSize)
	}

	drawdowns := s.simulate(returns)
	sort.Float64s(drawdowns)

	return Distribution{
		Percentiles: percentileTable(drawdowns),
		Drawdowns:   drawdowns,
	}, nil
}

// sampleUniverse selects the returns the bootstrap draws from,
// honoring the recency window hook.
func (s *Simulator) sampleUniverse(trades []types.TradeRecord) []float64 {
	if s.cfg.RecencyWindow > 0 && len(trades) > s.cfg.RecencyWindow {
		trades = trades[len(trades)-s.cfg.RecencyWindow:]
	}
	return ledger.Returns(trades)
}

// simulate produces one max-drawdown figure per synthetic path. Each
// path owns a generator seeded from the base seed plus its index, so
// the result set is reproducible for a fixed seed regardless of how
// paths are scheduled across workers.
func (s *Simulator) simulate(returns []float64) []float64 {
	baseSeed := s.cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	pool := newWorkerPool(s.cfg.Workers, s.cfg.NumSimulations, func(pathIndex int) float64 {
		rng := rand.New(rand.NewSource(baseSeed + int64(pathIndex)))
		return simulatePath(rng, returns, s.cfg.SequenceLength)
	})
	pool.start()
	pool.submitAll(64)
	return pool.wait()
}

// simulatePath compounds sequenceLength returns drawn with replacement
// into an equity curve starting at 100 and returns its maximum
// peak-to-trough drawdown in percent.
func simulatePath(rng *rand.Rand, returns []float64, sequenceLength int) float64 {
	equity := 100.0
	peak := equity
	maxDrawdown := 0.0

	for i := 0; i < sequenceLength; i++ {
		r := returns[rng.Intn(len(returns))]
		equity *= 1 + r/100
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak * 100
			if dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown
}

// quantile reads the value at confidence level q from an ascending
// sorted slice using the ceil(q*n)-1 index rule, which keeps the
// selection bit-for-bit reproducible.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func percentileTable(sorted []float64) map[int]float64 {
	table := make(map[int]float64, len(distributionPercentiles))
	for _, p := range distributionPercentiles {
		table[p] = quantile(sorted, float64(p)/100)
	}
	return table
}

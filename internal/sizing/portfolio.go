package sizing

import (
	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// SymbolSignal pairs a tradable symbol with a non-negative signal
// strength used as its allocation weight.
type SymbolSignal struct {
	Symbol   string
	Strength float64
}

// Allocation is one symbol's share of the portfolio risk budget.
type Allocation struct {
	Symbol    string
	RiskPct   float64
	Capped    bool
	CapReason string
}

// PortfolioAllocator distributes a portfolio risk budget across
// symbols subject to per-symbol, total-portfolio and
// correlated-exposure caps.
type PortfolioAllocator struct {
	cfg *config.SizingConfig
}

func NewPortfolioAllocator(cfg *config.SizingConfig) (*PortfolioAllocator, error) {
	if cfg == nil {
		cfg = config.DefaultSizingConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PortfolioAllocator{cfg: cfg}, nil
}

// Allocate splits budgetPct across the signals proportionally to
// strength, then applies the caps in order: per-symbol cap, portfolio
// scale-down, correlated-group scale-down. Output order follows input
// order.
func (p *PortfolioAllocator) Allocate(signals []SymbolSignal, budgetPct float64, corr types.CorrelationMatrix) []Allocation {
	allocs := make([]Allocation, len(signals))
	totalStrength := 0.0
	for i, sig := range signals {
		allocs[i] = Allocation{Symbol: sig.Symbol}
		if sig.Strength > 0 {
			totalStrength += sig.Strength
		}
	}
	if totalStrength <= 0 || budgetPct <= 0 {
		return allocs
	}

	total := 0.0
	for i, sig := range signals {
		if sig.Strength <= 0 {
			continue
		}
		share := budgetPct * sig.Strength / totalStrength
		if share > p.cfg.MaxSymbolRiskPct {
			share = p.cfg.MaxSymbolRiskPct
			allocs[i].Capped = true
			allocs[i].CapReason = "symbol risk cap"
		}
		allocs[i].RiskPct = share
		total += share
	}

	if total > p.cfg.MaxPortfolioRiskPct {
		scale := p.cfg.MaxPortfolioRiskPct / total
		for i := range allocs {
			if allocs[i].RiskPct == 0 {
				continue
			}
			allocs[i].RiskPct *= scale
			allocs[i].Capped = true
			allocs[i].CapReason = "portfolio risk cap"
		}
	}

	p.capCorrelatedGroups(allocs, corr)
	return allocs
}

// capCorrelatedGroups scales down every group of mutually correlated
// symbols whose combined risk exceeds MaxCorrelatedExposurePct.
func (p *PortfolioAllocator) capCorrelatedGroups(allocs []Allocation, corr types.CorrelationMatrix) {
	if corr == nil {
		return
	}
	for i := range allocs {
		if allocs[i].RiskPct == 0 {
			continue
		}
		group := []int{i}
		groupRisk := allocs[i].RiskPct
		for j := range allocs {
			if j == i || allocs[j].RiskPct == 0 {
				continue
			}
			if corr.Correlation(allocs[i].Symbol, allocs[j].Symbol) > p.cfg.CorrelationThreshold {
				group = append(group, j)
				groupRisk += allocs[j].RiskPct
			}
		}
		if groupRisk <= p.cfg.MaxCorrelatedExposurePct {
			continue
		}
		scale := p.cfg.MaxCorrelatedExposurePct / groupRisk
		for _, j := range group {
			allocs[j].RiskPct *= scale
			allocs[j].Capped = true
			allocs[j].CapReason = "correlated exposure cap"
		}
	}
}

// CapMarginal caps the candidate risk of one new position against the
// already-open book. It returns the admissible risk and the reason of
// the binding cap, empty when uncapped.
func (p *PortfolioAllocator) CapMarginal(symbol string, riskPct float64, open map[string]types.OpenPosition, corr types.CorrelationMatrix) (float64, string) {
	reason := ""
	if riskPct > p.cfg.MaxSymbolRiskPct {
		riskPct = p.cfg.MaxSymbolRiskPct
		reason = "symbol risk cap"
	}

	committed := 0.0
	correlated := 0.0
	for sym, pos := range open {
		committed += pos.RiskPctCommitted
		if sym != symbol && corr.Correlation(symbol, sym) > p.cfg.CorrelationThreshold {
			correlated += pos.RiskPctCommitted
		}
	}

	if committed+riskPct > p.cfg.MaxPortfolioRiskPct {
		riskPct = p.cfg.MaxPortfolioRiskPct - committed
		reason = "portfolio risk cap"
	}
	if correlated+riskPct > p.cfg.MaxCorrelatedExposurePct {
		riskPct = p.cfg.MaxCorrelatedExposurePct - correlated
		reason = "correlated exposure cap"
	}
	if riskPct < 0 {
		riskPct = 0
	}
	return riskPct, reason
}

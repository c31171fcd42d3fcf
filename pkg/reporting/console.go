// Package reporting renders regime classifications, risk budgets and
// sizing evaluations to the console, JSON and Excel.
package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/minhtran-quant/crypto-risk-engine/internal/regime"
	"github.com/minhtran-quant/crypto-risk-engine/internal/risk"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// ConsoleReporter renders engine output as rounded tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a console reporter writing to stdout
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterWithWriter creates a console reporter with a custom writer
func NewConsoleReporterWithWriter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// PrintClassification renders one regime classification
func (r *ConsoleReporter) PrintClassification(c regime.Classification) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("MARKET REGIME")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Regime", c.Regime.String()},
		{"Confidence", fmt.Sprintf("%.1f%%", c.Confidence*100)},
		{"Risk Multiplier", fmt.Sprintf("%.2f", c.RiskMultiplier)},
		{"Reward/Risk Hint", fmt.Sprintf("%.2f", c.Hints.RewardRisk)},
		{"Trailing Stop (ATR)", fmt.Sprintf("%.2f", c.Hints.TrailingStopATR)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Hurst Exponent", fmt.Sprintf("%.3f", c.Features.Hurst)},
		{"Fractal Dimension", fmt.Sprintf("%.3f", c.Features.FractalDimension)},
		{"Trend Strength", fmt.Sprintf("%.1f", c.Features.TrendStrength)},
		{"Volatility Ratio", fmt.Sprintf("%.2f%%", c.Features.VolatilityRatio)},
		{"Volatility Shift", fmt.Sprintf("%.2f", c.Features.VolatilityShift)},
		{"Skewness", fmt.Sprintf("%.3f", c.Features.Skewness)},
		{"Excess Kurtosis", fmt.Sprintf("%.3f", c.Features.ExcessKurtosis)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 15, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintRiskBudget renders a simulated risk budget with its drawdown
// percentiles.
func (r *ConsoleReporter) PrintRiskBudget(b types.RiskBudget) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("RISK BUDGET")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Suggested Risk", fmt.Sprintf("%.2f%%", b.SuggestedRiskPct)},
		{"Confidence Level", fmt.Sprintf("%.0f%%", b.ConfidenceLevel*100)},
		{"Simulated VaR", fmt.Sprintf("%.2f%%", b.SimulatedVaR)},
	})

	if len(b.DrawdownPercentiles) > 0 {
		t.AppendSeparator()
		pcts := make([]int, 0, len(b.DrawdownPercentiles))
		for p := range b.DrawdownPercentiles {
			pcts = append(pcts, p)
		}
		sort.Ints(pcts)
		for _, p := range pcts {
			t.AppendRow(table.Row{
				fmt.Sprintf("Drawdown P%d", p),
				fmt.Sprintf("%.2f%%", b.DrawdownPercentiles[p]),
			})
		}
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 15, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintEvaluation renders the manager's verdict on one trade candidate
func (r *ConsoleReporter) PrintEvaluation(e risk.Evaluation) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRADE EVALUATION")
	t.SetStyle(table.StyleRounded)

	verdict := "APPROVED"
	if e.PositionSize <= 0 {
		verdict = "REFUSED"
	}

	t.AppendRows([]table.Row{
		{"Symbol", e.Symbol},
		{"Verdict", verdict},
		{"Position Size", fmt.Sprintf("%.6f", e.PositionSize)},
		{"Risk Applied", fmt.Sprintf("%.2f%%", e.RiskPctApplied)},
		{"Drawdown Scale", fmt.Sprintf("%.2f", e.DrawdownScale)},
	})
	if e.Capped {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Capped", e.CapReason})
	}
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Regime", e.Regime.Regime.String()},
		{"Suggested Risk", fmt.Sprintf("%.2f%%", e.Budget.SuggestedRiskPct)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

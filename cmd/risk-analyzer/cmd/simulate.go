package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhtran-quant/crypto-risk-engine/internal/logger"
	"github.com/minhtran-quant/crypto-risk-engine/internal/simulation"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/data"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/reporting"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate drawdown distributions from a trade ledger",
	Long: `Simulate bootstraps resampled trade sequences from a ledger CSV,
derives the drawdown distribution and suggests a risk percentage that
keeps the simulated VaR inside the acceptable drawdown.

Example:
  risk-analyzer simulate --ledger data/trades.csv --xlsx reports/drawdowns.xlsx`,
	RunE: runSimulate,
}

var (
	simLedgerPath string
	simXLSXPath   string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVarP(&simLedgerPath, "ledger", "l", "", "path to trade ledger CSV (required)")
	simulateCmd.Flags().StringVar(&simXLSXPath, "xlsx", "", "optional path for an Excel export of the distribution")
	simulateCmd.MarkFlagRequired("ledger")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	trades, err := data.NewCSVLedgerProvider().LoadTrades(simLedgerPath)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	simulator, err := simulation.NewSimulator(cfg.Simulation)
	if err != nil {
		return err
	}
	simulator.SetLogger(logger.NewWriterLogger(os.Stderr, "simulate"))

	budget := simulator.SuggestRisk(trades, cfg.DefaultRiskPct)

	if jsonOut {
		reporting.PrintJSON(budget)
	} else {
		reporting.NewConsoleReporter().PrintRiskBudget(budget)
	}

	if simXLSXPath != "" {
		dist, err := simulator.DrawdownDistribution(trades)
		if err != nil {
			return fmt.Errorf("building distribution: %w", err)
		}
		if err := reporting.NewExcelReporter().WriteDistributionXLSX(budget, dist, simXLSXPath); err != nil {
			return fmt.Errorf("writing Excel report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "distribution written to %s\n", simXLSXPath)
	}
	return nil
}

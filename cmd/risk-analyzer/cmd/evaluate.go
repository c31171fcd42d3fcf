package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhtran-quant/crypto-risk-engine/internal/logger"
	"github.com/minhtran-quant/crypto-risk-engine/internal/monitoring"
	"github.com/minhtran-quant/crypto-risk-engine/internal/risk"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/data"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/reporting"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run a trade candidate through the full risk pipeline",
	Long: `Evaluate classifies the candle history, simulates a risk budget from
the ledger and sizes the candidate through the configured strategy,
with circuit breakers and portfolio caps applied.

Example:
  risk-analyzer evaluate --symbol BTCUSDT --candles data/BTCUSDT_1h.csv \
    --ledger data/trades.csv --entry 50000 --stop 49000 --balance 10000`,
	RunE: runEvaluate,
}

var (
	evalSymbol      string
	evalCandlesPath string
	evalLedgerPath  string
	evalEntry       float64
	evalStop        float64
	evalBalance     float64
	evalLeverage    float64
	evalATR         float64
	evalMetricsAddr string
	evalOutPath     string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVarP(&evalSymbol, "symbol", "s", "", "trading symbol (required)")
	evaluateCmd.Flags().StringVarP(&evalCandlesPath, "candles", "d", "", "path to candle CSV (required)")
	evaluateCmd.Flags().StringVarP(&evalLedgerPath, "ledger", "l", "", "path to trade ledger CSV")
	evaluateCmd.Flags().Float64VarP(&evalEntry, "entry", "e", 0, "entry price (required)")
	evaluateCmd.Flags().Float64Var(&evalStop, "stop", 0, "stop-loss price (required)")
	evaluateCmd.Flags().Float64VarP(&evalBalance, "balance", "b", 0, "account balance (required)")
	evaluateCmd.Flags().Float64Var(&evalLeverage, "leverage", 1, "position leverage")
	evaluateCmd.Flags().Float64Var(&evalATR, "atr", 0, "current ATR, used by the volatility strategy")
	evaluateCmd.Flags().StringVar(&evalMetricsAddr, "metrics-addr", "", "optional listen address for Prometheus metrics, e.g. :9090")
	evaluateCmd.Flags().StringVarP(&evalOutPath, "out", "o", "", "optional path to write the evaluation as JSON")
	evaluateCmd.MarkFlagRequired("symbol")
	evaluateCmd.MarkFlagRequired("candles")
	evaluateCmd.MarkFlagRequired("entry")
	evaluateCmd.MarkFlagRequired("stop")
	evaluateCmd.MarkFlagRequired("balance")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	candleProvider := data.NewCSVCandleProvider()
	candles, err := candleProvider.LoadCandles(evalCandlesPath)
	if err != nil {
		return fmt.Errorf("loading candles: %w", err)
	}
	if err := candleProvider.Validate(candles); err != nil {
		return fmt.Errorf("validating candles: %w", err)
	}

	ledger, err := loadOptionalLedger(evalLedgerPath)
	if err != nil {
		return err
	}

	manager, err := risk.NewManager(cfg)
	if err != nil {
		return err
	}
	manager.SetLogger(logger.NewWriterLogger(os.Stderr, "evaluate"))

	health := monitoring.NewHealthChecker()
	if evalMetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", monitoring.NewMetricsHandler())
			mux.Handle("/health", health)
			if err := http.ListenAndServe(evalMetricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
	}

	evaluation, err := manager.Evaluate(risk.EvaluateRequest{
		Symbol:         evalSymbol,
		EntryPrice:     evalEntry,
		StopLossPrice:  evalStop,
		AccountBalance: evalBalance,
		Leverage:       evalLeverage,
		ATR:            evalATR,
		Candles:        candles,
		Ledger:         ledger,
	})
	if err != nil {
		health.RecordError(err.Error())
		return err
	}
	health.MarkEvaluation(evalSymbol)

	if evalOutPath != "" {
		if err := reporting.WriteJSON(evaluation, evalOutPath); err != nil {
			return fmt.Errorf("writing evaluation report: %w", err)
		}
	}

	if jsonOut {
		reporting.PrintJSON(evaluation)
		return nil
	}
	reporting.NewConsoleReporter().PrintEvaluation(evaluation)
	return nil
}

// loadOptionalLedger loads the trade ledger when a path was given. A
// missing path means an empty ledger, which the simulator degrades on.
func loadOptionalLedger(path string) ([]types.TradeRecord, error) {
	if path == "" {
		return nil, nil
	}
	trades, err := data.NewCSVLedgerProvider().LoadTrades(path)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return trades, nil
}

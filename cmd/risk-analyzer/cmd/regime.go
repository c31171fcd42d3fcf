package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhtran-quant/crypto-risk-engine/internal/regime"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/data"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/reporting"
)

var regimeCmd = &cobra.Command{
	Use:   "regime",
	Short: "Classify the market regime of a candle history",
	Long: `Regime loads a candle CSV, classifies the most recent lookback window
and prints the detected regime with its confidence and features.

Example:
  risk-analyzer regime --candles data/BTCUSDT_1h.csv`,
	RunE: runRegime,
}

var regimeCandlesPath string

func init() {
	rootCmd.AddCommand(regimeCmd)
	regimeCmd.Flags().StringVarP(&regimeCandlesPath, "candles", "d", "", "path to candle CSV (timestamp,open,high,low,close,volume) (required)")
	regimeCmd.MarkFlagRequired("candles")
}

func runRegime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := data.NewCSVCandleProvider()
	candles, err := provider.LoadCandles(regimeCandlesPath)
	if err != nil {
		return fmt.Errorf("loading candles: %w", err)
	}
	if err := provider.Validate(candles); err != nil {
		return fmt.Errorf("validating candles: %w", err)
	}

	detector, err := regime.NewDetector(cfg.Regime)
	if err != nil {
		return err
	}
	classification := detector.Classify(candles)

	if jsonOut {
		reporting.PrintJSON(classification)
		return nil
	}
	reporting.NewConsoleReporter().PrintClassification(classification)
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/minhtran-quant/crypto-risk-engine/pkg/config"
)

var (
	cfgFile string
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "risk-analyzer",
	Short: "Risk and position sizing analysis for crypto trading",
	Long: `Risk-analyzer is the offline front end of the crypto risk engine.

It provides tools for:
  - Classifying the market regime of a candle history
  - Simulating drawdown distributions from a trade ledger
  - Sizing trade candidates through the full risk pipeline`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to JSON config file (defaults plus env overrides apply)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit JSON instead of tables")
}

// loadConfig resolves the effective configuration for a subcommand
func loadConfig() (*config.RiskConfig, error) {
	return config.NewManager().Load(cfgFile)
}

package main

import (
	"os"

	"github.com/minhtran-quant/crypto-risk-engine/cmd/risk-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

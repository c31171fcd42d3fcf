package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// LedgerColumnMapping defines the column positions of a trade ledger
// CSV. The regime and setup columns are optional annotations.
type LedgerColumnMapping struct {
	SymbolCol     int
	EntryTimeCol  int
	ExitTimeCol   int
	EntryPriceCol int
	ExitPriceCol  int
	ReturnPctCol  int
	RegimeCol     int
	SetupCol      int
	MinColumns    int
	DateFormat    string
}

// DefaultLedgerFormat matches the engine's own ledger export layout:
// symbol,entry_time,exit_time,entry_price,exit_price,return_pct,regime,setup.
var DefaultLedgerFormat = LedgerColumnMapping{
	SymbolCol:     0,
	EntryTimeCol:  1,
	ExitTimeCol:   2,
	EntryPriceCol: 3,
	ExitPriceCol:  4,
	ReturnPctCol:  5,
	RegimeCol:     6,
	SetupCol:      7,
	MinColumns:    6,
	DateFormat:    "2006-01-02 15:04:05",
}

// CSVLedgerProvider loads trade ledgers from CSV files
type CSVLedgerProvider struct {
	format LedgerColumnMapping
}

// NewCSVLedgerProvider creates a ledger provider with the default format
func NewCSVLedgerProvider() *CSVLedgerProvider {
	return &CSVLedgerProvider{format: DefaultLedgerFormat}
}

// NewCSVLedgerProviderWithFormat creates a ledger provider with a custom format
func NewCSVLedgerProviderWithFormat(format LedgerColumnMapping) *CSVLedgerProvider {
	return &CSVLedgerProvider{format: format}
}

// LoadTrades loads a trade ledger from a CSV file. Malformed rows are
// skipped with a warning; structural errors abort the load.
func (p *CSVLedgerProvider) LoadTrades(filename string) ([]types.TradeRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	format := p.format
	var trades []types.TradeRecord

	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %v", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Printf("insufficient columns at line %d (expected %d, got %d), skipping", lineNum, format.MinColumns, len(record))
			continue
		}

		entryTime, err := time.Parse(format.DateFormat, record[format.EntryTimeCol])
		if err != nil {
			log.Printf("invalid entry time %q at line %d, skipping: %v", record[format.EntryTimeCol], lineNum, err)
			continue
		}
		exitTime, err := time.Parse(format.DateFormat, record[format.ExitTimeCol])
		if err != nil {
			log.Printf("invalid exit time %q at line %d, skipping: %v", record[format.ExitTimeCol], lineNum, err)
			continue
		}

		entryPrice, err1 := strconv.ParseFloat(record[format.EntryPriceCol], 64)
		exitPrice, err2 := strconv.ParseFloat(record[format.ExitPriceCol], 64)
		returnPct, err3 := strconv.ParseFloat(record[format.ReturnPctCol], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			log.Printf("invalid numeric field at line %d, skipping", lineNum)
			continue
		}
		if entryPrice <= 0 || exitPrice <= 0 {
			log.Printf("non-positive price at line %d, skipping", lineNum)
			continue
		}

		trade := types.TradeRecord{
			Symbol:     record[format.SymbolCol],
			EntryTime:  entryTime,
			ExitTime:   exitTime,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			ReturnPct:  returnPct,
		}
		if len(record) > format.RegimeCol {
			trade.MarketRegime = record[format.RegimeCol]
		}
		if len(record) > format.SetupCol {
			trade.SetupType = record[format.SetupCol]
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

// Validate checks the integrity of a loaded ledger
func (p *CSVLedgerProvider) Validate(trades []types.TradeRecord) error {
	if len(trades) == 0 {
		return fmt.Errorf("no trades provided")
	}
	for i, trade := range trades {
		if trade.EntryPrice <= 0 || trade.ExitPrice <= 0 {
			return fmt.Errorf("invalid trade at index %d: prices must be positive", i)
		}
		if trade.ExitTime.Before(trade.EntryTime) {
			return fmt.Errorf("invalid trade at index %d: exit before entry", i)
		}
	}
	return nil
}

// Package data loads candle history and trade ledgers from CSV files.
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

// CandleProvider loads candle history from some source.
type CandleProvider interface {
	// LoadCandles loads candle history from the specified source
	LoadCandles(source string) ([]types.OHLCV, error)

	// Validate validates the integrity of the loaded candles
	Validate(data []types.OHLCV) error

	// GetName returns the name of the provider
	GetName() string
}

// CandleColumnMapping defines the column positions of a candle CSV
type CandleColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// DefaultCandleFormat matches the common exchange export layout:
// timestamp,open,high,low,close,volume.
var DefaultCandleFormat = CandleColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "2006-01-02 15:04:05",
}

// CSVCandleProvider implements CandleProvider for CSV files
type CSVCandleProvider struct {
	format CandleColumnMapping
}

// NewCSVCandleProvider creates a provider with the default format
func NewCSVCandleProvider() *CSVCandleProvider {
	return &CSVCandleProvider{format: DefaultCandleFormat}
}

// NewCSVCandleProviderWithFormat creates a provider with a custom format
func NewCSVCandleProviderWithFormat(format CandleColumnMapping) *CSVCandleProvider {
	return &CSVCandleProvider{format: format}
}

// GetName returns the name of the provider
func (p *CSVCandleProvider) GetName() string {
	return "CSV Candle Provider"
}

// LoadCandles loads candle history from a CSV file. Malformed rows are
// skipped with a warning; structural errors abort the load.
func (p *CSVCandleProvider) LoadCandles(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	format := p.format
	var data []types.OHLCV

	lineNum := 1 // header already consumed
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

		timestamp, err := time.Parse(format.DateFormat, record[format.TimestampCol])
		if err != nil {
			log.Printf("invalid timestamp %q at line %d, skipping: %v", record[format.TimestampCol], lineNum, err)
			continue
		}

		open, err1 := strconv.ParseFloat(record[format.OpenCol], 64)
		high, err2 := strconv.ParseFloat(record[format.HighCol], 64)
		low, err3 := strconv.ParseFloat(record[format.LowCol], 64)
		close, err4 := strconv.ParseFloat(record[format.CloseCol], 64)
		volume, err5 := strconv.ParseFloat(record[format.VolumeCol], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			log.Printf("invalid numeric field at line %d, skipping", lineNum)
			continue
		}

		if open <= 0 || high <= 0 || low <= 0 || close <= 0 {
			log.Printf("non-positive price at line %d, skipping", lineNum)
			continue
		}
		if high < open || high < close || high < low {
			log.Printf("high below other prices at line %d, skipping", lineNum)
			continue
		}
		if low > open || low > close {
			log.Printf("low above other prices at line %d, skipping", lineNum)
			continue
		}

		data = append(data, types.OHLCV{
			Timestamp: timestamp,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		})
	}

	return data, nil
}

// Validate checks the integrity of loaded candles
func (p *CSVCandleProvider) Validate(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}

	for i, candle := range data {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}
		if candle.High < candle.Low {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, candle.High, candle.Low)
		}
		if i > 0 && candle.Timestamp.Before(data[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: timestamps must be in chronological order", i)
		}
	}

	return nil
}

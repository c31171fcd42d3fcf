package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/minhtran-quant/crypto-risk-engine/internal/simulation"
	"github.com/minhtran-quant/crypto-risk-engine/pkg/types"
)

// ExcelReporter writes simulation output to an Excel workbook
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteDistributionXLSX writes the risk budget and the full simulated
// drawdown distribution to an Excel file.
func (r *ExcelReporter) WriteDistributionXLSX(budget types.RiskBudget, dist simulation.Distribution, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const distributionSheet = "Distribution"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(distributionSheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, budget, headerStyle); err != nil {
		return err
	}
	if err := r.writeDistributionSheet(fx, distributionSheet, dist, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, budget types.RiskBudget, headerStyle int) error {
	headers := []string{"Metric", "Value"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	rows := [][]interface{}{
		{"Suggested Risk %", budget.SuggestedRiskPct},
		{"Confidence Level", budget.ConfidenceLevel},
		{"Simulated VaR %", budget.SimulatedVaR},
	}
	pcts := make([]int, 0, len(budget.DrawdownPercentiles))
	for p := range budget.DrawdownPercentiles {
		pcts = append(pcts, p)
	}
	sort.Ints(pcts)
	for _, p := range pcts {
		rows = append(rows, []interface{}{fmt.Sprintf("Drawdown P%d %%", p), budget.DrawdownPercentiles[p]})
	}

	for i, row := range rows {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := fx.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	fx.SetColWidth(sheet, "A", "A", 22)
	fx.SetColWidth(sheet, "B", "B", 15)
	return nil
}

func (r *ExcelReporter) writeDistributionSheet(fx *excelize.File, sheet string, dist simulation.Distribution, headerStyle int) error {
	headers := []string{"Path", "Max Drawdown %"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, dd := range dist.Drawdowns {
		pathCell, _ := excelize.CoordinatesToCellName(1, i+2)
		ddCell, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := fx.SetCellValue(sheet, pathCell, i+1); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, ddCell, dd); err != nil {
			return err
		}
	}

	fx.SetColWidth(sheet, "A", "B", 16)
	return nil
}

package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// CSVFormatter emits one row per simulated drawdown year.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"Age", "Year", "TotalWithdrawal", "BenefitIncome", "StreamIncome",
		"GrossIncome", "FederalTax", "RegionalTax", "TotalPenalties",
		"TotalTax", "AfterTaxIncome", "TargetSpending", "RMDAmount",
		"TotalBalance",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, year := range result.Retirement.Years {
		row := []string{
			strconv.Itoa(year.Age),
			strconv.Itoa(year.Year),
			year.TotalWithdrawal.StringFixed(2),
			year.BenefitIncome.StringFixed(2),
			year.StreamIncome.StringFixed(2),
			year.GrossIncome.StringFixed(2),
			year.FederalTax.StringFixed(2),
			year.RegionalTax.StringFixed(2),
			year.TotalPenalties.StringFixed(2),
			year.TotalTax.StringFixed(2),
			year.AfterTaxIncome.StringFixed(2),
			year.TargetSpending.StringFixed(2),
			year.RMDAmount.StringFixed(2),
			year.TotalBalance.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

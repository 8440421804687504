package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smithgotsurf/retirement-planner/internal/domain"
)

// Formatter renders a plan result in one output format.
type Formatter interface {
	Name() string
	Format(result *domain.PlanResult) ([]byte, error)
}

// WriteReport renders the result in the named format and writes it to w.
func WriteReport(w io.Writer, result *domain.PlanResult, format string) error {
	formatter, err := formatterFor(format)
	if err != nil {
		return err
	}
	data, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("formatting %s report: %w", formatter.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

func formatterFor(format string) (Formatter, error) {
	switch format {
	case "console", "":
		return ConsoleFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ConsoleFormatter renders a human-readable summary plus a per-year drawdown
// table.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RETIREMENT PROJECTION") + "\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	accumulation := result.Accumulation
	retirement := result.Retirement

	b.WriteString(sectionStyle.Render("ACCUMULATION") + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Total at retirement:"),
		FormatCurrency(accumulation.TotalAtRetirement)))
	b.WriteString(fmt.Sprintf("%s %s / year (%s / month)\n",
		labelStyle.Render("Sustainable withdrawal:"),
		FormatCurrency(retirement.SustainableAnnualWithdrawal),
		FormatCurrency(retirement.SustainableMonthlyWithdrawal)))
	if accumulation.TotalAtRetirement.GreaterThan(decimal.Zero) {
		rate := retirement.SustainableAnnualWithdrawal.Div(accumulation.TotalAtRetirement)
		b.WriteString(fmt.Sprintf("%s %s of the portfolio\n",
			labelStyle.Render("Withdrawal rate:"), FormatPercentage(rate)))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("DRAWDOWN") + "\n")
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Lifetime taxes paid:"),
		FormatCurrency(retirement.LifetimeTaxesPaid)))
	if retirement.PortfolioDepletionAge != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Portfolio depleted at age %d", *retirement.PortfolioDepletionAge)) + "\n")
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Final balance:"),
			FormatCurrency(retirement.FinalBalance())))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%-5s %-6s %12s %12s %12s %12s %12s %12s\n",
		"Age", "Year", "Withdrawal", "Benefits", "Gross", "Tax", "After-Tax", "Balance"))
	b.WriteString(strings.Repeat("-", 92) + "\n")
	for _, year := range retirement.Years {
		b.WriteString(fmt.Sprintf("%-5d %-6d %12s %12s %12s %12s %12s %12s\n",
			year.Age, year.Year,
			year.TotalWithdrawal.StringFixed(0),
			year.BenefitIncome.StringFixed(0),
			year.GrossIncome.StringFixed(0),
			year.TotalTax.StringFixed(0),
			year.AfterTaxIncome.StringFixed(0),
			year.TotalBalance.StringFixed(0)))
	}

	return []byte(b.String()), nil
}

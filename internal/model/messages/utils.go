package messages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/model/reports"
)

const (
	commandParts   = 2
	adjustmentSign = "="
)

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	split := strings.SplitN(text, " ", commandParts)
	if len(split) == commandParts {
		return split[0], split[1]
	}
	return text, ""
}

// parseAdjustments reads "Food=100 Bills=-50". Repeated categories add up.
func parseAdjustments(arg string) (finance.AdjustmentSet, error) {
	res := make(finance.AdjustmentSet)
	for _, field := range strings.Fields(arg) {
		parts := strings.SplitN(field, adjustmentSign, 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("malformed adjustment %q", field)
		}
		delta, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse adjustment")
		}
		res[parts[0]] += delta
	}
	return res, nil
}

func formatAmount(category string, amount float64) string {
	return fmt.Sprintf("%s: %.2f", category, amount)
}

func formatExpenses(expenses []finance.ExpenseRecord) string {
	res := make([]string, 0, len(expenses)+2)
	total := 0.0
	for _, exp := range expenses {
		res = append(res, formatAmount(exp.Category, exp.Amount))
		total += exp.Amount
	}
	res = append(res, "", fmt.Sprintf("Total: %.2f", total))
	return strings.Join(res, "\n")
}

func formatBudgets(budgets []finance.BudgetRecord) string {
	res := make([]string, 0, len(budgets))
	for _, b := range budgets {
		res = append(res, fmt.Sprintf("%s: %.2f spent of %.2f", b.Category, b.Spent, b.TotalBudget))
	}
	return strings.Join(res, "\n")
}

func formatForecast(forecast finance.Forecast) string {
	categories := make([]string, 0, len(forecast))
	for cat := range forecast {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	res := make([]string, 0, len(categories)+1)
	res = append(res, "Projected savings:")
	for _, cat := range categories {
		res = append(res, formatAmount(cat, forecast[cat]))
	}
	return strings.Join(res, "\n")
}

func formatReport(report *reports.Report) string {
	res := make([]string, 0, len(report.Records)+2)
	for _, rec := range report.Records {
		if !rec.Budgeted {
			res = append(res, fmt.Sprintf("%s: %.2f, no budget", rec.Category, rec.Amount))
			continue
		}
		res = append(res, fmt.Sprintf("%s: %.2f of %.2f, %.2f left", rec.Category, rec.Amount, rec.Budget, rec.Remaining))
	}
	res = append(res, "", fmt.Sprintf("Total: %.2f of %.2f", report.TotalAmount, report.TotalBudget))
	return strings.Join(res, "\n")
}

func formatQuotes(quotes market.Quotes) string {
	tickers := make([]string, 0, len(quotes))
	for t := range quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	res := make([]string, 0, len(tickers))
	for _, t := range tickers {
		prices := quotes[t]
		if len(prices) == 0 {
			res = append(res, fmt.Sprintf("%s: %s", t, noPricesMessage))
			continue
		}
		formatted := make([]string, 0, len(prices))
		for _, p := range prices {
			formatted = append(formatted, fmt.Sprintf("%.2f", p))
		}
		res = append(res, fmt.Sprintf("%s: %s", t, strings.Join(formatted, ", ")))
	}
	return strings.Join(res, "\n")
}

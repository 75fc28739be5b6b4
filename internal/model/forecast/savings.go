package forecast

import (
	"max.ks1230/smartsaver/internal/entity/finance"
)

// GroupByCategory splits expenses into per-category amount series. Each
// series keeps the relative order the amounts had in the ledger.
func GroupByCategory(expenses []finance.ExpenseRecord) map[string][]float64 {
	res := make(map[string][]float64)
	for _, exp := range expenses {
		res[exp.Category] = append(res[exp.Category], exp.Amount)
	}
	return res
}

// BudgetTotals indexes budgets by category.
func BudgetTotals(budgets []finance.BudgetRecord) map[string]float64 {
	res := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		res[b.Category] = b.TotalBudget
	}
	return res
}

// ProjectSavings returns budget minus projected expense for every category
// with history. Categories that are budgeted but never spent on are left out,
// categories without a budget count it as 0.
func ProjectSavings(grouped map[string][]float64, budgets map[string]float64) finance.Forecast {
	res := make(finance.Forecast, len(grouped))
	for category, series := range grouped {
		res[category] = budgets[category] - Project(series)
	}
	return res
}

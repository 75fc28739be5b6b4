package storage

import "max.ks1230/smartsaver/internal/entity/finance"

// DefaultSeed is used when the config carries no ledger section.
type DefaultSeed struct{}

func (DefaultSeed) Expenses() []finance.ExpenseRecord {
	return []finance.ExpenseRecord{
		{Category: "Food", Amount: 250},
		{Category: "Food", Amount: 280},
		{Category: "Food", Amount: 220},
		{Category: "Entertainment", Amount: 100},
		{Category: "Entertainment", Amount: 120},
		{Category: "Entertainment", Amount: 80},
		{Category: "Bills", Amount: 300},
		{Category: "Bills", Amount: 320},
		{Category: "Bills", Amount: 280},
		{Category: "Savings", Amount: 200},
		{Category: "Savings", Amount: 180},
		{Category: "Savings", Amount: 220},
	}
}

func (DefaultSeed) Budgets() []finance.BudgetRecord {
	return []finance.BudgetRecord{
		{Category: "Food", TotalBudget: 500, Spent: 250},
		{Category: "Entertainment", TotalBudget: 200, Spent: 100},
		{Category: "Bills", TotalBudget: 350, Spent: 300},
		{Category: "Savings", TotalBudget: 400, Spent: 200},
	}
}

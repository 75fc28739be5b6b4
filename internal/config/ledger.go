package config

import "max.ks1230/smartsaver/internal/entity/finance"

// LedgerConfig holds the data the ledger is seeded with at startup.
type LedgerConfig struct {
	SeedExpenses []finance.ExpenseRecord `yaml:"expenses"`
	SeedBudgets  []finance.BudgetRecord  `yaml:"budgets"`
}

func (s *LedgerConfig) Expenses() []finance.ExpenseRecord {
	return s.SeedExpenses
}

func (s *LedgerConfig) Budgets() []finance.BudgetRecord {
	return s.SeedBudgets
}

func (s *LedgerConfig) HasSeed() bool {
	return len(s.SeedExpenses) > 0 || len(s.SeedBudgets) > 0
}

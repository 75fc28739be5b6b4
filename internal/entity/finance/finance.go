package finance

// ExpenseRecord is one spending entry. Records carry no timestamp, their
// position in the ledger is the time axis.
type ExpenseRecord struct {
	Category string  `json:"category" yaml:"category"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// BudgetRecord is the budget of a single category.
type BudgetRecord struct {
	Category    string  `json:"category" yaml:"category"`
	TotalBudget float64 `json:"total_budget" yaml:"total-budget"`
	Spent       float64 `json:"spent" yaml:"spent"`
}

// AdjustmentSet maps a category to a signed budget delta.
type AdjustmentSet map[string]float64

// Forecast maps a category to its projected savings. Negative values mean
// an expected overspend.
type Forecast map[string]float64

// Snapshot is a consistent copy of the whole ledger. Version changes on every
// committed write and is never reused, not even across restarts.
type Snapshot struct {
	Expenses []ExpenseRecord
	Budgets  []BudgetRecord
	Version  string
}

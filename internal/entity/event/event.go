package event

import (
	"time"

	"github.com/google/uuid"
	"max.ks1230/smartsaver/internal/entity/finance"
)

type Kind string

const (
	ExpenseAdded  Kind = "expense_added"
	BudgetUpdated Kind = "budget_updated"
)

// LedgerEvent describes a single committed ledger mutation.
type LedgerEvent struct {
	ID         string                 `json:"id"`
	Kind       Kind                   `json:"kind"`
	Category   string                 `json:"category"`
	Expense    *finance.ExpenseRecord `json:"expense,omitempty"`
	Budget     *finance.BudgetRecord  `json:"budget,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewExpenseAdded(rec finance.ExpenseRecord) LedgerEvent {
	return LedgerEvent{
		ID:         uuid.NewString(),
		Kind:       ExpenseAdded,
		Category:   rec.Category,
		Expense:    &rec,
		OccurredAt: time.Now().UTC(),
	}
}

func NewBudgetUpdated(rec finance.BudgetRecord) LedgerEvent {
	return LedgerEvent{
		ID:         uuid.NewString(),
		Kind:       BudgetUpdated,
		Category:   rec.Category,
		Budget:     &rec,
		OccurredAt: time.Now().UTC(),
	}
}

package storage

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/model/customerr"
)

type seed interface {
	Expenses() []finance.ExpenseRecord
	Budgets() []finance.BudgetRecord
}

// InMemStorage is the process-lifetime ledger. Expenses only grow, budgets
// are replaced wholesale by category and keep their position.
type InMemStorage struct {
	mu          sync.RWMutex
	expenses    []finance.ExpenseRecord
	budgets     []finance.BudgetRecord
	budgetIndex map[string]int
	// epoch tells this process's revisions apart from any earlier run
	epoch    string
	revision uint64
}

func NewInMemStorage(seed seed) *InMemStorage {
	s := &InMemStorage{
		expenses:    make([]finance.ExpenseRecord, 0),
		budgets:     make([]finance.BudgetRecord, 0),
		budgetIndex: make(map[string]int),
		epoch:       uuid.NewString(),
	}
	s.expenses = append(s.expenses, seed.Expenses()...)
	for _, b := range seed.Budgets() {
		// a later seed record for the same category replaces the earlier one
		if i, ok := s.budgetIndex[b.Category]; ok {
			s.budgets[i] = b
			continue
		}
		s.budgetIndex[b.Category] = len(s.budgets)
		s.budgets = append(s.budgets, b)
	}
	return s
}

func (s *InMemStorage) ListExpenses(_ context.Context) ([]finance.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]finance.ExpenseRecord, len(s.expenses))
	copy(res, s.expenses)
	return res, nil
}

func (s *InMemStorage) AddExpense(_ context.Context, rec finance.ExpenseRecord) (finance.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = append(s.expenses, rec)
	s.revision++
	return rec, nil
}

func (s *InMemStorage) ListBudgets(_ context.Context) ([]finance.BudgetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]finance.BudgetRecord, len(s.budgets))
	copy(res, s.budgets)
	return res, nil
}

// UpdateBudget replaces the record stored under category. The category key
// is authoritative, a differing Category in rec is overwritten.
func (s *InMemStorage) UpdateBudget(_ context.Context, category string, rec finance.BudgetRecord) (finance.BudgetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.budgetIndex[category]
	if !ok {
		return finance.BudgetRecord{}, &customerr.NotFoundError{Category: category}
	}
	rec.Category = category
	s.budgets[i] = rec
	s.revision++
	return rec, nil
}

// Snapshot copies expenses and budgets under one lock together with the
// version they belong to.
func (s *InMemStorage) Snapshot(_ context.Context) (finance.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := finance.Snapshot{
		Expenses: make([]finance.ExpenseRecord, len(s.expenses)),
		Budgets:  make([]finance.BudgetRecord, len(s.budgets)),
		Version:  s.epoch + "-" + strconv.FormatUint(s.revision, 10),
	}
	copy(res.Expenses, s.expenses)
	copy(res.Budgets, s.budgets)
	return res, nil
}

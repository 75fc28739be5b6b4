package whatif

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"max.ks1230/smartsaver/internal/entity/finance"
)

// Simulate applies adjustments to a copy of budgets. Output keeps the input
// order and Spent values. Adjustments for categories that have no budget are
// dropped, no record is created for them.
func Simulate(budgets []finance.BudgetRecord, adjustments finance.AdjustmentSet) []finance.BudgetRecord {
	res := make([]finance.BudgetRecord, 0, len(budgets))
	for _, b := range budgets {
		res = append(res, finance.BudgetRecord{
			Category:    b.Category,
			TotalBudget: b.TotalBudget + adjustments[b.Category],
			Spent:       b.Spent,
		})
	}
	return res
}

type budgetReader interface {
	ListBudgets(ctx context.Context) ([]finance.BudgetRecord, error)
}

type Service struct {
	ledger budgetReader
}

func NewService(ledger budgetReader) *Service {
	return &Service{ledger: ledger}
}

// Simulate runs a what-if over the currently stored budgets without
// changing them.
func (s *Service) Simulate(ctx context.Context, adjustments finance.AdjustmentSet) ([]finance.BudgetRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "whatIf")
	defer span.Finish()

	budgets, err := s.ledger.ListBudgets(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "what-if")
	}
	return Simulate(budgets, adjustments), nil
}

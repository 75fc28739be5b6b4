package ledger

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/event"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/logger"
)

type ledgerStorage interface {
	ListExpenses(ctx context.Context) ([]finance.ExpenseRecord, error)
	AddExpense(ctx context.Context, rec finance.ExpenseRecord) (finance.ExpenseRecord, error)
	ListBudgets(ctx context.Context) ([]finance.BudgetRecord, error)
	UpdateBudget(ctx context.Context, category string, rec finance.BudgetRecord) (finance.BudgetRecord, error)
	Snapshot(ctx context.Context) (finance.Snapshot, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev event.LedgerEvent) error
}

// Service is the single entry point for ledger reads and writes. Committed
// writes are announced to every publisher.
type Service struct {
	storage    ledgerStorage
	publishers []EventPublisher
}

func NewService(storage ledgerStorage, publishers ...EventPublisher) *Service {
	return &Service{
		storage:    storage,
		publishers: publishers,
	}
}

func (s *Service) ListExpenses(ctx context.Context) ([]finance.ExpenseRecord, error) {
	res, err := s.storage.ListExpenses(ctx)
	return res, errors.Wrap(err, "list expenses")
}

func (s *Service) ListBudgets(ctx context.Context) ([]finance.BudgetRecord, error) {
	res, err := s.storage.ListBudgets(ctx)
	return res, errors.Wrap(err, "list budgets")
}

func (s *Service) Snapshot(ctx context.Context) (finance.Snapshot, error) {
	res, err := s.storage.Snapshot(ctx)
	return res, errors.Wrap(err, "ledger snapshot")
}

func (s *Service) AddExpense(ctx context.Context, rec finance.ExpenseRecord) (finance.ExpenseRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "addExpense")
	defer span.Finish()
	span.SetTag("category", rec.Category)

	added, err := s.storage.AddExpense(ctx, rec)
	if err != nil {
		ext.Error.Set(span, true)
		return finance.ExpenseRecord{}, errors.Wrap(err, "add expense")
	}

	s.afterWrite(ctx, event.NewExpenseAdded(added))
	return added, nil
}

func (s *Service) UpdateBudget(ctx context.Context, category string, rec finance.BudgetRecord) (finance.BudgetRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateBudget")
	defer span.Finish()
	span.SetTag("category", category)

	updated, err := s.storage.UpdateBudget(ctx, category, rec)
	if err != nil {
		ext.Error.Set(span, true)
		return finance.BudgetRecord{}, errors.Wrap(err, "update budget")
	}

	s.afterWrite(ctx, event.NewBudgetUpdated(updated))
	return updated, nil
}

func (s *Service) afterWrite(ctx context.Context, ev event.LedgerEvent) {
	for _, p := range s.publishers {
		if err := p.PublishEvent(ctx, ev); err != nil {
			logger.Error("failed to publish ledger event",
				zap.Error(err),
				zap.String("id", ev.ID),
				zap.String("kind", string(ev.Kind)))
		}
	}
}

package reports

import (
	"context"
	"sort"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/logger"
)

type ledgerReader interface {
	ListExpenses(ctx context.Context) ([]finance.ExpenseRecord, error)
	ListBudgets(ctx context.Context) ([]finance.BudgetRecord, error)
}

// Record sums the expenses of one category against its budget. Budgeted is
// false for categories that have no budget record.
type Record struct {
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Count     int     `json:"count"`
	Budget    float64 `json:"budget"`
	Budgeted  bool    `json:"budgeted"`
	Remaining float64 `json:"remaining"`
}

type Report struct {
	Records     []Record `json:"records"`
	TotalAmount float64  `json:"total_amount"`
	TotalBudget float64  `json:"total_budget"`
}

type Generator struct {
	ledger ledgerReader
}

func NewGenerator(ledger ledgerReader) *Generator {
	return &Generator{ledger: ledger}
}

func (g *Generator) GenerateReport(ctx context.Context) (*Report, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "generateReport")
	defer span.Finish()

	logger.Info("GenerateReport - start")
	defer logger.Info("GenerateReport - end")

	expenses, err := g.ledger.ListExpenses(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "generate report")
	}
	budgets, err := g.ledger.ListBudgets(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "generate report")
	}

	report := groupExpenses(expenses, budgets)
	logger.Info("report generated", zap.Int("categories", len(report.Records)))
	return report, nil
}

// groupExpenses builds one record per category that has expenses or a
// budget, biggest spend first.
func groupExpenses(exps []finance.ExpenseRecord, budgets []finance.BudgetRecord) *Report {
	byCategory := make(map[string]*Record)
	get := func(cat string) *Record {
		rec, ok := byCategory[cat]
		if !ok {
			rec = &Record{Category: cat}
			byCategory[cat] = rec
		}
		return rec
	}

	report := &Report{}
	for _, exp := range exps {
		rec := get(exp.Category)
		rec.Amount += exp.Amount
		rec.Count++
		report.TotalAmount += exp.Amount
	}
	for _, b := range budgets {
		rec := get(b.Category)
		rec.Budget = b.TotalBudget
		rec.Budgeted = true
		report.TotalBudget += b.TotalBudget
	}

	report.Records = make([]Record, 0, len(byCategory))
	for _, rec := range byCategory {
		rec.Remaining = rec.Budget - rec.Amount
		report.Records = append(report.Records, *rec)
	}
	sort.Slice(report.Records, func(i, j int) bool {
		if report.Records[i].Amount != report.Records[j].Amount {
			return report.Records[i].Amount > report.Records[j].Amount
		}
		return report.Records[i].Category < report.Records[j].Category
	})
	return report
}

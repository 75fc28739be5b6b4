package messages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/model/customerr"
	"max.ks1230/smartsaver/internal/model/reports"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am SmartSaver bot 🤖\n\n" + helpMessage
	helpMessage           = "/expense <category> <amount> - add an expense\n" +
		"/expenses - list expenses\n" +
		"/budgets - list budgets\n" +
		"/budget <category> <total> <spent> - update a budget\n" +
		"/forecast - projected savings\n" +
		"/whatif <category>=<delta> ... - simulate budget changes\n" +
		"/report - spending per category against budgets\n" +
		"/stocks [ticker ...] - recent closing prices\n" +
		"Anything else goes to the assistant."
	okMessage          = "Gotcha!"
	noExpensesMessage  = "You have no expenses yet"
	noBudgetsMessage   = "You have no budgets yet"
	noForecastMessage  = "Nothing to forecast yet"
	noReportMessage    = "Nothing to report yet"
	noPricesMessage    = "no data"
	emptyInputMessage  = "Say something and I will ask the assistant"
	unavailableMessage = "The assistant is unavailable right now"

	incorrectUsageMessage      = "That is an incorrect command usage"
	incorrectAmountMessage     = "Your amount is incorrect"
	incorrectAdjustmentMessage = "Adjustments should look like Food=100 Bills=-50"
	unknownBudgetMessage       = "There is no budget for category %s"
	cannotGetLedgerMessage     = "Can't get your ledger atm. Try later"
	cannotSaveMessage          = "Can't save it atm. Try later"
)

const (
	startCommand    = "/start"
	helpCommand     = "/help"
	expenseCommand  = "/expense"
	expensesCommand = "/expenses"
	budgetsCommand  = "/budgets"
	budgetCommand   = "/budget"
	forecastCommand = "/forecast"
	whatIfCommand   = "/whatif"
	stocksCommand   = "/stocks"
	reportCommand   = "/report"
)

type ledger interface {
	ListExpenses(ctx context.Context) ([]finance.ExpenseRecord, error)
	AddExpense(ctx context.Context, rec finance.ExpenseRecord) (finance.ExpenseRecord, error)
	ListBudgets(ctx context.Context) ([]finance.BudgetRecord, error)
	UpdateBudget(ctx context.Context, category string, rec finance.BudgetRecord) (finance.BudgetRecord, error)
}

type forecaster interface {
	Forecast(ctx context.Context) (finance.Forecast, error)
}

type simulator interface {
	Simulate(ctx context.Context, adjustments finance.AdjustmentSet) ([]finance.BudgetRecord, error)
}

type reporter interface {
	GenerateReport(ctx context.Context) (*reports.Report, error)
}

type quotesProvider interface {
	RecentCloses(ctx context.Context, tickers []string) market.Quotes
}

type assistant interface {
	Ask(ctx context.Context, message string) (string, error)
}

type handler func(ctx context.Context, arg string, userID int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	ledger      ledger
	forecaster  forecaster
	simulator   simulator
	reporter    reporter
	quotes      quotesProvider
	assistant   assistant
}

func newHandler(
	ledger ledger,
	forecaster forecaster,
	simulator simulator,
	reporter reporter,
	quotes quotesProvider,
	assistant assistant,
) *HandlerService {
	res := &HandlerService{
		ledger:     ledger,
		forecaster: forecaster,
		simulator:  simulator,
		reporter:   reporter,
		quotes:     quotes,
		assistant:  assistant,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, userID)
	}
	return dontUnderstandMessage, nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[helpCommand] = s.handleHelp
	m[expenseCommand] = s.handleExpense
	m[expensesCommand] = s.handleExpenses
	m[budgetsCommand] = s.handleBudgets
	m[budgetCommand] = s.handleBudget
	m[forecastCommand] = s.handleForecast
	m[whatIfCommand] = s.handleWhatIf
	m[reportCommand] = s.handleReport
	m[stocksCommand] = s.handleStocks

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (string, error) {
	return helloMessage, nil
}

func (s *HandlerService) handleHelp(_ context.Context, _ string, _ int64) (string, error) {
	return helpMessage, nil
}

func (s *HandlerService) handleExpense(ctx context.Context, arg string, _ int64) (string, error) {
	args := strings.Fields(arg)
	if len(args) != 2 {
		return incorrectUsageMessage, nil
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return incorrectAmountMessage, errors.Wrap(err, "handle expense")
	}

	added, err := s.ledger.AddExpense(ctx, finance.ExpenseRecord{Category: args[0], Amount: amount})
	if err != nil {
		return cannotSaveMessage, errors.Wrap(err, "handle expense")
	}
	return okMessage + "\n" + formatAmount(added.Category, added.Amount), nil
}

func (s *HandlerService) handleExpenses(ctx context.Context, _ string, _ int64) (string, error) {
	expenses, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		return cannotGetLedgerMessage, errors.Wrap(err, "handle expenses")
	}
	if len(expenses) == 0 {
		return noExpensesMessage, nil
	}
	return formatExpenses(expenses), nil
}

func (s *HandlerService) handleBudgets(ctx context.Context, _ string, _ int64) (string, error) {
	budgets, err := s.ledger.ListBudgets(ctx)
	if err != nil {
		return cannotGetLedgerMessage, errors.Wrap(err, "handle budgets")
	}
	if len(budgets) == 0 {
		return noBudgetsMessage, nil
	}
	return formatBudgets(budgets), nil
}

func (s *HandlerService) handleBudget(ctx context.Context, arg string, _ int64) (string, error) {
	args := strings.Fields(arg)
	if len(args) != 3 {
		return incorrectUsageMessage, nil
	}
	total, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return incorrectAmountMessage, errors.Wrap(err, "handle budget")
	}
	spent, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return incorrectAmountMessage, errors.Wrap(err, "handle budget")
	}

	category := args[0]
	updated, err := s.ledger.UpdateBudget(ctx, category, finance.BudgetRecord{
		Category:    category,
		TotalBudget: total,
		Spent:       spent,
	})
	if customerr.IsNotFound(err) {
		return fmt.Sprintf(unknownBudgetMessage, category), nil
	}
	if err != nil {
		return cannotSaveMessage, errors.Wrap(err, "handle budget")
	}
	return okMessage + "\n" + formatBudgets([]finance.BudgetRecord{updated}), nil
}

func (s *HandlerService) handleForecast(ctx context.Context, _ string, _ int64) (string, error) {
	forecast, err := s.forecaster.Forecast(ctx)
	if err != nil {
		return cannotGetLedgerMessage, errors.Wrap(err, "handle forecast")
	}
	if len(forecast) == 0 {
		return noForecastMessage, nil
	}
	return formatForecast(forecast), nil
}

func (s *HandlerService) handleWhatIf(ctx context.Context, arg string, _ int64) (string, error) {
	adjustments, err := parseAdjustments(arg)
	if err != nil {
		return incorrectAdjustmentMessage, errors.Wrap(err, "handle what-if")
	}

	budgets, err := s.simulator.Simulate(ctx, adjustments)
	if err != nil {
		return cannotGetLedgerMessage, errors.Wrap(err, "handle what-if")
	}
	if len(budgets) == 0 {
		return noBudgetsMessage, nil
	}
	return formatBudgets(budgets), nil
}

func (s *HandlerService) handleReport(ctx context.Context, _ string, _ int64) (string, error) {
	report, err := s.reporter.GenerateReport(ctx)
	if err != nil {
		return cannotGetLedgerMessage, errors.Wrap(err, "handle report")
	}
	if len(report.Records) == 0 {
		return noReportMessage, nil
	}
	return formatReport(report), nil
}

func (s *HandlerService) handleStocks(ctx context.Context, arg string, _ int64) (string, error) {
	quotes := s.quotes.RecentCloses(ctx, strings.Fields(arg))
	return formatQuotes(quotes), nil
}

func (s *HandlerService) handleNoCommand(ctx context.Context, arg string, _ int64) (string, error) {
	if strings.TrimSpace(arg) == "" {
		return emptyInputMessage, nil
	}
	reply, err := s.assistant.Ask(ctx, arg)
	if err != nil {
		return unavailableMessage, errors.Wrap(err, "handle chat")
	}
	return reply, nil
}

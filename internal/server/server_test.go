package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/smartsaver/internal/entity/event"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/model/customerr"
	"max.ks1230/smartsaver/internal/model/forecast"
	ledgersvc "max.ks1230/smartsaver/internal/model/ledger"
	"max.ks1230/smartsaver/internal/model/reports"
	"max.ks1230/smartsaver/internal/model/storage"
	"max.ks1230/smartsaver/internal/model/whatif"
)

type testConfig struct {
	origins []string
}

func (c testConfig) Addr() string             { return ":0" }
func (c testConfig) AllowedOrigins() []string { return c.origins }

type quotesMock struct {
	mock.Mock
}

func (m *quotesMock) RecentCloses(ctx context.Context, tickers []string) market.Quotes {
	return m.Called(ctx, tickers).Get(0).(market.Quotes)
}

type assistantMock struct {
	mock.Mock
}

func (m *assistantMock) Ask(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

type fixture struct {
	store     *storage.InMemStorage
	quotes    *quotesMock
	assistant *assistantMock
	hub       *Hub
	server    *httptest.Server
}

func newFixture(t *testing.T, origins ...string) *fixture {
	t.Helper()

	f := &fixture{
		store:     storage.NewInMemStorage(storage.DefaultSeed{}),
		quotes:    &quotesMock{},
		assistant: &assistantMock{},
		hub:       NewHub(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go f.hub.Run(ctx)

	ledgerService := ledgersvc.NewService(f.store, f.hub)
	srv := New(
		testConfig{origins: origins},
		ledgerService,
		forecast.NewService(ledgerService, nil),
		whatif.NewService(ledgerService),
		reports.NewGenerator(ledgerService),
		f.quotes,
		f.assistant,
		f.hub,
	)
	f.server = httptest.NewServer(srv.Routes())

	t.Cleanup(func() {
		f.server.Close()
		cancel()
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decode(t *testing.T, res *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
}

func Test_Root_ShouldReportRunning(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body map[string]string
	decode(t, res, &body)
	assert.Equal(t, "SmartSaver AI Backend Running", body["message"])
}

func Test_AddExpense_ShouldEchoAndAppend(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodPost, "/expenses/", `{"category":"Test","amount":50}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var added finance.ExpenseRecord
	decode(t, res, &added)
	assert.Equal(t, finance.ExpenseRecord{Category: "Test", Amount: 50}, added)

	res = f.do(t, http.MethodGet, "/expenses/", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var expenses []finance.ExpenseRecord
	decode(t, res, &expenses)
	require.Len(t, expenses, 13)
	assert.Equal(t, added, expenses[12])
}

func Test_AddExpense_WithBrokenJSON_ShouldBeBadRequest(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodPost, "/expenses/", `{"category":`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func Test_UpdateBudget_ShouldReplaceRecord(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodPut, "/budget/Food", `{"category":"Food","total_budget":650,"spent":260}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var updated finance.BudgetRecord
	decode(t, res, &updated)
	assert.Equal(t, finance.BudgetRecord{Category: "Food", TotalBudget: 650, Spent: 260}, updated)

	res = f.do(t, http.MethodGet, "/budget/", "")
	var budgets []finance.BudgetRecord
	decode(t, res, &budgets)
	assert.Equal(t, updated, budgets[0])
}

func Test_UpdateUnknownBudget_ShouldBeNotFound(t *testing.T) {
	f := newFixture(t)
	before, _ := f.store.ListBudgets(context.Background())

	res := f.do(t, http.MethodPut, "/budget/Unknown", `{"category":"Unknown","total_budget":1,"spent":0}`)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	var body errorResponse
	decode(t, res, &body)
	assert.Equal(t, kindNotFound, body.Error)

	after, _ := f.store.ListBudgets(context.Background())
	assert.Equal(t, before, after)
}

func Test_Forecast_ShouldReturnSavingsPerCategory(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodGet, "/forecast/", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body finance.Forecast
	decode(t, res, &body)

	assert.Len(t, body, 4)
	assert.InDelta(t, 280.0, body["Food"], 1e-9)
	assert.InDelta(t, 120.0, body["Entertainment"], 1e-9)
	assert.InDelta(t, 70.0, body["Bills"], 1e-9)
	assert.InDelta(t, 180.0, body["Savings"], 1e-9)
}

func Test_Report_ShouldSumSeedByCategory(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodGet, "/report/", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body reports.Report
	decode(t, res, &body)

	assert.Equal(t, 2550.0, body.TotalAmount)
	assert.Equal(t, 1450.0, body.TotalBudget)
	require.Len(t, body.Records, 4)
	assert.Equal(t, "Bills", body.Records[0].Category)
	assert.Equal(t, -550.0, body.Records[0].Remaining)
}

func Test_WhatIf_ShouldAdjustWithoutMutating(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodPost, "/whatif/", `{"adjustments":{"Food":100,"Entertainment":-50,"Travel":5}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body []finance.BudgetRecord
	decode(t, res, &body)

	require.Len(t, body, 4)
	assert.Equal(t, finance.BudgetRecord{Category: "Food", TotalBudget: 600, Spent: 250}, body[0])
	assert.Equal(t, finance.BudgetRecord{Category: "Entertainment", TotalBudget: 150, Spent: 100}, body[1])

	stored, _ := f.store.ListBudgets(context.Background())
	assert.Equal(t, 500.0, stored[0].TotalBudget)
}

func Test_WhatIf_WithWrongMethod_ShouldBeRejected(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodGet, "/whatif/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, "POST", res.Header.Get("Allow"))
}

func Test_Stocks_ShouldPassTickers(t *testing.T) {
	f := newFixture(t)
	f.quotes.On("RecentCloses", mock.Anything, []string{"AAPL", "MSFT"}).
		Return(market.Quotes{"AAPL": {1.1}, "MSFT": {}})

	res := f.do(t, http.MethodGet, "/stocks/?tickers=AAPL,MSFT", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body market.Quotes
	decode(t, res, &body)
	assert.Equal(t, market.Quotes{"AAPL": {1.1}, "MSFT": {}}, body)
}

func Test_Chat_ShouldReturnReply(t *testing.T) {
	f := newFixture(t)
	f.assistant.On("Ask", mock.Anything, "Hello").Return("Hi!", nil)

	res := f.do(t, http.MethodPost, "/chat/", `{"message":"Hello","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body chatResponse
	decode(t, res, &body)
	assert.Equal(t, "Hi!", body.Reply)
}

func Test_Chat_WhenUnavailable_ShouldSurfaceDiagnostic(t *testing.T) {
	f := newFixture(t)
	f.assistant.On("Ask", mock.Anything, "Hello").
		Return("", &customerr.ServiceUnavailableError{Service: "assistant", Err: errors.New("no key")})

	res := f.do(t, http.MethodPost, "/chat/", `{"message":"Hello"}`)
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	var body errorResponse
	decode(t, res, &body)
	assert.Equal(t, kindNoService, body.Error)
	assert.Equal(t, "assistant unavailable: no key", body.Detail)
}

func Test_Cors_ShouldEchoAllowedOriginOnly(t *testing.T) {
	f := newFixture(t, "http://localhost:5173")

	req, _ := http.NewRequest(http.MethodOptions, f.server.URL+"/expenses/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func Test_WebSocket_ShouldStreamLedgerEvents(t *testing.T) {
	f := newFixture(t)

	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	res := f.do(t, http.MethodPost, "/expenses/", `{"category":"Live","amount":7}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev event.LedgerEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, event.ExpenseAdded, ev.Kind)
	assert.Equal(t, "Live", ev.Category)
	assert.Equal(t, 7.0, ev.Expense.Amount)
}

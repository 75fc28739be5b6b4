package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/logger"
	"max.ks1230/smartsaver/internal/model/reports"
	"max.ks1230/smartsaver/internal/utils"
)

const (
	shutdownTimeout = 5 * time.Second
	readTimeout     = 10 * time.Second
	maxRequestBody  = 1 << 20
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

type config interface {
	Addr() string
	AllowedOrigins() []string
}

// Server exposes the ledger, forecast, what-if and collaborator operations
// over HTTP.
type Server struct {
	ledger     ledger
	forecaster forecaster
	simulator  simulator
	reporter   reporter
	quotes     quotesProvider
	assistant  assistant
	hub        *Hub
	origins    []string
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func New(
	config config,
	ledger ledger,
	forecaster forecaster,
	simulator simulator,
	reporter reporter,
	quotes quotesProvider,
	assistant assistant,
	hub *Hub,
) *Server {
	s := &Server{
		ledger:     ledger,
		forecaster: forecaster,
		simulator:  simulator,
		reporter:   reporter,
		quotes:     quotes,
		assistant:  assistant,
		hub:        hub,
		origins:    config.AllowedOrigins(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	s.httpServer = &http.Server{
		Addr:              config.Addr(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: readTimeout,
	}
	return s
}

// Routes builds the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", s.api("root", s.handleRoot))
	mux.Handle("/expenses", s.api("expenses", s.handleExpenses))
	mux.Handle("/expenses/", s.api("expenses", s.handleExpenses))
	mux.Handle("/budget", s.api("budget", s.handleBudgets))
	mux.Handle("/budget/", s.api("budget", s.handleBudgets))
	mux.Handle("/forecast", s.api("forecast", s.handleForecast))
	mux.Handle("/forecast/", s.api("forecast", s.handleForecast))
	mux.Handle("/whatif", s.api("whatif", s.handleWhatIf))
	mux.Handle("/whatif/", s.api("whatif", s.handleWhatIf))
	mux.Handle("/report", s.api("report", s.handleReport))
	mux.Handle("/report/", s.api("report", s.handleReport))
	mux.Handle("/stocks", s.api("stocks", s.handleStocks))
	mux.Handle("/stocks/", s.api("stocks", s.handleStocks))
	mux.Handle("/chat", s.api("chat", s.handleChat))
	mux.Handle("/chat/", s.api("chat", s.handleChat))
	mux.Handle("/metrics", promhttp.Handler())
	if s.hub != nil {
		mux.HandleFunc("/ws", s.handleWebSocket)
	}

	return mux
}

func (s *Server) api(route string, h http.HandlerFunc) http.Handler {
	return s.cors(instrument(route, h))
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen http")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http")
	}
	logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.originAllowed(origin) {
			if len(s.origins) == 0 {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return len(s.origins) == 0 || utils.Contains(s.origins, origin)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.originAllowed(origin)
}

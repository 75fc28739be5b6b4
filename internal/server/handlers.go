package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/logger"
	"max.ks1230/smartsaver/internal/model/customerr"
)

const (
	rootMessage   = "SmartSaver AI Backend Running"
	budgetPrefix  = "/budget/"
	tickersParam  = "tickers"
	tickersSplit  = ","
	kindNotFound  = "NotFound"
	kindBadInput  = "BadRequest"
	kindMethod    = "MethodNotAllowed"
	kindInternal  = "Internal"
	kindNoService = "ServiceUnavailable"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type whatIfRequest struct {
	Adjustments finance.AdjustmentSet `json:"adjustments"`
}

type chatRequest struct {
	Message string  `json:"message"`
	UserID  *string `json:"user_id,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, kindNotFound, "no route for "+r.URL.Path)
		return
	}
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.ledger.ListExpenses(r.Context())
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, expenses)
	case http.MethodPost:
		var rec finance.ExpenseRecord
		if !decodeBody(w, r, &rec) {
			return
		}
		added, err := s.ledger.AddExpense(r.Context(), rec)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, added)
	default:
		allowMethods(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimPrefix(r.URL.Path, budgetPrefix)
	if category == r.URL.Path {
		category = ""
	}

	if category == "" {
		if !allowMethods(w, r, http.MethodGet) {
			return
		}
		budgets, err := s.ledger.ListBudgets(r.Context())
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, budgets)
		return
	}

	if !allowMethods(w, r, http.MethodPut) {
		return
	}
	var rec finance.BudgetRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	updated, err := s.ledger.UpdateBudget(r.Context(), category, rec)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	forecast, err := s.forecaster.Forecast(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	report, err := s.reporter.GenerateReport(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	var req whatIfRequest
	if !decodeBody(w, r, &req) {
		return
	}
	budgets, err := s.simulator.Simulate(r.Context(), req.Adjustments)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	var tickers []string
	if raw := r.URL.Query().Get(tickersParam); raw != "" {
		tickers = strings.Split(raw, tickersSplit)
	}
	writeJSON(w, http.StatusOK, s.quotes.RecentCloses(r.Context(), tickers))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID != nil {
		logger.Info("chat request", zap.String("user", *req.UserID))
	}

	reply, err := s.assistant.Ask(r.Context(), req.Message)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed to upgrade to websocket", zap.Error(err))
		return
	}

	s.hub.Register(conn)

	go func() {
		for {
			// clients never send anything meaningful, reading only detects disconnects
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("websocket read failed", zap.Error(err))
				}
				s.hub.Unregister(conn)
				return
			}
		}
	}()
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, kindMethod, r.Method+" is not allowed")
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, kindBadInput, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case customerr.IsNotFound(err):
		writeError(w, http.StatusNotFound, kindNotFound, err.Error())
	case customerr.IsServiceUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, kindNoService, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kindInternal, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorResponse{Error: kind, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

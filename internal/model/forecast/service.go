package forecast

import (
	"context"
	"encoding/json"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/finance"
	"max.ks1230/smartsaver/internal/logger"
)

type ledgerReader interface {
	Snapshot(ctx context.Context) (finance.Snapshot, error)
}

// forecastCache stores forecasts by ledger version, so an entry can never
// outlive the state it was computed from.
type forecastCache interface {
	GetForecast(version string) ([]byte, error)
	CacheForecast(version string, forecast []byte) error
}

type Service struct {
	ledger ledgerReader
	cache  forecastCache
}

// NewService builds a forecast service. cache may be nil.
func NewService(ledger ledgerReader, cache forecastCache) *Service {
	return &Service{
		ledger: ledger,
		cache:  cache,
	}
}

// Forecast projects savings per category from the current ledger snapshot.
func (s *Service) Forecast(ctx context.Context) (finance.Forecast, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "forecast")
	defer span.Finish()

	snapshot, err := s.ledger.Snapshot(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "forecast")
	}
	span.SetTag("version", snapshot.Version)

	if cached, ok := s.fromCache(snapshot.Version); ok {
		observeCache(true)
		return cached, nil
	}
	observeCache(false)

	res := ProjectSavings(GroupByCategory(snapshot.Expenses), BudgetTotals(snapshot.Budgets))
	span.SetTag("categories", len(res))

	s.toCache(snapshot.Version, res)
	return res, nil
}

func (s *Service) fromCache(version string) (finance.Forecast, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.GetForecast(version)
	if err != nil {
		return nil, false
	}
	var res finance.Forecast
	if err = json.Unmarshal(raw, &res); err != nil {
		logger.Warn("broken cached forecast", zap.Error(err))
		return nil, false
	}
	return res, true
}

func (s *Service) toCache(version string, forecast finance.Forecast) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(forecast)
	if err != nil {
		logger.Error("cannot marshal forecast", zap.Error(err))
		return
	}
	if err = s.cache.CacheForecast(version, raw); err != nil {
		logger.Error("cannot cache forecast", zap.Error(err))
	}
}

package stocks

import (
	"context"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/logger"
	"max.ks1230/smartsaver/internal/utils"
)

const (
	closesPerTicker = 5
	pricePlaces     = 2
)

type closesProvider interface {
	GetCloses(ctx context.Context, ticker string, from, to time.Time) ([]float64, error)
}

type config interface {
	Lookback() int
}

type Provider struct {
	provider     closesProvider
	lookbackDays int
	clock        func() time.Time
}

func NewProvider(provider closesProvider, config config) *Provider {
	return &Provider{
		provider:     provider,
		lookbackDays: config.Lookback(),
		clock:        time.Now,
	}
}

// RecentCloses returns up to the last five closes of every ticker, rounded to
// cents. A ticker that cannot be fetched maps to an empty list and does not
// affect the others. No tickers means the default set.
func (p *Provider) RecentCloses(ctx context.Context, tickers []string) market.Quotes {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recentCloses")
	defer span.Finish()

	tickers = normalize(tickers)
	if len(tickers) == 0 {
		tickers = market.DefaultTickers
	}

	to := p.clock()
	from := now.With(to).BeginningOfDay().AddDate(0, 0, -p.lookbackDays)

	res := make(market.Quotes, len(tickers))
	for _, ticker := range tickers {
		res[ticker] = p.closesOf(ctx, ticker, from, to)
	}
	return res
}

func (p *Provider) closesOf(ctx context.Context, ticker string, from, to time.Time) []float64 {
	span, ctx := opentracing.StartSpanFromContext(ctx, "closesOf")
	defer span.Finish()
	span.SetTag("ticker", ticker)

	closes, err := p.provider.GetCloses(ctx, ticker, from, to)
	if err != nil {
		ext.Error.Set(span, true)
		logger.Warn("partial data unavailable", zap.String("ticker", ticker), zap.Error(err))
		return []float64{}
	}

	if len(closes) > closesPerTicker {
		closes = closes[len(closes)-closesPerTicker:]
	}
	res := make([]float64, 0, len(closes))
	for _, c := range closes {
		res = append(res, roundPrice(c))
	}
	return res
}

func roundPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Round(pricePlaces).InexactFloat64()
}

func normalize(tickers []string) []string {
	res := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			res = append(res, t)
		}
	}
	return utils.Unique(res)
}

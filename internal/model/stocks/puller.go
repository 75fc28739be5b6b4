package stocks

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/logger"
)

type quotesProvider interface {
	RecentCloses(ctx context.Context, tickers []string) market.Quotes
}

type pullerConfig interface {
	PullingDelayMinutes() int64
}

// Puller refreshes the default tickers into a snapshot on a fixed delay.
type Puller struct {
	provider     quotesProvider
	snapshot     *Snapshot
	tickers      []string
	pullingDelay time.Duration
}

func NewPuller(provider quotesProvider, snapshot *Snapshot, config pullerConfig) *Puller {
	return &Puller{
		provider:     provider,
		snapshot:     snapshot,
		tickers:      market.DefaultTickers,
		pullingDelay: time.Duration(config.PullingDelayMinutes()) * time.Minute,
	}
}

func (p *Puller) Pull(ctx context.Context) {
	ticker := time.NewTicker(p.pullingDelay)
	defer ticker.Stop()
	firstTick := make(chan struct{}, 1)
	firstTick <- struct{}{}

	logger.Info("Start pulling quotes")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop pulling quotes")
			return
		// fake first tick to pull quotes immediately
		case <-firstTick:
			p.pullOnce(ctx)
		case <-ticker.C:
			p.pullOnce(ctx)
		}
	}
}

func (p *Puller) pullOnce(ctx context.Context) {
	logger.Info("Pulling recent quotes...")

	span, ctx := opentracing.StartSpanFromContext(ctx, "pullQuotes")
	defer span.Finish()

	quotes := p.provider.RecentCloses(ctx, p.tickers)
	p.snapshot.Update(quotes)

	logger.Info("Pulled recent quotes", zap.Int("tickers", len(quotes)))
}

// CachedProvider answers from the snapshot when it covers the request and
// falls back to a live fetch otherwise.
type CachedProvider struct {
	provider quotesProvider
	snapshot *Snapshot
}

func NewCachedProvider(provider quotesProvider, snapshot *Snapshot) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		snapshot: snapshot,
	}
}

func (p *CachedProvider) RecentCloses(ctx context.Context, tickers []string) market.Quotes {
	tickers = normalize(tickers)
	if len(tickers) == 0 {
		tickers = market.DefaultTickers
	}

	if quotes, ok := p.snapshot.Lookup(tickers); ok {
		snapshotLookups.WithLabelValues("hit").Inc()
		return quotes
	}
	snapshotLookups.WithLabelValues("miss").Inc()
	return p.provider.RecentCloses(ctx, tickers)
}

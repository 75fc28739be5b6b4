package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/clients/cache"
	"max.ks1230/smartsaver/internal/clients/kafka"
	"max.ks1230/smartsaver/internal/clients/openrouter"
	"max.ks1230/smartsaver/internal/clients/tg"
	"max.ks1230/smartsaver/internal/clients/yahoo"
	"max.ks1230/smartsaver/internal/config"
	"max.ks1230/smartsaver/internal/entity/market"
	"max.ks1230/smartsaver/internal/logger"
	"max.ks1230/smartsaver/internal/model/assistant"
	"max.ks1230/smartsaver/internal/model/forecast"
	"max.ks1230/smartsaver/internal/model/ledger"
	"max.ks1230/smartsaver/internal/model/messages"
	"max.ks1230/smartsaver/internal/model/reports"
	"max.ks1230/smartsaver/internal/model/stocks"
	"max.ks1230/smartsaver/internal/model/storage"
	"max.ks1230/smartsaver/internal/model/whatif"
	"max.ks1230/smartsaver/internal/server"
	"max.ks1230/smartsaver/internal/tracing"
)

type quotesProvider interface {
	RecentCloses(ctx context.Context, tickers []string) market.Quotes
}

func main() {
	defer logger.Sync()
	logger.Info("SmartSaver init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	closer, err := tracing.Init(conf.App().ServiceName(), conf.Jaeger())
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store *storage.InMemStorage
	if conf.Ledger().HasSeed() {
		store = storage.NewInMemStorage(conf.Ledger())
	} else {
		store = storage.NewInMemStorage(storage.DefaultSeed{})
	}

	hub := server.NewHub()
	publishers := []ledger.EventPublisher{hub}
	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer", zap.Error(err))
		}
		defer producer.Close()
		publishers = append(publishers, producer)
	}

	ledgerService := ledger.NewService(store, publishers...)
	var forecastService *forecast.Service
	if conf.Memcached().Enabled() {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Fatal("failed to init memcached", zap.Error(err))
		}
		forecastService = forecast.NewService(ledgerService, mc)
	} else {
		forecastService = forecast.NewService(ledgerService, nil)
	}

	whatIfService := whatif.NewService(ledgerService)
	reportGenerator := reports.NewGenerator(ledgerService)
	assistantService := assistant.NewService(openrouter.New(conf.Assistant()), conf.Assistant())

	liveQuotes := stocks.NewProvider(yahoo.New(conf.Market()), conf.Market())
	var quotes quotesProvider = liveQuotes
	var puller *stocks.Puller
	if delay := conf.Market().PullingDelayMinutes(); delay > 0 {
		snapshot := stocks.NewSnapshot(2 * time.Duration(delay) * time.Minute)
		puller = stocks.NewPuller(liveQuotes, snapshot, conf.Market())
		quotes = stocks.NewCachedProvider(liveQuotes, snapshot)
	}

	api := server.New(conf.HTTP(), ledgerService, forecastService, whatIfService, reportGenerator, quotes, assistantService, hub)

	logger.Info("SmartSaver init - end")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	if puller != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			puller.Pull(ctx)
		}()
	}

	if conf.Telegram().Enabled() {
		client, err := tg.New(conf.Telegram())
		if err != nil {
			logger.Fatal("failed to init telegram client", zap.Error(err))
		}
		msgService := messages.NewService(client, ledgerService, forecastService, whatIfService, reportGenerator, quotes, assistantService)

		wg.Add(1)
		go func() {
			defer wg.Done()
			client.ListenUpdates(ctx, msgService)
		}()
	}

	if err = api.ListenAndServe(ctx); err != nil {
		logger.Error("http server failed", zap.Error(err))
		cancel()
	}
	wg.Wait()
}

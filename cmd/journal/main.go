package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/clients/kafka"
	"max.ks1230/smartsaver/internal/config"
	"max.ks1230/smartsaver/internal/logger"
	"max.ks1230/smartsaver/internal/model/storage"
	"max.ks1230/smartsaver/internal/tracing"
)

const serviceSuffix = "-journal"

func main() {
	defer logger.Sync()
	logger.Info("Journal init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	closer, err := tracing.Init(conf.App().ServiceName()+serviceSuffix, conf.Jaeger())
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer closer.Close()

	db, err := storage.NewJournalStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}
	defer db.Close()

	consumer, err := kafka.NewConsumer(conf.Kafka(), db)
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	logger.Info("Journal init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Error("failed to consume ledger events", zap.Error(err))
	}
}

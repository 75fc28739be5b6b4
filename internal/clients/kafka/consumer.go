package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/smartsaver/internal/entity/event"
	"max.ks1230/smartsaver/internal/logger"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type eventSaver interface {
	SaveEvent(ctx context.Context, ev event.LedgerEvent) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	saver         eventSaver
}

func NewConsumer(cfg consumerConfig, saver eventSaver) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.EventsTopic(),
		saver:         saver,
	}, err
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Close() {
	if err := c.consumerGroup.Close(); err != nil {
		logger.Error("failed to close consumer group", zap.Error(err))
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.processMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	var ev event.LedgerEvent
	err := json.Unmarshal(message.Value, &ev)
	if err != nil {
		logger.Error("cannot unmarshal kafka message", zap.Error(err))
		return
	}

	logger.Info(
		"received ledger event",
		zap.ByteString("key", message.Key),
		zap.String("id", ev.ID),
		zap.String("kind", string(ev.Kind)),
	)
	if err = c.saver.SaveEvent(ctx, ev); err != nil {
		logger.Error("failed to save ledger event", zap.Error(err), zap.String("id", ev.ID))
	}
}

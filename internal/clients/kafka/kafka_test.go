package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/smartsaver/internal/entity/event"
	"max.ks1230/smartsaver/internal/entity/finance"
)

func testProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return config
}

func Test_OnPublishEvent_ShouldSendJSONEvent(t *testing.T) {
	sp := mocks.NewSyncProducer(t, testProducerConfig())
	ev := event.NewExpenseAdded(finance.ExpenseRecord{Category: "Food", Amount: 12})

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got event.LedgerEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.ID != ev.ID || got.Kind != event.ExpenseAdded || got.Expense.Amount != 12 {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	p := &Producer{producer: sp, topic: "ledger-events"}
	require.NoError(t, p.PublishEvent(context.Background(), ev))
	p.Close()
}

func Test_OnPublishFailure_ShouldWrapError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, testProducerConfig())
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &Producer{producer: sp, topic: "ledger-events"}
	err := p.PublishEvent(context.Background(), event.NewBudgetUpdated(finance.BudgetRecord{Category: "Food"}))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	p.Close()
}

type savedEvents struct {
	events []event.LedgerEvent
	err    error
}

func (s *savedEvents) SaveEvent(_ context.Context, ev event.LedgerEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func Test_OnConsumedMessage_ShouldSaveEvent(t *testing.T) {
	saver := &savedEvents{}
	c := &Consumer{saver: saver}
	ev := event.NewBudgetUpdated(finance.BudgetRecord{Category: "Bills", TotalBudget: 10})
	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	c.processMessage(context.Background(), &sarama.ConsumerMessage{Key: []byte("Bills"), Value: raw})

	require.Len(t, saver.events, 1)
	assert.Equal(t, ev.ID, saver.events[0].ID)
	assert.Equal(t, 10.0, saver.events[0].Budget.TotalBudget)
}

func Test_OnMalformedMessage_ShouldSkipSaving(t *testing.T) {
	saver := &savedEvents{}
	c := &Consumer{saver: saver}

	c.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")})

	assert.Empty(t, saver.events)
}

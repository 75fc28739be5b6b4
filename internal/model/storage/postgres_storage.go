package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"max.ks1230/smartsaver/internal/entity/event"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

const eventsTable = "ledger_events"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

// JournalStorage is an append-only audit trail of ledger events. It is never
// read back into the ledger.
type JournalStorage struct {
	db sq.BaseRunner
}

func NewJournalStorage(config config) (*JournalStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &JournalStorage{db}, nil
}

// SaveEvent stores ev once, redelivered events with a known ID are ignored.
func (s *JournalStorage) SaveEvent(ctx context.Context, ev event.LedgerEvent) error {
	var amount, total, spent sql.NullFloat64
	if ev.Expense != nil {
		amount = sql.NullFloat64{Float64: ev.Expense.Amount, Valid: true}
	}
	if ev.Budget != nil {
		total = sql.NullFloat64{Float64: ev.Budget.TotalBudget, Valid: true}
		spent = sql.NullFloat64{Float64: ev.Budget.Spent, Valid: true}
	}

	query := psql.Insert(eventsTable).
		Columns("id", "kind", "category", "amount", "total_budget", "spent", "occurred_at").
		Values(ev.ID, string(ev.Kind), ev.Category, amount, total, spent, ev.OccurredAt).
		Suffix("ON CONFLICT(id) DO NOTHING")

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save event")
}

func (s *JournalStorage) Close() error {
	if closer, ok := s.db.(*sql.DB); ok {
		return closer.Close()
	}
	return nil
}

package stocks

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"max.ks1230/smartsaver/internal/entity/market"
)

type closesMock struct {
	mock.Mock
}

func (m *closesMock) GetCloses(ctx context.Context, ticker string, from, to time.Time) ([]float64, error) {
	args := m.Called(ctx, ticker, from, to)
	closes, _ := args.Get(0).([]float64)
	return closes, args.Error(1)
}

type lookback int

func (l lookback) Lookback() int { return int(l) }

func newTestProvider(m *closesMock, at time.Time) *Provider {
	p := NewProvider(m, lookback(7))
	p.clock = func() time.Time { return at }
	return p
}

func Test_OnRecentCloses_ShouldKeepLastFiveRounded(t *testing.T) {
	at := time.Date(2024, 5, 10, 15, 30, 0, 0, time.Local)
	m := &closesMock{}
	from := time.Date(2024, 5, 3, 0, 0, 0, 0, time.Local)
	m.On("GetCloses", mock.Anything, "AAPL",
		mock.MatchedBy(func(got time.Time) bool { return got.Equal(from) }),
		mock.MatchedBy(func(got time.Time) bool { return got.Equal(at) })).
		Return([]float64{1, 2, 3.333, 4.005, 5.1, 6.129, 7.996}, nil)

	res := newTestProvider(m, at).RecentCloses(context.Background(), []string{" aapl "})

	assert.Equal(t, market.Quotes{"AAPL": {3.33, 4.01, 5.1, 6.13, 8}}, res)
	m.AssertExpectations(t)
}

func Test_OnTickerFailure_ShouldDegradeToEmptyList(t *testing.T) {
	m := &closesMock{}
	m.On("GetCloses", mock.Anything, "MSFT", mock.Anything, mock.Anything).Return([]float64{410.5}, nil)
	m.On("GetCloses", mock.Anything, "NOPE", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))

	res := newTestProvider(m, time.Now()).RecentCloses(context.Background(), []string{"MSFT", "NOPE", "MSFT"})

	assert.Equal(t, market.Quotes{"MSFT": {410.5}, "NOPE": {}}, res)
	m.AssertNumberOfCalls(t, "GetCloses", 2)
}

func Test_OnNoTickers_ShouldUseDefaultSet(t *testing.T) {
	m := &closesMock{}
	m.On("GetCloses", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]float64{}, nil)

	res := newTestProvider(m, time.Now()).RecentCloses(context.Background(), nil)

	assert.Len(t, res, len(market.DefaultTickers))
	for _, ticker := range market.DefaultTickers {
		assert.Contains(t, res, ticker)
	}
}

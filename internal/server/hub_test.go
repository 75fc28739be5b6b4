package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/smartsaver/internal/entity/event"
	"max.ks1230/smartsaver/internal/entity/finance"
)

func newHubServer(t *testing.T, hub *Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func Test_OnClientThatStopsReading_ShouldDropItAndKeepServing(t *testing.T) {
	hub := NewHub()
	hub.writeWait = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	url := newHubServer(t, hub)
	stalled, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer stalled.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	big := event.NewExpenseAdded(finance.ExpenseRecord{Category: strings.Repeat("x", 1<<20), Amount: 1})
	assert.Eventually(t, func() bool {
		_ = hub.PublishEvent(ctx, big)
		return hub.Clients() == 0
	}, 10*time.Second, 10*time.Millisecond)

	healthy, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer healthy.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
}

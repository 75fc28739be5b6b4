package stocks

import (
	"sync"
	"time"

	"max.ks1230/smartsaver/internal/entity/market"
)

type snapshotEntry struct {
	closes    []float64
	updatedAt time.Time
}

// Snapshot keeps the last successfully pulled closes per ticker. Each ticker
// ages on its own, a failed pull neither stores nor refreshes anything.
type Snapshot struct {
	mu      sync.RWMutex
	entries map[string]snapshotEntry
	ttl     time.Duration
	clock   func() time.Time
}

func NewSnapshot(ttl time.Duration) *Snapshot {
	return &Snapshot{
		entries: make(map[string]snapshotEntry),
		ttl:     ttl,
		clock:   time.Now,
	}
}

// Update stores every non-empty series of quotes.
func (s *Snapshot) Update(quotes market.Quotes) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.clock()
	for ticker, closes := range quotes {
		if len(closes) == 0 {
			continue
		}
		s.entries[ticker] = snapshotEntry{
			closes:    append([]float64(nil), closes...),
			updatedAt: at,
		}
	}
}

// Lookup returns copies of the requested tickers if every one of them has
// prices pulled within the TTL.
func (s *Snapshot) Lookup(tickers []string) (market.Quotes, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at := s.clock()
	res := make(market.Quotes, len(tickers))
	for _, ticker := range tickers {
		entry, ok := s.entries[ticker]
		if !ok || at.Sub(entry.updatedAt) > s.ttl {
			return nil, false
		}
		res[ticker] = append([]float64{}, entry.closes...)
	}
	return res, true
}

package scoreboard

import (
	"sync"

	"github.com/mauv0809/head2head/internal/common/clock"
	"github.com/mauv0809/head2head/internal/common/uuid"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/metrics"
	"github.com/mauv0809/head2head/internal/notifier"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/store"
)

// Service owns the ledger. It is the only writer: every mutation runs under
// the write lock and is saved before the lock is released.
type Service struct {
	mu     sync.RWMutex
	ledger *ledger.Ledger
	roster ledger.Roster

	store    store.Store
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	clock    clock.Clock
	ids      uuid.UUID
}

// Option customises a Service.
type Option func(*Service)

// WithClock sets the source of match timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithIDs sets the generator for match ids.
func WithIDs(ids uuid.UUID) Option {
	return func(s *Service) {
		s.ids = ids
	}
}

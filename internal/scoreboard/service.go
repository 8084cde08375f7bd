// Package scoreboard ties the ledger to storage, presenters and event publishing.
package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/common/clock"
	"github.com/mauv0809/head2head/internal/common/uuid"
	"github.com/mauv0809/head2head/internal/exchange"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/metrics"
	"github.com/mauv0809/head2head/internal/notifier"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/standings"
	"github.com/mauv0809/head2head/internal/store"
)

// New creates a scoreboard for roster. Call Start before serving requests.
func New(roster ledger.Roster, store store.Store, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger.New(roster),
		roster:   append(ledger.Roster{}, roster...),
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		clock:    &clock.DefaultClock{},
		ids:      uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the saved ledger and rebuilds player statistics from its match
// history. A missing ledger starts an empty one.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("No saved ledger found, starting fresh", "players", len(s.roster))
		s.ledger = ledger.New(s.roster)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if err := s.ledger.ReplaceState(loaded, s.roster); err != nil {
		return fmt.Errorf("saved ledger is invalid: %w", err)
	}
	s.ledger.Initialize(s.roster)
	log.Info("Loaded ledger", "matches", len(s.ledger.Matches))
	return nil
}

// RecordMatch validates and records one match, then saves the ledger. When
// the save fails the match stays recorded in memory and is returned together
// with the persistence error. dryRun only suppresses outgoing notifications.
func (s *Service) RecordMatch(ctx context.Context, in ledger.MatchInput, dryRun bool) (ledger.MatchRecord, error) {
	s.mu.Lock()
	match, err := s.ledger.RecordMatch(in, ledger.MatchID(s.ids.NewUUID()), s.clock.Now())
	if err != nil {
		s.mu.Unlock()
		s.metrics.IncValidationFailures()
		log.Warn("Rejected match", "error", err, "home", in.HomePlayer, "away", in.AwayPlayer)
		return ledger.MatchRecord{}, err
	}
	s.metrics.IncMatchesRecorded()
	saveErr := s.save(ctx)
	table := standings.Compute(s.ledger, s.roster)
	leader, hasLeader := standings.Leader(s.ledger, s.roster)
	s.mu.Unlock()

	log.Info("Match recorded", "matchID", match.ID, "home", match.HomePlayer, "away", match.AwayPlayer,
		"score", fmt.Sprintf("%d-%d", match.HomeScore, match.AwayScore))

	if err := s.notifier.SendMatchResult(match, table, dryRun); err != nil {
		log.Error("Failed to send match notification", "error", err, "matchID", match.ID)
	}
	event := pubsub.MatchRecordedEvent{Match: match}
	if hasLeader {
		event.Leader = leader.Name
	}
	s.publish(ctx, pubsub.EventMatchRecorded, event)

	return match, saveErr
}

// Reset clears the history and zeroes every player.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.ledger.Reset(s.roster)
	s.metrics.IncResets()
	err := s.save(ctx)
	s.mu.Unlock()

	log.Info("Ledger reset")
	s.publish(ctx, pubsub.EventLedgerReset, pubsub.LedgerResetEvent{At: s.clock.Now()})
	return err
}

// ReplaceState swaps the ledger for next, rebuilding statistics from its
// matches. An invalid ledger leaves the current state untouched.
func (s *Service) ReplaceState(ctx context.Context, next *ledger.Ledger) error {
	s.mu.Lock()
	if err := s.ledger.ReplaceState(next, s.roster); err != nil {
		s.mu.Unlock()
		s.metrics.IncValidationFailures()
		log.Warn("Rejected ledger replacement", "error", err)
		return err
	}
	matches := len(s.ledger.Matches)
	err := s.save(ctx)
	s.mu.Unlock()

	log.Info("Ledger replaced", "matches", matches)
	s.publish(ctx, pubsub.EventLedgerReplaced, pubsub.LedgerReplacedEvent{At: s.clock.Now(), Matches: matches})
	return err
}

// Import parses a ledger document and replaces the current state with it.
func (s *Service) Import(ctx context.Context, r io.Reader, format exchange.Format) error {
	next, err := exchange.Import(r, format)
	if err != nil {
		log.Warn("Rejected import", "error", err, "format", format)
		return err
	}
	// A failed save still leaves the imported ledger in memory.
	err = s.ReplaceState(ctx, next)
	if errors.Is(err, ledger.ErrValidation) {
		return err
	}
	s.metrics.IncImports()
	return err
}

// Export writes the current ledger to w.
func (s *Service) Export(w io.Writer, format exchange.Format) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return exchange.Export(w, s.ledger, format)
}

// Standings returns the current table.
func (s *Service) Standings() []standings.Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return standings.Compute(s.ledger, s.roster)
}

// Matches returns a copy of the history, most recent first.
func (s *Service) Matches() []ledger.MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ledger.MatchRecord{}, s.ledger.Matches...)
}

// Snapshot returns a deep copy of the ledger.
func (s *Service) Snapshot() *ledger.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Clone()
}

// AnnounceStandings posts the current table through the notifier.
func (s *Service) AnnounceStandings(dryRun bool) error {
	return s.notifier.SendLeaderboard(s.Standings(), dryRun)
}

// save must be called with the write lock held.
func (s *Service) save(ctx context.Context) error {
	start := time.Now()
	err := s.store.Save(ctx, s.ledger)
	s.metrics.ObserveSaveDuration(time.Since(start).Seconds())
	if err == nil {
		return nil
	}

	s.metrics.IncPersistenceFailures()
	if !errors.Is(err, store.ErrPersistence) {
		err = &store.PersistenceError{Op: "save", Err: err}
	}
	log.Error("Failed to save ledger, in-memory state is ahead of storage", "error", err)
	return err
}

func (s *Service) publish(ctx context.Context, topic pubsub.EventType, event any) {
	if err := s.pubsub.SendMessage(ctx, topic, event); err != nil {
		log.Error("Failed to publish event", "error", err, "topic", topic)
	}
}

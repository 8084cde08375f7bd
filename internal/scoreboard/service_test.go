package scoreboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/head2head/internal/common/clock"
	"github.com/mauv0809/head2head/internal/exchange"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/metrics"
	"github.com/mauv0809/head2head/internal/notifier"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/standings"
	"github.com/mauv0809/head2head/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roster = ledger.Roster{"Fatih", "Oğuz", "Abdullah", "Bahadır"}

var now = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequentialIDs) NewUUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("m%d", s.n)
}

type fixture struct {
	svc      *Service
	store    *store.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
	pubsub   *pubsub.MockPubSubClient
}

func setup(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		store:    store.NewMock(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		pubsub:   pubsub.NewMock(),
	}
	f.svc = New(roster, f.store, f.notifier, f.metrics, f.pubsub,
		WithClock(clock.Fixed(now)), WithIDs(&sequentialIDs{}))
	require.NoError(t, f.svc.Start(context.Background()))
	return f
}

func input(home, away string, homeScore, awayScore int) ledger.MatchInput {
	return ledger.MatchInput{
		HomePlayer: home, AwayPlayer: away,
		HomeTeam: home + " FC", AwayTeam: away + " FC",
		HomeScore: homeScore, AwayScore: awayScore,
	}
}

func TestStart(t *testing.T) {
	t.Run("empty store starts with zeroed roster", func(t *testing.T) {
		f := setup(t)
		table := f.svc.Standings()
		require.Len(t, table, 4)
		for i, row := range table {
			assert.Equal(t, roster[i], row.Name)
			assert.Zero(t, row.Points)
		}
		assert.Empty(t, f.svc.Matches())
	})

	t.Run("saved stats are rebuilt from matches", func(t *testing.T) {
		saved := ledger.New(roster)
		_, err := saved.RecordMatch(input("Oğuz", "Fatih", 2, 0), "old", now)
		require.NoError(t, err)
		saved.Players["Oğuz"].Points = 99

		st := store.NewMock()
		st.Saved = saved
		svc := New(roster, st, notifier.NewMock(), metrics.NewMock(), pubsub.NewMock())
		require.NoError(t, svc.Start(context.Background()))

		table := svc.Standings()
		assert.Equal(t, "Oğuz", table[0].Name)
		assert.Equal(t, 3, table[0].Points)
		require.Len(t, svc.Matches(), 1)
	})

	t.Run("load failure is returned", func(t *testing.T) {
		st := store.NewMock()
		st.LoadFunc = func(ctx context.Context) (*ledger.Ledger, error) {
			return nil, &store.PersistenceError{Op: "load", Err: errors.New("disk gone")}
		}
		svc := New(roster, st, notifier.NewMock(), metrics.NewMock(), pubsub.NewMock())
		err := svc.Start(context.Background())
		assert.ErrorIs(t, err, store.ErrPersistence)
	})

	t.Run("saved ledger with unknown player is rejected", func(t *testing.T) {
		st := store.NewMock()
		st.LoadFunc = func(ctx context.Context) (*ledger.Ledger, error) {
			return &ledger.Ledger{Matches: []ledger.MatchRecord{{ID: "x", HomePlayer: "Zeki", AwayPlayer: "Fatih", HomeTeam: "A", AwayTeam: "B"}}}, nil
		}
		svc := New(roster, st, notifier.NewMock(), metrics.NewMock(), pubsub.NewMock())
		assert.ErrorIs(t, svc.Start(context.Background()), ledger.ErrValidation)
	})
}

func TestRecordMatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	match, err := f.svc.RecordMatch(ctx, input("Bahadır", "Fatih", 3, 1), false)
	require.NoError(t, err)

	assert.Equal(t, ledger.MatchID("m1"), match.ID)
	assert.Equal(t, now, match.Date)

	table := f.svc.Standings()
	assert.Equal(t, "Bahadır", table[0].Name)
	assert.Equal(t, 3, table[0].Points)
	assert.Equal(t, "Fatih", table[3].Name)

	require.NotNil(t, f.store.Saved)
	assert.Equal(t, f.svc.Snapshot(), f.store.Saved)
	assert.Equal(t, 1, f.metrics.MatchesRecorded())
	assert.Len(t, f.metrics.SaveDurations(), 1)

	require.Equal(t, 1, f.notifier.MatchResultCount())
	assert.Equal(t, match, f.notifier.SendMatchResultCalls[0].Match)
	assert.False(t, f.notifier.SendMatchResultCalls[0].DryRun)

	calls := f.pubsub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, string(pubsub.EventMatchRecorded), calls[0].Topic)
	var event pubsub.MatchRecordedEvent
	require.NoError(t, f.pubsub.ProcessMessage(calls[0].Encoded, &event))
	assert.Equal(t, "Bahadır", event.Leader)
	assert.Equal(t, match.ID, event.Match.ID)
}

func TestRecordMatch_Rejected(t *testing.T) {
	f := setup(t)
	before := f.svc.Snapshot()

	_, err := f.svc.RecordMatch(context.Background(), input("Fatih", "Fatih", 1, 0), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.ErrorIs(t, err, ledger.ErrSamePlayer)
	assert.Equal(t, before, f.svc.Snapshot())
	assert.Equal(t, 0, f.store.SaveCalls)
	assert.Equal(t, 1, f.metrics.ValidationFailures())
	assert.Equal(t, 0, f.notifier.MatchResultCount())
	assert.Empty(t, f.pubsub.Calls())
}

func TestRecordMatch_SaveFailureKeepsResult(t *testing.T) {
	f := setup(t)
	f.store.SaveFunc = func(ctx context.Context, l *ledger.Ledger) error {
		return errors.New("read-only filesystem")
	}

	match, err := f.svc.RecordMatch(context.Background(), input("Oğuz", "Abdullah", 0, 0), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
	var perr *store.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)

	assert.Equal(t, ledger.MatchID("m1"), match.ID)
	assert.Len(t, f.svc.Matches(), 1, "in-memory state keeps the match")
	assert.Equal(t, 1, f.metrics.PersistenceFailures())
	assert.Equal(t, 1, f.notifier.MatchResultCount())
}

func TestRecordMatch_NotifierAndPublisherErrorsAreIgnored(t *testing.T) {
	f := setup(t)
	f.notifier.SendMatchResultFunc = func(ledger.MatchRecord, []standings.Standing, bool) error {
		return errors.New("slack down")
	}
	f.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error {
		return errors.New("pubsub down")
	}

	_, err := f.svc.RecordMatch(context.Background(), input("Oğuz", "Abdullah", 2, 1), true)
	require.NoError(t, err)
	assert.True(t, f.notifier.SendMatchResultCalls[0].DryRun)
}

func TestReset(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.RecordMatch(ctx, input("Fatih", "Oğuz", 1, 0), false)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reset(ctx))

	assert.Empty(t, f.svc.Matches())
	for _, row := range f.svc.Standings() {
		assert.Zero(t, row.Played)
	}
	assert.Empty(t, f.store.Saved.Matches)
	assert.Equal(t, 1, f.metrics.Resets())
	calls := f.pubsub.Calls()
	assert.Equal(t, string(pubsub.EventLedgerReset), calls[len(calls)-1].Topic)
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces state and recomputes stats", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.RecordMatch(ctx, input("Fatih", "Oğuz", 5, 0), false)
		require.NoError(t, err)

		doc := `{
			"players": {"Abdullah": {"name": "Abdullah", "points": 42}},
			"matches": [{"id": "a1", "date": "2026-04-01T19:00:00Z", "homePlayer": "Abdullah", "awayPlayer": "Bahadır", "homeTeam": "Roma", "awayTeam": "Lazio", "homeScore": 2, "awayScore": 1}]
		}`
		require.NoError(t, f.svc.Import(ctx, strings.NewReader(doc), exchange.FormatJSON))

		matches := f.svc.Matches()
		require.Len(t, matches, 1)
		assert.Equal(t, ledger.MatchID("a1"), matches[0].ID)

		table := f.svc.Standings()
		assert.Equal(t, "Abdullah", table[0].Name)
		assert.Equal(t, 3, table[0].Points)
		assert.Len(t, table, 4)
		assert.Equal(t, 1, f.metrics.Imports())
		assert.Equal(t, f.svc.Snapshot(), f.store.Saved)
	})

	t.Run("parse error leaves state untouched", func(t *testing.T) {
		f := setup(t)
		before := f.svc.Snapshot()

		err := f.svc.Import(ctx, strings.NewReader(`{"players": {}}`), exchange.FormatJSON)

		assert.ErrorIs(t, err, exchange.ErrImportParse)
		assert.Equal(t, before, f.svc.Snapshot())
		assert.Equal(t, 0, f.metrics.Imports())
	})

	t.Run("unknown player leaves state untouched", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.RecordMatch(ctx, input("Fatih", "Oğuz", 1, 1), false)
		require.NoError(t, err)
		before := f.svc.Snapshot()

		doc := `{"players": {}, "matches": [{"id": "z", "date": "2026-04-01T19:00:00Z", "homePlayer": "Zeki", "awayPlayer": "Fatih", "homeTeam": "A", "awayTeam": "B", "homeScore": 1, "awayScore": 0}]}`
		err = f.svc.Import(ctx, strings.NewReader(doc), exchange.FormatJSON)

		assert.ErrorIs(t, err, ledger.ErrUnknownPlayer)
		assert.Equal(t, before, f.svc.Snapshot())
		assert.Equal(t, 0, f.metrics.Imports())
	})

	t.Run("null matches leaves state untouched", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.RecordMatch(ctx, input("Fatih", "Oğuz", 3, 2), false)
		require.NoError(t, err)
		before := f.svc.Snapshot()

		err = f.svc.Import(ctx, strings.NewReader(`{"players": {}, "matches": null}`), exchange.FormatJSON)

		assert.ErrorIs(t, err, exchange.ErrImportParse)
		assert.Equal(t, before, f.svc.Snapshot())
		assert.Equal(t, 1, f.store.SaveCalls)
	})

	t.Run("save failure still counts the import", func(t *testing.T) {
		f := setup(t)
		f.store.SaveFunc = func(ctx context.Context, l *ledger.Ledger) error {
			return errors.New("read-only filesystem")
		}

		doc := `{"players": {}, "matches": [{"id": "a1", "date": "2026-04-01T19:00:00Z", "homePlayer": "Abdullah", "awayPlayer": "Bahadır", "homeTeam": "Roma", "awayTeam": "Lazio", "homeScore": 2, "awayScore": 1}]}`
		err := f.svc.Import(ctx, strings.NewReader(doc), exchange.FormatJSON)

		assert.ErrorIs(t, err, store.ErrPersistence)
		assert.Len(t, f.svc.Matches(), 1, "in-memory state keeps the import")
		assert.Equal(t, 1, f.metrics.Imports())
		assert.Equal(t, 1, f.metrics.PersistenceFailures())
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := f.svc.RecordMatch(ctx, input("Fatih", "Oğuz", 2, 2), false)
	require.NoError(t, err)
	_, err = f.svc.RecordMatch(ctx, input("Bahadır", "Abdullah", 0, 1), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(&buf, exchange.FormatJSON))

	other := setup(t)
	require.NoError(t, other.svc.Import(ctx, &buf, exchange.FormatJSON))
	assert.Equal(t, f.svc.Standings(), other.svc.Standings())
	assert.Equal(t, f.svc.Matches(), other.svc.Matches())
}

func TestAnnounceStandings(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.svc.AnnounceStandings(true))
	require.Len(t, f.notifier.SendLeaderboardCalls, 1)
	assert.Len(t, f.notifier.SendLeaderboardCalls[0], 4)
}

func TestConcurrentRecording(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.RecordMatch(ctx, input(roster[i%2], roster[2+i%2], i%3, 1), false)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, f.svc.Matches(), 20)
	played := 0
	for _, row := range f.svc.Standings() {
		played += row.Played
	}
	assert.Equal(t, 40, played)
	require.NoError(t, f.svc.Snapshot().Verify())
}

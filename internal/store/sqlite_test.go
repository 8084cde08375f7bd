package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/head2head/internal/database"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roster = ledger.Roster{"Fatih", "Oğuz", "Abdullah", "Bahadır"}

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (store.Store, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return store.NewSQL(db), db, teardown
}

func sampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(roster)
	at := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	inputs := []ledger.MatchInput{
		{HomePlayer: "Fatih", AwayPlayer: "Oğuz", HomeTeam: "Liverpool", AwayTeam: "Everton", HomeScore: 3, AwayScore: 1},
		{HomePlayer: "Abdullah", AwayPlayer: "Bahadır", HomeTeam: "Inter", AwayTeam: "Milan", HomeScore: 2, AwayScore: 2},
		{HomePlayer: "Oğuz", AwayPlayer: "Abdullah", HomeTeam: "Porto", AwayTeam: "Benfica", HomeScore: 0, AwayScore: 1},
	}
	for i, in := range inputs {
		_, err := l.RecordMatch(in, ledger.MatchID([]string{"m1", "m2", "m3"}[i]), at.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	return l
}

func TestSQLStore_LoadEmpty(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	l, err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, l)
}

func TestSQLStore_RoundTrip(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	want := sampleLedger(t)
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, ledger.MatchID("m3"), got.Matches[0].ID, "history stays most recent first")
}

func TestSQLStore_SaveReplacesImage(t *testing.T) {
	s, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleLedger(t)))

	fresh := ledger.New(roster)
	require.NoError(t, s.Save(ctx, fresh))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count))
	assert.Equal(t, 0, count)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestSQLStore_SaveFailureIsPersistenceError(t *testing.T) {
	s, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleLedger(t)))

	// A match pointing at a player without a record violates the foreign key.
	broken := sampleLedger(t)
	delete(broken.Players, "Fatih")
	err := s.Save(ctx, broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)

	var perr *store.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count))
	assert.Equal(t, 3, count, "a failed save must roll back")
}

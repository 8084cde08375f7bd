package main

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/common/uuid"
	"github.com/mauv0809/head2head/internal/config"
	"github.com/mauv0809/head2head/internal/database"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/store"
	"github.com/redis/go-redis/v9"
)

const numMatches = 200

var teams = []string{
	"Galatasaray", "Fenerbahçe", "Beşiktaş", "Trabzonspor",
	"Real Madrid", "Barcelona", "Bayern", "Dortmund",
	"Liverpool", "Man City", "Arsenal", "PSG",
	"Inter", "Milan", "Juventus", "Napoli",
}

func main() {
	log.Info("Starting ledger seeder...")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}
	if len(cfg.Roster) < 2 {
		log.Fatalf("Seeding needs at least two players, roster has %d", len(cfg.Roster))
	}

	st, teardown := openStore(ctx, cfg)
	defer teardown()

	startTime := time.Now()
	l := seed(cfg.Roster, numMatches, rand.New(rand.NewSource(time.Now().UnixNano())), uuid.New())
	if err := st.Save(ctx, l); err != nil {
		log.Fatalf("Failed to save seeded ledger: %s", err)
	}
	log.Info("Successfully seeded ledger.", "backend", cfg.Backend, "matches", len(l.Matches), "duration", time.Since(startTime))
}

// seed builds a ledger of n random matches spread over the past year.
func seed(roster ledger.Roster, n int, rng *rand.Rand, ids uuid.UUID) *ledger.Ledger {
	dates := make([]time.Time, n)
	now := time.Now().UTC()
	for i := range dates {
		dates[i] = now.Add(-time.Duration(rng.Intn(365*24*60)) * time.Minute)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	l := ledger.New(roster)
	for _, at := range dates {
		home, away := pickTwo(rng, len(roster))
		homeTeam, awayTeam := pickTwo(rng, len(teams))
		in := ledger.MatchInput{
			HomePlayer: roster[home],
			AwayPlayer: roster[away],
			HomeTeam:   teams[homeTeam],
			AwayTeam:   teams[awayTeam],
			HomeScore:  rng.Intn(6),
			AwayScore:  rng.Intn(6),
		}
		if _, err := l.RecordMatch(in, ledger.MatchID(ids.NewUUID()), at); err != nil {
			log.Fatalf("Generated an invalid match: %s", err)
		}
	}
	return l
}

func pickTwo(rng *rand.Rand, n int) (int, int) {
	a := rng.Intn(n)
	b := rng.Intn(n - 1)
	if b >= a {
		b++
	}
	return a, b
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, func()) {
	if cfg.Backend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		st, err := store.NewRedis(ctx, &store.RedisConfig{RedisClient: client, Key: cfg.Redis.Key})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %s", err)
		}
		return st, func() { client.Close() }
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	return store.NewSQL(db), teardown
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/config"
	"github.com/mauv0809/head2head/internal/database"
	server "github.com/mauv0809/head2head/internal/http"
	"github.com/mauv0809/head2head/internal/metrics"
	"github.com/mauv0809/head2head/internal/notifier/slack"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/scoreboard"
	"github.com/mauv0809/head2head/internal/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	ledgerStore, storeTeardown, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %s", err)
	}
	defer func() {
		log.Info("Closing store connection")
		storeTeardown()
	}()
	log.Info("Store initialization time recorded", "backend", cfg.Backend, "duration_ms", time.Since(startTime).Milliseconds())

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc, cfg.Location)
	pubsubClient, err := pubsub.New(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer pubsubClient.Close()

	board := scoreboard.New(cfg.Roster, ledgerStore, notifier, metricsSvc, pubsubClient)
	if err := board.Start(ctx); err != nil {
		log.Fatalf("Failed to load ledger: %s", err)
	}

	s := server.NewServer(board, notifier, pubsubClient, metricsHandler, cfg, nil)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds(), "roster", cfg.Roster)

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// openStore connects the configured ledger backend. The returned teardown
// closes the underlying connection.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	if cfg.Backend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		st, err := store.NewRedis(ctx, &store.RedisConfig{RedisClient: client, Key: cfg.Redis.Key})
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return st, func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close Redis client", "error", err)
			}
		}, nil
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, nil, err
	}
	return store.NewSQL(db), teardown, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the ledger document when no key is configured.
const DefaultRedisKey = "head2head:ledger"

var _ Store = (*redisStore)(nil)

// RedisConfig holds configuration for the Redis ledger store
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Key under which the ledger document is stored
	Key string
}

// redisStore keeps the whole ledger as one JSON document.
type redisStore struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed ledger store
func NewRedis(ctx context.Context, cfg *RedisConfig) (Store, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultRedisKey
	}
	return &redisStore{
		client: cfg.RedisClient,
		key:    key,
	}, nil
}

func (r *redisStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, loadErr(err)
	}

	var l ledger.Ledger
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, loadErr(fmt.Errorf("failed to unmarshal ledger: %w", err))
	}
	if l.Players == nil {
		l.Players = make(map[string]*ledger.PlayerRecord)
	}
	if l.Matches == nil {
		l.Matches = []ledger.MatchRecord{}
	}
	log.Debug("Loaded ledger from Redis", "key", r.key, "matches", len(l.Matches))
	return &l, nil
}

func (r *redisStore) Save(ctx context.Context, l *ledger.Ledger) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return saveErr(fmt.Errorf("failed to marshal ledger: %w", err))
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return saveErr(err)
	}
	log.Debug("Saved ledger to Redis", "key", r.key, "matches", len(l.Matches))
	return nil
}

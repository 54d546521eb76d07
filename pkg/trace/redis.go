package trace

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/probkit/probkit/pkg/observability"
)

// RedisStore keeps each series as a Redis list, one RPUSH per tally, plus a
// set of series names. Runs survive the sampling process; key layout is
// "<prefix>:series:<name>" and "<prefix>:names".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds connection settings for a Redis-backed store.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is optional.
	Password string
	// DB is the Redis database number.
	DB int
	// Prefix namespaces the run's keys. Use a distinct prefix per run.
	Prefix string
}

// DefaultRedisConfig returns settings for a local unauthenticated server.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{Addr: "localhost:6379", Prefix: "probkit"}
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes ownership
// and closes the client on Close.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "probkit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) seriesKey(name string) string {
	return s.prefix + ":series:" + name
}

func (s *RedisStore) namesKey() string {
	return s.prefix + ":names"
}

// Tally appends the value to the series list and registers the series name.
func (s *RedisStore) Tally(ctx context.Context, series string, iteration int, value float64) error {
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.seriesKey(series), value)
	pipe.SAdd(ctx, s.namesKey(), series)
	if _, err := pipe.Exec(ctx); err != nil {
		observability.Store().OnStoreError(ctx, "redis", err)
		return err
	}
	observability.Store().OnTally(ctx, "redis", series)
	return nil
}

// Series returns the full series list in tally order.
func (s *RedisStore) Series(ctx context.Context, series string) ([]float64, error) {
	raw, err := s.client.LRange(ctx, s.seriesKey(series), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%q: %w", series, ErrUnknownSeries)
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt trace value %q: %w", r, err)
		}
		out[i] = v
	}
	observability.Store().OnPlayback(ctx, "redis", series, len(out))
	return out, nil
}

// Names returns the registered series names in ascending order.
func (s *RedisStore) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.namesKey()).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)

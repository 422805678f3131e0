package iocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/redis/go-redis/v9"
)

// redisPrefix namespaces every key paddock writes.
const redisPrefix = "paddock"

// redisOpTimeout bounds each round trip since the store API carries no context.
const redisOpTimeout = 5 * time.Second

// RedisStore keeps one cache namespace as hashes in Redis, indexed by a sorted set.
type RedisStore struct {
	client    *redis.Client
	namespace schema.Namespace
	owner     bool
}

var _ contract.CacheStore = &RedisStore{} // Compile-time check

// NewRedisStores connects to Redis and returns one store per namespace sharing a client.
func NewRedisStores(connStr string) (map[schema.Namespace]contract.CacheStore, error) {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w. Use redis://[user:password@]host:port/db", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis. Check that the server is running: %w", err)
	}

	stores := make(map[schema.Namespace]contract.CacheStore, len(schema.AllNamespaces))
	for i, ns := range schema.AllNamespaces {
		// The first store owns the client and closes it
		stores[ns] = &RedisStore{client: client, namespace: ns, owner: i == 0}
	}
	return stores, nil
}

func redisEntryKey(ns schema.Namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisPrefix, tableFor(ns), key)
}

func redisIndexKey(ns schema.Namespace) string {
	return fmt.Sprintf("%s:%s:index", redisPrefix, tableFor(ns))
}

func redisPattern(ns schema.Namespace) string {
	return fmt.Sprintf("%s:%s:*", redisPrefix, tableFor(ns))
}

// Get retrieves a value by key. A missing key returns ErrNotFound.
func (rs *RedisStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	fields, err := rs.client.HGetAll(ctx, redisEntryKey(rs.namespace, key)).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	value, ok := fields["value"]
	if !ok {
		return nil, 0, 0, ErrNotFound
	}
	version, err := strconv.Atoi(fields["version"])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt redis entry %s: version %q", key, fields["version"])
	}
	ts, err := strconv.ParseInt(fields["ts"], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt redis entry %s: timestamp %q", key, fields["ts"])
	}
	return []byte(value), version, ts, nil
}

// Set writes the entry hash and its index score in one transaction.
func (rs *RedisStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisEntryKey(rs.namespace, key), "value", value, "version", version, "ts", timestamp)
		pipe.ZAdd(ctx, redisIndexKey(rs.namespace), redis.Z{Score: float64(timestamp), Member: key})
		return nil
	})
	return err
}

// GetStatus reads the index for entry count and time range.
func (rs *RedisStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.RedisBackend),
		Namespace: string(rs.namespace),
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := rs.client.Ping(ctx).Err(); err != nil {
		return status, nil
	}
	status.Connected = true

	index := redisIndexKey(rs.namespace)
	count, err := rs.client.ZCard(ctx, index).Result()
	if err != nil {
		return status, fmt.Errorf("failed to count redis entries: %w", err)
	}
	status.TotalEntries = int(count)
	if count == 0 {
		return status, nil
	}

	oldest, err := rs.client.ZRangeWithScores(ctx, index, 0, 0).Result()
	if err != nil {
		return status, fmt.Errorf("failed to get oldest redis entry: %w", err)
	}
	newest, err := rs.client.ZRangeWithScores(ctx, index, -1, -1).Result()
	if err != nil {
		return status, fmt.Errorf("failed to get newest redis entry: %w", err)
	}
	if len(oldest) > 0 && len(newest) > 0 {
		status.OldestEntryTime = time.Unix(int64(oldest[0].Score), 0)
		status.LastEntryTime = time.Unix(int64(newest[0].Score), 0)
	}

	if usage, err := rs.client.MemoryUsage(ctx, index).Result(); err == nil {
		status.TableSizeBytes = usage
	}
	return status, nil
}

// Close closes the shared client when this store owns it.
func (rs *RedisStore) Close() error {
	if !rs.owner {
		return nil
	}
	err := rs.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

// clearRedis deletes every key paddock wrote for the namespaces.
func clearRedis(connStr string) error {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, ns := range schema.AllNamespaces {
		iter := client.Scan(ctx, 0, redisPattern(ns), 500).Iterator()
		var batch []string
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 500 {
				if err := client.Del(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("failed to delete redis keys: %w", err)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan redis keys: %w", err)
		}
		if len(batch) > 0 {
			if err := client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete redis keys: %w", err)
			}
		}
	}
	return nil
}

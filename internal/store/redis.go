package store

import (
    "context"
    "errors"
    "fmt"

    redis "github.com/redis/go-redis/v9"
)

// Redis keeps the document under a single key.
type Redis struct {
    rdb *redis.Client
    key string
}

// NewRedis connects using a redis:// URL. The document lives at key.
func NewRedis(url, key string) (*Redis, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, fmt.Errorf("parse redis url: %w", err) }
    if key == "" { key = "tripboard:trips" }
    return &Redis{rdb: redis.NewClient(opt), key: key}, nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(rdb *redis.Client, key string) *Redis {
    return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
    b, err := r.rdb.Get(ctx, r.key).Bytes()
    if errors.Is(err, redis.Nil) { return nil, ErrAbsent }
    if err != nil { return nil, fmt.Errorf("redis get %s: %w", r.key, err) }
    return b, nil
}

func (r *Redis) Save(ctx context.Context, doc []byte) error {
    if err := r.rdb.Set(ctx, r.key, doc, 0).Err(); err != nil {
        return fmt.Errorf("redis set %s: %w", r.key, err)
    }
    return nil
}

func (r *Redis) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

func (r *Redis) Name() string { return "redis" }

// Client exposes the underlying client so the event broker can share it.
func (r *Redis) Client() *redis.Client { return r.rdb }

func (r *Redis) Close() error { return r.rdb.Close() }

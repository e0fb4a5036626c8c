package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"careerxr/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	KeyPrefixRecommend = "recommend:"
	KeyPrefixCatalog   = "catalog:"

	defaultTTL     = 10 * time.Minute
	defaultLockTTL = 30 * time.Second
	scanBatch      = 200
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis is a JSON cache. With no server configured, or none reachable at
// startup, reads miss and writes are dropped.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger

	degraded atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	r := &Redis{ttl: cfg.TTL, logger: logger}
	if r.ttl <= 0 {
		r.ttl = defaultTTL
	}
	if !cfg.Enabled() {
		r.logf("[Cache] REDIS_HOST not set, cache disabled")
		return r
	}

	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(strings.TrimSpace(cfg.Host), port),
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		r.logf("[Cache] Redis unavailable, bypassing cache | addr=%s err=%v", rdb.Options().Addr, err)
		_ = rdb.Close()
		return r
	}
	r.rdb = rdb
	return r
}

func (r *Redis) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

func (r *Redis) enabled() bool {
	return r != nil && r.rdb != nil
}

// observe logs the first runtime failure after a healthy period.
func (r *Redis) observe(err error) error {
	if err == nil {
		if r.degraded.CompareAndSwap(true, false) {
			r.logf("[Cache] Redis recovered")
		}
		return nil
	}
	if r.degraded.CompareAndSwap(false, true) {
		r.logf("[Cache] Redis error, serving without cache | err=%v", err)
	}
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.enabled() {
		return ErrUnavailable
	}
	return r.observe(r.rdb.Ping(ctx).Err())
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.enabled() {
		return false, nil
	}
	b, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, r.observe(nil)
	case err != nil:
		return false, r.observe(err)
	case len(b) == 0:
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.observe(r.rdb.Set(ctx, key, b, ttl).Err())
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.enabled() {
		return nil
	}
	return r.observe(r.rdb.Del(ctx, key).Err())
}

// DeleteByPattern unlinks matching keys one SCAN page at a time.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if !r.enabled() || pattern == "" {
		return nil
	}

	var cursor uint64
	removed := 0
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return r.observe(err)
		}
		if len(keys) > 0 {
			if err := r.rdb.Unlink(ctx, keys...).Err(); err != nil {
				return r.observe(err)
			}
			removed += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	r.logf("[Cache] invalidated | pattern=%s keys=%d", pattern, removed)
	return r.observe(nil)
}

// InvalidateRecommendations drops every cached recommendation result.
func (r *Redis) InvalidateRecommendations(ctx context.Context) error {
	return r.DeleteByPattern(ctx, KeyPrefixRecommend+"*")
}

// SetIfNotExists backs the cross-instance reload lock. Without a shared cache
// there is nothing to contend with, so the lock is always granted.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if !r.enabled() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	ok, err := r.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, r.observe(err)
	}
	return ok, r.observe(nil)
}

func (r *Redis) Close() error {
	if !r.enabled() {
		return nil
	}
	return r.rdb.Close()
}

package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gl-reconciliation-service/internal/config"
)

// ErrBusy is returned when another instance holds the lock.
var ErrBusy = errors.New("another calendar update for this company is in progress")

// Locker serializes calendar mutations per company. release is never nil
// when err is nil.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// CalendarKey is the lock key for every calendar mutation of a company.
func CalendarKey(companyID int64) string {
	return fmt.Sprintf("calendar:%d", companyID)
}

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

type RedisLocker struct {
	client obtainer
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisLocker(client *redislock.Client, ttl time.Duration, log *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, log: log}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		l.log.Warn("lock held elsewhere", zap.String("key", key))
		return nil, ErrBusy
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func() {
		// the request context may already be done
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// NopLocker is used when no Redis address is configured. A single instance
// still gets atomic window updates from the database transaction.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

// Connect dials Redis and returns a locker backed by it, or a NopLocker when
// cfg.Addr is empty. The returned client is nil in the latter case.
func Connect(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (Locker, *redis.Client, error) {
	if cfg.Addr == "" {
		log.Info("redis not configured, calendar lock disabled")
		return NopLocker{}, nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	log.Info("connected to redis", zap.String("addr", cfg.Addr))
	return NewRedisLocker(redislock.New(rdb), cfg.WindowLockTTL, log), rdb, nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/example/slotbook/internal/provider"
)

const snapshotKey = "slotbook:providers"

// NewRedisClient dials redis and verifies the connection before handing the
// client out.
func NewRedisClient(addr, username, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     username,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Snapshot caches the provider-directory snapshot so every page view doesn't
// hit the directory service. Misses and redis errors both mean "go fetch";
// the cache is never authoritative.
type Snapshot struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewSnapshot(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Snapshot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Snapshot{rdb: rdb, ttl: ttl, log: log}
}

func (s *Snapshot) Get(ctx context.Context) ([]provider.Provider, bool) {
	if s == nil || s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("snapshot cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var ps []provider.Provider
	if err := json.Unmarshal(raw, &ps); err != nil {
		s.log.Warn("snapshot cache corrupt, dropping", zap.Error(err))
		_ = s.rdb.Del(ctx, snapshotKey).Err()
		return nil, false
	}
	return ps, true
}

func (s *Snapshot) Set(ctx context.Context, ps []provider.Provider) {
	if s == nil || s.rdb == nil {
		return
	}
	raw, err := json.Marshal(ps)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, snapshotKey, raw, s.ttl).Err(); err != nil {
		s.log.Warn("snapshot cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached snapshot; called after a successful booking so
// the next view re-reads the directory.
func (s *Snapshot) Invalidate(ctx context.Context) {
	if s == nil || s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, snapshotKey).Err(); err != nil {
		s.log.Warn("snapshot cache invalidate failed", zap.Error(err))
	}
}

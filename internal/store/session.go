package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

// redisSessionStore is the session scope. Every read or write pushes the
// expiry out by ttl, so a record lives as long as the browser session keeps
// using it.
type redisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *redisSessionStore {
	return &redisSessionStore{
		client:    client,
		keyPrefix: "dashboard:session:",
		ttl:       ttl,
	}
}

func (s *redisSessionStore) key(owner, sessionID, key string) string {
	return s.keyPrefix + owner + ":" + sessionID + ":" + key
}

func (s *redisSessionStore) Get(ctx context.Context, owner, sessionID, key string) ([]byte, error) {
	b, err := s.client.GetEx(ctx, s.key(owner, sessionID, key), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get session record", err)
	}
	return b, nil
}

func (s *redisSessionStore) Put(ctx context.Context, owner, sessionID, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(owner, sessionID, key), payload, s.ttl).Err(); err != nil {
		return errs.NewDatabaseError("write", "failed to write session record", err)
	}
	return nil
}

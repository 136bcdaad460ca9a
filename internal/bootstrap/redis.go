package bootstrap

import (
	"context"
	"fmt"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/store"
)

func InitRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisPassword returns REDISPASSWORD, or the Secret Manager secret named by
// REDISPASSWORDSECRET when that is set.
func RedisPassword(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.RedisPasswordSecret == "" {
		return cfg.RedisPassword, nil
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return store.NewSecretsStore(client, cfg.ProjectID).Access(ctx, cfg.RedisPasswordSecret)
}

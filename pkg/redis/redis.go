package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects to redis and verifies the connection with a ping
func Init(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = c
	logger.Info("Redis connection established successfully")
	return c, nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		err := client.Close()
		client = nil
		return err
	}
	return nil
}

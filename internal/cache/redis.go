package cache

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/lexagenda/booking-api/internal/config"
)

func NewRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		// Notification publishing degrades to storage-only; the API stays up.
		log.Printf("redis unavailable at %s: %v", cfg.RedisAddr, err)
	}

	return client
}

package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConnectRedis parses REDIS_URL and verifies the connection with a ping.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping a redis: %w", err)
	}

	log.Info().Msg("redis conectado")
	return rdb, nil
}

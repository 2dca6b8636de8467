package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/folio-works/portfolio/internal/config"
)

func New(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.Redis.PoolSize > 0 {
			opt.PoolSize = cfg.Redis.PoolSize
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}), nil
}

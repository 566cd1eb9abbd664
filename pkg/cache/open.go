package cache

import (
	"context"
	"fmt"

	"github.com/matzehuels/campaigncanvas/pkg/config"
)

// Open creates the backend named by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFileCache(cfg.Dir)
	case "redis":
		return NewRedisCache(ctx, RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "memory":
		return NewMemoryCache(), nil
	case "none", "null":
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

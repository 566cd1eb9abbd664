package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/campaigncanvas/pkg/config"
)

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "file", "":
		return NewFileStore(cfg.Dir)
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "campaigncanvas.db"
		}
		return NewSQLiteStore(ctx, dsn)
	case "redis":
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "mongo":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("mongo store: dsn is required")
		}
		return NewMongoStore(ctx, cfg.DSN, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

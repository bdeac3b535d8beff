package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/rentalregistry/pkg/config"
	"github.com/aryan0dhankhar/rentalregistry/pkg/database"
)

// Open connects the storage binding selected by cfg.StoreBackend and makes
// sure its schema exists.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.StoreBackend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil

	case config.BackendPostgres:
		db, err := database.Open(ctx, &database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db, logger), nil

	case config.BackendGorm:
		db, err := database.OpenGorm(cfg.GormDriver, cfg.GormDSN, logger)
		if err != nil {
			return nil, err
		}
		return NewGormStore(ctx, db, logger)

	case config.BackendRedis:
		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, logger), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

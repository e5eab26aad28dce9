package app

import (
	"context"
	"database/sql"

	"github.com/Paul1o1/rendojobs-frontend/internal/config"
	"github.com/Paul1o1/rendojobs-frontend/internal/db"
	"github.com/Paul1o1/rendojobs-frontend/internal/logger"
	"github.com/Paul1o1/rendojobs-frontend/internal/redis"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := db.RunMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: &db.DB{DB: sqlDB}}

	// Redis only backs the replay guard; the service runs without it.
	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		infra.Redis = redisClient
		logger.Info("redis ready", nil)
	} else {
		logger.Warn("redis not configured, replay guard disabled", nil)
	}

	return infra, nil
}

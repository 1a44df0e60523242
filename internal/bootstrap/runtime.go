// Package bootstrap wires the process-wide runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"askme/internal/cache"
	"askme/internal/config"
	"askme/internal/database"
	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedRatio fills an empty development database with seed.Fill(SeedRatio).
	SeedRatio int
}

// InitRuntime connects to DB and Redis and optionally seeds demo content.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := seedDevelopment(ctx, cfg, db, opts.SeedRatio); err != nil {
		return nil, nil, fmt.Errorf("failed to seed development data: %w", err)
	}

	return db, r, nil
}

func seedDevelopment(ctx context.Context, cfg *config.Config, db *gorm.DB, ratio int) error {
	if ratio <= 0 || !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var questions int64
	if err := db.WithContext(ctx).Model(&models.Question{}).Count(&questions).Error; err != nil {
		return err
	}
	if questions > 0 {
		middleware.Logger.Info("database already has content, skipping seed", slog.Int64("questions", questions))
		return nil
	}

	_, err := seed.NewSeeder(db, seed.Options{}).Fill(ctx, ratio)
	return err
}

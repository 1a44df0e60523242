// Command migrate runs schema operations for the askme database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"askme/internal/config"
	"askme/internal/database"
	"askme/internal/middleware"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var errUsage = errors.New("usage: migrate <up|auto|status|down> [version]")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	if err := run(flag.Args()); err != nil {
		middleware.Logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return execute(ctx, db, cfg, strings.ToLower(strings.TrimSpace(args[0])), args[1:])
}

func execute(ctx context.Context, db *gorm.DB, cfg *config.Config, cmd string, rest []string) error {
	log := middleware.Logger
	switch cmd {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Info("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Info("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Info("schema status",
			slog.String("mode", status.Mode),
			slog.String("env", status.Environment),
			slog.Bool("run_sql", status.WillRunSQL),
			slog.Bool("run_auto", status.WillRunAutoMigrate),
			slog.Int("applied", len(status.AppliedVersions)),
			slog.Int("pending", len(status.PendingMigrations)),
		)
		for _, m := range status.PendingMigrations {
			log.Info("pending migration", slog.String("migration", m.String()))
		}
	case "down":
		if len(rest) < 1 {
			return errUsage
		}
		version, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", rest[0], err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Info("rolled back migration", slog.Int("version", version))
	default:
		return errUsage
	}
	return nil
}

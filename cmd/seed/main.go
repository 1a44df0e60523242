// Command main fills the askme database with generated questions, answers and votes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"askme/internal/config"
	"askme/internal/database"
	"askme/internal/middleware"
	"askme/internal/seed"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	ratio := flag.Int("ratio", 10, "tags and users to create; questions are ratio*10")
	dryRun := flag.Bool("dry-run", false, "generate without writing to the database")
	clean := flag.Bool("clean", false, "delete existing forum rows first")
	fast := flag.Bool("fast", false, "store the seed password without bcrypt")
	flag.Parse()

	_ = godotenv.Load()
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if !*dryRun {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Error("failed to load configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		db, err = database.Connect(cfg)
		if err != nil {
			log.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	s := seed.NewSeeder(db, seed.Options{DryRun: *dryRun, SkipBcrypt: *fast})
	if *clean {
		if err := s.ClearAll(ctx); err != nil {
			log.Error("cleanup failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	stats, err := s.Fill(ctx, *ratio)
	if err != nil {
		log.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	log.Info("seeding done", slog.String("stats", string(out)), slog.String("password", seed.DefaultPassword))
}

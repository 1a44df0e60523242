// Command main is the entry point for the askme backend server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"askme/internal/bootstrap"
	"askme/internal/config"
	"askme/internal/middleware"
	"askme/internal/observability"
	"askme/internal/server"

	"github.com/joho/godotenv"
)

// @title askme API
// @version 1.0
// @description Question and answer forum with voting and correctness marking.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	seedRatio := flag.Int("seed", 0, "fill an empty development database with this seed ratio")
	flag.Parse()

	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	middleware.Logger = middleware.NewLogger(os.Stdout, cfg.Env, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    "askme-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Exporter:       cfg.OTelExporter,
		OTLPEndpoint:   cfg.OTelEndpoint,
		SamplerRatio:   1,
	})
	if err != nil {
		middleware.Logger.Error("failed to init tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.NewServer(ctx, cfg, bootstrap.Options{SeedRatio: *seedRatio})
	if err != nil {
		middleware.Logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		middleware.Logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			middleware.Logger.Error("server shutdown error", slog.String("error", err.Error()))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			middleware.Logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Start(); err != nil {
		middleware.Logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

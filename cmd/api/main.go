package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"oncall-service-desk/internal/api"
	"oncall-service-desk/internal/config"
	"oncall-service-desk/internal/models"
	"oncall-service-desk/internal/ratelimit"
	"oncall-service-desk/internal/store"
)

func main() {
	// .env is optional; env vars win either way.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		<-ch
		cancel()
	}()

	st := store.New(models.SLAConfig{
		AcceptSLA:    cfg.DefaultAcceptSLA,
		OnsiteSLA:    cfg.DefaultOnsiteSLA,
		CompletedSLA: cfg.DefaultCompletedSLA,
	})
	if cfg.SeedDemoData {
		st.Seed()
		logger.Info("seeded demo data")
	}

	limiter := ratelimit.NewTokenBucket(cfg.RateLimitCapacity, cfg.RateLimitRefill)

	server := api.New(cfg, st, limiter, logger)
	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: server.Router(),
	}

	logger.Info("api listening", "port", cfg.HTTPPort, "env", cfg.Env)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(shutdownCtx)
}

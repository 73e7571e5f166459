package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-tourguide/internal/app/domain/rewards"
	"github.com/FACorreiaa/go-tourguide/internal/app/domain/tourguide"
	"github.com/FACorreiaa/go-tourguide/internal/app/gps"
	"github.com/FACorreiaa/go-tourguide/internal/app/repository"
	"github.com/FACorreiaa/go-tourguide/internal/app/scoring"
	"github.com/FACorreiaa/go-tourguide/internal/pkg/config"
	"github.com/FACorreiaa/go-tourguide/pkg/logger"
)

const internalUserCount = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := logger.Init(zapcore.InfoLevel, zap.String("service", "tourguide")); err != nil {
		return err
	}
	l := logger.Log
	defer l.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	users := repository.NewUserRepository()
	if err := users.SeedInternalUsers(internalUserCount); err != nil {
		return err
	}
	l.Info("internal users seeded", zap.Int("count", users.Count()))

	pool := rewards.NewWorkerPool(cfg.Rewards.WorkerPoolSize)
	gpsFeed := gps.NewSimulatorWithLatency(100 * time.Millisecond)
	points := scoring.NewCentralWithLatency(50 * time.Millisecond)

	rewardsService := rewards.NewService(gpsFeed, points, pool, cfg.Rewards, l)
	tourGuideService := tourguide.NewService(gpsFeed, rewardsService, users, pool, l)
	tracker := tourguide.NewTracker(tourGuideService, cfg.Tracker.PollingInterval, l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics endpoint; the engine itself has no other HTTP surface.
	metricsAddr := os.Getenv("METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9092"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		l.Info("metrics server starting", zap.String("addr", metricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics server error", zap.Error(err))
		}
	}()

	l.Info("tracker starting", zap.Duration("interval", cfg.Tracker.PollingInterval))
	tracker.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		l.Error("metrics server shutdown error", zap.Error(err))
	}
	l.Info("shutdown complete")
	return nil
}

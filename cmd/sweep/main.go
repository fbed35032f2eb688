package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/config"
	"prompt_badges/internal/db"
	"prompt_badges/internal/http/middleware"
	"prompt_badges/internal/leaderboard"
	"prompt_badges/internal/logger"
	"prompt_badges/internal/repository"
	"prompt_badges/internal/scoring"
	"prompt_badges/internal/service"
)

// sweep runs the time based badge sweep once and prints the summary as JSON.
// With REDIS_ADDR set, running replicas are told to drop their leaderboard
// caches; otherwise they catch up when the cache TTL expires.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := db.MustConnect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	defer pool.Close()

	catalog, err := badges.Default()
	if err != nil {
		logger.Fatal("invalid badge catalog", "error", err)
	}
	calc, err := scoring.NewCalculator(scoring.DefaultConfig(), catalog)
	if err != nil {
		logger.Fatal("invalid scoring config", "error", err)
	}

	redisClient := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	users := repository.NewUserRepository(pool)
	badgeService := service.NewBadgeService(
		users,
		catalog,
		service.NewStatsAggregator(repository.NewPromptRepository(pool), repository.NewCommentRepository(pool)),
		service.NewLedgerWriter(repository.NewBadgeRepository(pool), leaderboard.NewBroadcaster(redisClient, nil)),
		calc,
	)
	sweep := service.NewSweepService(users, catalog, badgeService, cfg.SweepBatchSize)

	sum, err := sweep.RunTimeBasedSweep(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(sum); encErr != nil {
		logger.Error("encode summary", "error", encErr)
	}
	if err != nil {
		logger.Fatal("sweep failed", "error", err)
	}
}

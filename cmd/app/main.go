package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prompt_badges/internal/auth"
	"prompt_badges/internal/badges"
	"prompt_badges/internal/config"
	"prompt_badges/internal/db"
	"prompt_badges/internal/domain"
	httpServer "prompt_badges/internal/http"
	"prompt_badges/internal/http/handlers"
	"prompt_badges/internal/http/middleware"
	"prompt_badges/internal/leaderboard"
	"prompt_badges/internal/logger"
	"prompt_badges/internal/repository"
	"prompt_badges/internal/scoring"
	"prompt_badges/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool := db.MustConnect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	defer dbPool.Close()

	catalog, err := badges.Default()
	if err != nil {
		logger.Fatal("invalid badge catalog", "error", err)
	}
	calc, err := scoring.NewCalculator(scoring.DefaultConfig(), catalog)
	if err != nil {
		logger.Fatal("invalid scoring config", "error", err)
	}

	users := repository.NewUserRepository(dbPool)
	ledgerRepo := repository.NewBadgeRepository(dbPool)
	prompts := repository.NewPromptRepository(dbPool)
	comments := repository.NewCommentRepository(dbPool)

	redisClient := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cache := leaderboard.NewCache[domain.LeaderboardPage](cfg.CacheTTL, cfg.CacheMaxEntries)
	ranker := leaderboard.NewRanker(users, calc, cache)
	broadcaster := leaderboard.NewBroadcaster(redisClient, ranker)
	go broadcaster.Listen(ctx)

	badgeService := service.NewBadgeService(
		users,
		catalog,
		service.NewStatsAggregator(prompts, comments),
		service.NewLedgerWriter(ledgerRepo, broadcaster),
		calc,
	)
	leaderboardService := service.NewLeaderboardService(users, ranker)
	sweepService := service.NewSweepService(users, catalog, badgeService, cfg.SweepBatchSize)

	if cfg.SweepEnabled {
		sched, err := service.NewSweepScheduler(sweepService, cfg.SweepHour, cfg.SweepMinute)
		if err != nil {
			logger.Fatal("failed to schedule sweep", "error", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				logger.Error("scheduler shutdown", "error", err)
			}
		}()
	}

	tokens, err := auth.NewIssuer(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Fatal("failed to init jwt", "error", err)
	}

	if cfg.ServiceToken == "" {
		logger.Warn("SERVICE_TOKEN not set, internal trigger routes are disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler: handlers.NewHandler(badgeService, leaderboardService, sweepService),
		Health:  handlers.NewHealthHandler(dbPool, handlers.RedisPinger(redisClient), catalog, version),
		Tokens:  tokens,
		Redis:   redisClient,
		Config:  cfg,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

package db

import (
	"context"
	"fmt"
	"time"

	"prompt_badges/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and pings it. maxConns <= 0 keeps the pgx default.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool, nil
}

// MustConnect is Connect for process startup.
func MustConnect(ctx context.Context, dsn string, maxConns int32) *pgxpool.Pool {
	pool, err := Connect(ctx, dsn, maxConns)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	return pool
}

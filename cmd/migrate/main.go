package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"prompt_badges/internal/db"
	"prompt_badges/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	if !*apply {
		names, err := db.Migrations()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool := db.MustConnect(ctx, dsn, 2)
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", "error", err)
	}
}

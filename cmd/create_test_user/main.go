package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"prompt_badges/internal/auth"
	"prompt_badges/internal/config"
	"prompt_badges/internal/db"
	"prompt_badges/internal/domain"
	"prompt_badges/internal/logger"
	"prompt_badges/internal/repository"
)

// create_test_user seeds a user with a few prompts and prints a JWT for it.
func main() {
	username := flag.String("username", fmt.Sprintf("tester%d", time.Now().Unix()), "username")
	prompts := flag.Int("prompts", 12, "number of prompts to create")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, false)

	ctx := context.Background()
	pool := db.MustConnect(ctx, cfg.DatabaseURL, 2)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	promptRepo := repository.NewPromptRepository(pool)

	u := &domain.User{Username: *username, DisplayName: "Tester"}
	if err := users.Create(ctx, u); err != nil {
		logger.Fatal("create user failed", "error", err)
	}
	logger.Info("user created", "id", u.ID, "username", u.Username)

	categories := []string{"coding", "writing", "marketing"}
	agents := []string{"claude", "gpt", "gemini"}
	for i := 0; i < *prompts; i++ {
		p := &domain.Prompt{
			OwnerID:     u.ID,
			Category:    categories[i%len(categories)],
			Agent:       agents[i%len(agents)],
			Likes:       int64(i * 3),
			Saves:       int64(i),
			RatingAvg:   4.5,
			RatingCount: int64(i % 4),
		}
		if err := promptRepo.Create(ctx, p); err != nil {
			logger.Fatal("create prompt failed", "error", err)
		}
	}

	// the prompt service owns this counter in production
	err := users.ApplyStatsPatch(ctx, u.ID, domain.StatsPatch{
		Set: map[domain.StatField]int64{domain.StatTotalPrompts: int64(*prompts)},
	})
	if err != nil {
		logger.Fatal("set prompt count failed", "error", err)
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		logger.Fatal("failed to init jwt", "error", err)
	}
	token, err := issuer.Generate(u.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Printf("user_id=%d\ntoken=%s\n", u.ID, token)
}

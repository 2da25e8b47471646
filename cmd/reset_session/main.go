package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gptading/backend/internal/config"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/seed"
	"gptading/backend/pkg/redis"

	"github.com/joho/godotenv"
)

// Puts a Redis-backed session back to the demo seed.
func main() {
	sessionID := flag.String("session", "", "session id to reset (the sid claim of the gptading_session cookie)")
	flag.Parse()

	if *sessionID == "" {
		fmt.Println("usage: reset_session -session <id>")
		os.Exit(2)
	}

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	redis.InitKeys(cfg.Redis.Prefix)

	sessions := repository.NewRedisSessionRepository(redisClient, cfg.Session.TTL, seed.Default)
	ctx := context.Background()

	if err := sessions.Delete(ctx, *sessionID); err != nil {
		log.Fatalf("Failed to delete session: %v", err)
	}

	state, err := sessions.Get(ctx, *sessionID)
	if err != nil {
		log.Fatalf("Failed to reseed session: %v", err)
	}

	fmt.Printf("✓ Session %s reset: %d bots, balance %.2f\n", *sessionID, len(state.Bots), state.Portfolio.Balance)
}

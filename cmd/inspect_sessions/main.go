package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gptading/backend/internal/config"
	"gptading/backend/internal/model"
	"gptading/backend/pkg/redis"

	"github.com/joho/godotenv"
)

// Lists the sessions held in Redis with their bot count and exchange status.
func main() {
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
	ctx := context.Background()

	pattern := redis.SessionKey("*")
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := redisClient.Scan(ctx, cursor, pattern, 100)
		if err != nil {
			log.Fatalf("Failed to scan keys: %v", err)
		}

		for _, key := range keys {
			var state model.SessionState
			if err := redisClient.GetJSON(ctx, key, &state); err != nil {
				fmt.Printf("- %s: unreadable (%v)\n", key, err)
				continue
			}
			ttl, _ := redisClient.TTL(ctx, key)

			active := 0
			for _, b := range state.Bots {
				if b.IsActive {
					active++
				}
			}
			fmt.Printf("- %s: %d bots (%d active), exchange %s, expires in %s\n",
				key, len(state.Bots), active, state.Exchange.Status, ttl.Round(time.Second))
			total++
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	fmt.Printf("Found %d sessions with pattern %s\n", total, pattern)
}

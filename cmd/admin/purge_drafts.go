package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	redisclient "github.com/a-nagdy/anasityshop-sub000/internal/infra/redis"
)

func main() {
	_ = godotenv.Load()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	client, err := redisclient.NewClient(redisclient.Config{URL: url})
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer client.Close()

	// Age zero sweeps everything currently indexed.
	removed, err := client.SweepDrafts(context.Background(), 0)
	if err != nil {
		log.Fatalf("purge drafts: %v", err)
	}

	fmt.Printf("Successfully purged %d checkout drafts\n", removed)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/a-nagdy/anasityshop-sub000/internal/commerce/catalog"
	"github.com/a-nagdy/anasityshop-sub000/internal/infra/rest"
)

// Manual smoke harness for the request layer. Point API_BASE_URL at a
// running commerce API and watch retries, classification and batching.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		log.Fatalf("API_BASE_URL is not set")
	}

	ctx := context.Background()

	// 1. Create the shared client
	client := rest.New(rest.Options{
		BaseURL:   baseURL,
		RateLimit: 5,
		RateBurst: 2,
		Retry: rest.RetryPolicy{
			MaxRetries: 2,
			BaseDelay:  500 * time.Millisecond,
			Timeout:    10 * time.Second,
		},
	})

	shop := catalog.New(client, catalog.Options{})

	fmt.Println("=== Listing products ===")
	products, page, err := shop.List(ctx, catalog.ListParams{Page: 1, Limit: 5})
	if err != nil {
		log.Fatalf("list failed: %v", err)
	}
	for i, p := range products {
		fmt.Printf("%d. %s (%.2f) [%s]\n", i+1, p.Name, p.Price, p.Status)
	}
	if page != nil {
		fmt.Printf("page %d of %d, %d total\n", page.Page, page.TotalPages, page.Total)
	}

	fmt.Println()

	// 2. Exercise error classification with a product that cannot exist
	fmt.Println("=== Fetching a missing product ===")
	_, err = shop.Get(ctx, "000000000000000000000000")
	if restErr, ok := rest.AsError(err); ok {
		fmt.Printf("kind=%s status=%d retryable=%v requestId=%s\n",
			restErr.Kind, restErr.StatusCode, restErr.Retryable(), restErr.RequestID)
	} else if err != nil {
		fmt.Printf("unexpected error shape: %v\n", err)
	}

	fmt.Println()

	// 3. Batch-fetch the listing's ids in paced chunks
	fmt.Println("=== Batch fetching details ===")
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	detailed, err := shop.ByIDs(ctx, ids)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}
	fmt.Printf("fetched %d products in batches\n", len(detailed))
}

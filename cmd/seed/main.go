package main

import (
	"context"
	"log"
	"os"
	"time"

	"folik-store/internal/config"
	"folik-store/internal/db"
	"folik-store/internal/seed"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC)
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed products: %v", err)
	}

	logger.Println("demo products seeded")
}

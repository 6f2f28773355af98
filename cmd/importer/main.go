package main

import (
	"context"
	"log"
	"os"

	"folik-store/internal/config"
	"folik-store/internal/db"
	"folik-store/internal/importer"
	productrepo "folik-store/internal/repository/product"
)

func main() {
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if len(os.Args) < 2 {
		logger.Fatalf("usage: importer <products.csv>")
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		logger.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	cfg := config.FromEnv()
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	repo := productrepo.NewPostgres(pool, logger)
	imp := importer.NewCSVImporter(file, repo)

	imported, skipped, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import: %v", err)
	}

	logger.Printf("imported %d products (%d rows skipped)", imported, skipped)
}

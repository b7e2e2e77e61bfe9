package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"amznsync/internal/analytics"
	"amznsync/internal/config"
	"amznsync/internal/logger"
	"amznsync/internal/store"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	storePath := flag.String("store", cfg.Store.Path, "Path of the persisted transaction store")
	projectID := flag.String("project", cfg.Export.ProjectID, "BigQuery project ID (required)")
	dataset := flag.String("dataset", cfg.Export.Dataset, "BigQuery dataset")
	table := flag.String("table", cfg.Export.Table, "BigQuery table")
	flag.Parse()

	if *projectID == "" {
		log.Fatal().Msg("Error: --project is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	doc, err := store.Load(*storePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load store")
	}

	n, err := analytics.ExportSynced(ctx, *projectID, *dataset, *table, doc)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported %d synced transactions to %s.%s.%s.\n", n, *projectID, *dataset, *table)
}

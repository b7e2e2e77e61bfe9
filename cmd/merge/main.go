package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"amznsync/internal/config"
	"amznsync/internal/logger"
	"amznsync/internal/normalize"
	"amznsync/internal/runner"
	"amznsync/internal/store"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	storePath := flag.String("store", cfg.Store.Path, "Path of the persisted transaction store")
	inputPath := flag.String("input", "", "Scraped raw orders JSON file (required)")
	backupURI := flag.String("backup-uri", cfg.Store.BackupURI, "Optional gs:// URI to snapshot the store before writing")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal().Msg("Error: --input is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("Failed to read raw orders file")
	}

	var raws []normalize.RawOrder
	if err := json.Unmarshal(data, &raws); err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("Failed to parse raw orders file")
	}

	gate := runner.NewGate()
	release, err := gate.Acquire(*storePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Store is busy")
	}
	defer release()

	doc, err := store.Load(*storePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load store")
	}

	if *backupURI != "" {
		if err := store.BackupToGCS(ctx, *storePath, *backupURI); err != nil {
			log.Warn().Err(err).Msg("Store backup failed, continuing")
		}
	}

	fresh := normalize.Normalize(ctx, raws)
	merged := store.Merge(ctx, doc, fresh)

	if err := merged.Save(*storePath); err != nil {
		log.Fatal().Err(err).Msg("Failed to persist store")
	}

	fmt.Printf("Merged %d raw blocks: %d transactions (%d with order id) in store.\n",
		len(raws), merged.Count, merged.WithOrderID)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"amznsync/internal/config"
	"amznsync/internal/domain"
	"amznsync/internal/logger"
	"amznsync/internal/runner"
	"amznsync/internal/store"
	"amznsync/internal/summarize"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	storePath := flag.String("store", cfg.Store.Path, "Path of the persisted transaction store")
	model := flag.String("model", cfg.AI.Model, "Gemini model name")
	limit := flag.Int("limit", 0, "Maximum number of transactions to summarize (0 = no limit)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

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

	summarizer := summarize.NewGeminiSummarizer(*model)

	var done, failed int
	for _, tx := range doc.Transactions {
		if *limit > 0 && done >= *limit {
			break
		}
		if tx.AISummary.HasValue() || !tx.OrderItems.HasValue() {
			continue
		}

		summary, err := summarizer.Summarize(ctx, tx)
		if err != nil {
			log.Warn().Err(err).Str("order_id", tx.OrderID).Msg("Summarization failed")
			failed++
			continue
		}

		tx.AISummary = domain.Some(summary)
		done++
		log.Info().Str("order_id", tx.OrderID).Str("summary", summary).Msg("Summarized order")
	}

	if done > 0 {
		if err := doc.Save(*storePath); err != nil {
			log.Fatal().Err(err).Msg("Failed to persist store")
		}
	}

	fmt.Printf("Summarized %d transactions (%d failed).\n", done, failed)
}

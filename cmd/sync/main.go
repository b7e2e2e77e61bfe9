package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"amznsync/internal/config"
	"amznsync/internal/ledgersync"
	"amznsync/internal/logger"
	"amznsync/internal/runner"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	storePath := flag.String("store", cfg.Store.Path, "Path of the persisted transaction store")
	token := flag.String("token", cfg.Ledger.Token, "Ledger API token (required)")
	budgetID := flag.String("budget-id", cfg.Ledger.BudgetID, "Ledger budget ID (required)")
	accountID := flag.String("account-id", cfg.Ledger.AccountID, "Ledger account ID (required)")
	orderIDs := flag.String("order-ids", "", "Comma-separated order ids to scope the run (default: all eligible)")
	backupURI := flag.String("backup-uri", cfg.Store.BackupURI, "Optional gs:// URI to snapshot the store before writing")
	dryRun := flag.Bool("dry-run", false, "Build payloads but submit and persist nothing")
	flag.Parse()

	if *token == "" {
		log.Fatal().Msg("Error: --token is required")
	}
	if *budgetID == "" {
		log.Fatal().Msg("Error: --budget-id is required")
	}
	if *accountID == "" {
		log.Fatal().Msg("Error: --account-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("store", *storePath).
		Bool("dry_run", *dryRun).
		Msg("Starting ledger sync")

	client := ledgersync.NewClient(*token)
	if cfg.Ledger.BaseURL != "" {
		client = ledgersync.NewClientWithBaseURL(*token, cfg.Ledger.BaseURL)
	}

	res, err := ledgersync.Run(ctx,
		runner.NewGate(),
		client,
		ledgersync.NewClockSuffixSource(),
		ledgersync.LogSink{Log: log},
		ledgersync.RunConfig{
			StorePath: *storePath,
			BackupURI: *backupURI,
			Options: ledgersync.Options{
				BudgetID:  *budgetID,
				AccountID: *accountID,
				OrderIDs:  splitIDs(*orderIDs),
				DryRun:    *dryRun,
			},
		})
	if err != nil {
		if res != nil {
			printSummary(res, *dryRun)
		}
		log.Fatal().Err(err).Msg("Sync failed")
	}

	printSummary(res, *dryRun)
}

func printSummary(res *ledgersync.Result, dryRun bool) {
	if dryRun {
		fmt.Printf("Dry run %s: %d payloads constructed.\n", res.RunID, len(res.Payloads))
		for _, p := range res.Payloads {
			fmt.Printf("  %s  %s  %d  %q\n", p.ImportID, p.Date, p.Amount, p.Memo)
		}
		return
	}

	fmt.Printf("Run %s: %d confirmed, %d duplicates, %d unconfirmed.\n",
		res.RunID, res.Confirmed, res.Duplicates, res.Unconfirmed)
	if len(res.InvalidDateSamples) > 0 {
		fmt.Printf("Records with unparseable dates (samples): %s\n",
			strings.Join(res.InvalidDateSamples, "; "))
	}
	for id, status := range res.Statuses {
		fmt.Printf("  %-40s %s\n", id, status)
	}
}

func splitIDs(csv string) []string {
	var ids []string
	for _, id := range strings.Split(csv, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

package ledgersync

import (
	"context"
	"fmt"

	"amznsync/internal/logger"
	"amznsync/internal/runner"
	"amznsync/internal/store"
)

// RunConfig is everything one full sync pass needs beyond the collaborators.
type RunConfig struct {
	StorePath string
	// BackupURI, when set to a gs:// URI, snapshots the store file off-site
	// before a mutating run.
	BackupURI string
	Options
}

// Run executes one complete sync pass: claim the store, load it, run the
// protocol, and persist the updated collection as the very last step. A run
// either completes and persists, or fails before any persistence occurs;
// there is no partial write. Dry runs never persist.
func Run(ctx context.Context, gate *runner.Gate, ledger LedgerService, suffixes SuffixSource, sink StatusSink, cfg RunConfig) (*Result, error) {
	log := logger.FromContext(ctx)

	release, err := gate.Acquire(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	defer release()

	doc, err := store.Load(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	if cfg.BackupURI != "" && !cfg.DryRun {
		if err := store.BackupToGCS(ctx, cfg.StorePath, cfg.BackupURI); err != nil {
			// The snapshot is protection, not a prerequisite.
			log.Warn().Err(err).Str("backup_uri", cfg.BackupURI).Msg("Store backup failed, continuing")
		}
	}

	res, err := Sync(ctx, doc, ledger, suffixes, sink, cfg.Options)
	if err != nil {
		return res, err
	}
	if cfg.DryRun {
		return res, nil
	}

	if err := doc.Save(cfg.StorePath); err != nil {
		return res, fmt.Errorf("Run: %w", err)
	}
	sink.OnProgress(ProgressEvent{RunID: res.RunID, Stage: StagePersist, Message: cfg.StorePath})
	return res, nil
}

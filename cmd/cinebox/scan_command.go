package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cinebox/internal/enrich"
	"cinebox/internal/logging"
	"cinebox/internal/reconcile"
	"cinebox/internal/scanner"
	"cinebox/internal/services"
	"cinebox/internal/store"
	"cinebox/internal/tmdb"
)

func newScanCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan library roots and reconcile records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger := cmdCtx.ensureLogger()

			// One writer at a time; the database and cache share a file.
			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire scan lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another cinebox scan is already running (lock %s)", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scanID := uuid.NewString()
			ctx = services.WithRequestID(ctx, scanID)
			logger = logging.WithContext(ctx, logger)
			logger.Info("scan starting", logging.String("scan_id", scanID))

			db, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			client, err := tmdb.New(cfg.TMDB)
			if err != nil {
				return err
			}
			cached := tmdb.NewCachedClient(client, db, logging.NewComponentLogger(logger, "tmdb"))
			enricher := enrich.New(cached, logging.NewComponentLogger(logger, "enrich"))

			files := scanner.New(cfg.Scan, logging.NewComponentLogger(logger, "scanner"))
			records, err := files.Scan(ctx)
			if err != nil {
				return fmt.Errorf("scan library roots: %w", err)
			}
			logger.Info("scan complete", logging.Int("files", len(records)))

			driver := reconcile.New(db, enricher,
				logging.NewComponentLogger(logger, "reconcile"),
				reconcile.WithOutput(cmd.OutOrStdout()))
			summary := driver.Process(ctx, records)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nProcessed %d files: %d inserted, %d updated, %d unchanged, %d errors\n",
				summary.Total(), summary.Inserted, summary.Updated, summary.Unchanged, summary.Errors)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cinebox/internal/store"
)

func newCacheCommand(cmdCtx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "TMDB response cache utilities",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(cmdCtx))
	cacheCmd.AddCommand(newCacheClearCommand(cmdCtx))
	return cacheCmd
}

func newCacheStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			stats, err := db.CacheStatsSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stats.Entries == 0 {
				fmt.Fprintln(out, "Cache is empty.")
				return nil
			}
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			if stats.Oldest != nil {
				fmt.Fprintf(out, "Oldest:  %s\n", stats.Oldest.Local().Format(time.RFC3339))
			}
			if stats.Newest != nil {
				fmt.Fprintf(out, "Newest:  %s\n", stats.Newest.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newCacheClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached TMDB response",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			removed, err := db.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries.\n", removed)
			return nil
		},
	}
}

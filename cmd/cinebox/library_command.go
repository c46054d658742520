package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cinebox/internal/media"
	"cinebox/internal/store"
)

func newLibraryCommand(cmdCtx *commandContext) *cobra.Command {
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "library",
		Short: "List tracked media records",
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

			ctx := cmd.Context()
			var records []*media.Record
			if category := strings.TrimSpace(categoryFlag); category != "" {
				records, err = db.ListByCategory(ctx, media.Category(strings.ToLower(category)))
			} else {
				records, err = db.List(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No records found. Run `cinebox scan` first.")
				return nil
			}

			if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(out, renderLibraryTable(records))
			} else {
				// Plain lines for pipes and redirects.
				for _, rec := range records {
					fmt.Fprintf(out, "%s\t%s\t%s\n", rec.Category, media.DisplayTitle(rec), rec.FilePath)
				}
			}

			counts, err := db.CountByCategory(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d records (%s)\n", len(records), formatCounts(counts))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "Filter by category (anime, tv, movie, others, error)")
	return cmd
}

func renderLibraryTable(records []*media.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		duration := ""
		if rec.DurationSeconds > 0 {
			duration = formatDuration(rec.DurationSeconds)
		}
		detail := ""
		if rec.Category == media.CategoryError && rec.ErrorMessage != nil {
			detail = *rec.ErrorMessage
		}
		rows = append(rows, []string{
			string(rec.Category),
			media.DisplayTitle(rec),
			rec.Resolution,
			duration,
			detail,
		})
	}
	return renderTable(
		[]string{"Category", "Title", "Resolution", "Duration", "Notes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatCounts(counts map[media.Category]int) string {
	order := []media.Category{
		media.CategoryMovie,
		media.CategoryTV,
		media.CategoryAnime,
		media.CategoryOthers,
		media.CategoryError,
	}
	parts := make([]string, 0, len(order))
	for _, category := range order {
		if counts[category] == 0 {
			continue
		}
		parts = append(parts, string(category)+": "+strconv.Itoa(counts[category]))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}

// Package reconcile merges freshly scanned files with their stored records.
// Per file it decides between reusing the stored metadata and running a
// full enrichment pass, then writes the result back. A single bad file
// never aborts the batch.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"cinebox/internal/categorize"
	"cinebox/internal/logging"
	"cinebox/internal/media"
	"cinebox/internal/services"
)

// mtimeTolerance absorbs floating-point clock jitter when comparing
// modification timestamps.
const mtimeTolerance = 0.001

// RecordStore is the persistence surface the driver needs.
type RecordStore interface {
	GetByPath(ctx context.Context, filePath string) (*media.Record, error)
	Insert(ctx context.Context, rec *media.Record) error
	Update(ctx context.Context, rec *media.Record) error
}

// Enricher fills descriptive fields on a record.
type Enricher interface {
	Enrich(ctx context.Context, rec *media.Record)
}

// Summary aggregates one reconciliation pass.
type Summary struct {
	Inserted  int
	Updated   int
	Unchanged int
	Errors    int
}

// Total returns the number of files processed.
func (s Summary) Total() int {
	return s.Inserted + s.Updated + s.Unchanged + s.Errors
}

// Driver reconciles scanned records against the store.
type Driver struct {
	store    RecordStore
	enricher Enricher
	logger   *slog.Logger
	out      io.Writer
	now      func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithOutput directs per-file outcome lines to w.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		if w != nil {
			d.out = w
		}
	}
}

// WithClock overrides the pass timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

// New builds a reconciliation driver.
func New(store RecordStore, enricher Enricher, logger *slog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Driver{
		store:    store,
		enricher: enricher,
		logger:   logger,
		out:      io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Process reconciles every scanned record sequentially. Each file costs at
// most one store read and one store write; failures are persisted as error
// state best-effort and the batch continues.
func (d *Driver) Process(ctx context.Context, records []*media.Record) Summary {
	var summary Summary
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			d.logger.Warn("reconciliation interrupted", logging.Error(err))
			break
		}
		d.processFile(ctx, rec, &summary)
	}
	return summary
}

func (d *Driver) processFile(ctx context.Context, rec *media.Record, summary *Summary) {
	existing, err := d.store.GetByPath(ctx, rec.FilePath)
	if err != nil {
		d.failFile(ctx, rec, false, err, summary)
		return
	}

	scanned := d.now().UTC()
	rec.LastScanned = &scanned

	if existing != nil && unchanged(existing, rec) {
		rec.CarryForwardFrom(existing)
		if err := d.store.Update(ctx, rec); err != nil {
			d.failFile(ctx, rec, true, err, summary)
			return
		}
		summary.Unchanged++
		fmt.Fprintf(d.out, "Unchanged: %s\n", media.DisplayTitle(rec))
		return
	}

	d.enricher.Enrich(ctx, rec)
	categorize.Categorize(rec)

	var writeErr error
	if existing == nil {
		writeErr = d.store.Insert(ctx, rec)
	} else {
		writeErr = d.store.Update(ctx, rec)
	}
	if writeErr != nil {
		d.failFile(ctx, rec, existing != nil, writeErr, summary)
		return
	}

	if rec.Category == media.CategoryError {
		// Enrichment marked the record and the write above persisted the
		// error state; surface it instead of the insert/update verb.
		summary.Errors++
		message := ""
		if rec.ErrorMessage != nil {
			message = *rec.ErrorMessage
		}
		location := ""
		if rec.ErrorLocation != nil {
			location = *rec.ErrorLocation
		}
		fmt.Fprintf(d.out, "Error: %s: %s (%s)\n", media.DisplayTitle(rec), message, location)
		return
	}

	if existing == nil {
		summary.Inserted++
		fmt.Fprintf(d.out, "Inserted: %s\n", media.DisplayTitle(rec))
		return
	}
	summary.Updated++
	fmt.Fprintf(d.out, "Updated: %s\n", media.DisplayTitle(rec))
}

// failFile converts an unexpected failure into record error state and tries
// to persist it. Failure to persist even that is logged and skipped.
func (d *Driver) failFile(ctx context.Context, rec *media.Record, exists bool, cause error, summary *Summary) {
	summary.Errors++
	rec.MarkError(cause.Error(), services.CallerLocation(1))

	var persistErr error
	if exists {
		persistErr = d.store.Update(ctx, rec)
	} else {
		persistErr = d.store.Insert(ctx, rec)
	}
	if persistErr != nil {
		d.logger.Warn("failed to persist error state",
			logging.String("file", rec.FilePath),
			logging.Error(persistErr))
	}

	location := ""
	if rec.ErrorLocation != nil {
		location = *rec.ErrorLocation
	}
	fmt.Fprintf(d.out, "Error: %s: %s (%s)\n", media.DisplayTitle(rec), cause.Error(), location)
}

// unchanged reports whether both records carry a modification timestamp and
// the difference sits within tolerance.
func unchanged(existing, scanned *media.Record) bool {
	if existing.FileModifiedTime == nil || scanned.FileModifiedTime == nil {
		return false
	}
	return math.Abs(*existing.FileModifiedTime-*scanned.FileModifiedTime) <= mtimeTolerance
}

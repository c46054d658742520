package reconcile_test

import (
	"context"
	"testing"

	"cinebox/internal/media"
	"cinebox/internal/reconcile"
	"cinebox/internal/testsupport"
)

// Runs the driver against the real SQLite store instead of the fake.
func TestProcessAgainstRealStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenStore(t, cfg)

	enricher := &fakeEnricher{apply: func(rec *media.Record) {
		rec.Title = media.StringPtr("Inception")
		rec.ReleaseDate = media.StringPtr("2010-07-15")
	}}
	driver := reconcile.New(db, enricher, nil)

	ctx := context.Background()
	batch := []*media.Record{scanned("/library/movies/inception.mkv", 100.0)}

	first := driver.Process(ctx, batch)
	if first.Inserted != 1 {
		t.Fatalf("first pass = %+v", first)
	}

	// Second pass with the same mtime reuses the stored metadata.
	second := driver.Process(ctx, []*media.Record{scanned("/library/movies/inception.mkv", 100.0)})
	if second.Unchanged != 1 {
		t.Fatalf("second pass = %+v", second)
	}
	if enricher.calls != 1 {
		t.Fatalf("enrich calls = %d, want 1", enricher.calls)
	}

	stored, err := db.GetByPath(ctx, "/library/movies/inception.mkv")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if stored == nil || stored.Title == nil || *stored.Title != "Inception" {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.Category != media.CategoryMovie {
		t.Fatalf("category = %s", stored.Category)
	}
}

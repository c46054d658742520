package reconcile_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cinebox/internal/media"
	"cinebox/internal/reconcile"
)

type fakeStore struct {
	records map[string]*media.Record

	reads      int
	inserts    int
	updates    int
	getErr     error
	insertErr  error
	updateErr  error
	failPaths  map[string]error
	lastUpsert *media.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*media.Record)}
}

func (s *fakeStore) GetByPath(ctx context.Context, filePath string) (*media.Record, error) {
	s.reads++
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[filePath]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (s *fakeStore) Insert(ctx context.Context, rec *media.Record) error {
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	if err, ok := s.failPaths[rec.FilePath]; ok {
		return err
	}
	clone := *rec
	s.records[rec.FilePath] = &clone
	s.lastUpsert = &clone
	return nil
}

func (s *fakeStore) Update(ctx context.Context, rec *media.Record) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	if err, ok := s.failPaths[rec.FilePath]; ok {
		return err
	}
	clone := *rec
	s.records[rec.FilePath] = &clone
	s.lastUpsert = &clone
	return nil
}

type fakeEnricher struct {
	calls int
	apply func(rec *media.Record)
}

func (e *fakeEnricher) Enrich(ctx context.Context, rec *media.Record) {
	e.calls++
	rec.ClearError()
	if e.apply != nil {
		e.apply(rec)
	}
}

func scanned(path string, mtime float64) *media.Record {
	return &media.Record{
		FilePath:         path,
		FileName:         path[strings.LastIndex(path, "/")+1:],
		FileSize:         100,
		FileModifiedTime: &mtime,
		Category:         media.CategoryOthers,
	}
}

func TestProcessInsertsNewRecord(t *testing.T) {
	store := newFakeStore()
	enricher := &fakeEnricher{apply: func(rec *media.Record) {
		rec.Title = media.StringPtr("Inception")
		rec.ReleaseDate = media.StringPtr("2010-07-15")
	}}
	var out bytes.Buffer
	driver := reconcile.New(store, enricher, nil, reconcile.WithOutput(&out))

	summary := driver.Process(context.Background(), []*media.Record{
		scanned("/library/movies/inception.mkv", 100.0),
	})

	if summary.Inserted != 1 || summary.Total() != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if enricher.calls != 1 {
		t.Fatalf("enrich calls = %d", enricher.calls)
	}
	stored := store.records["/library/movies/inception.mkv"]
	if stored == nil || stored.Category != media.CategoryMovie {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.LastScanned == nil {
		t.Fatal("last scanned should be set")
	}
	if !strings.Contains(out.String(), "Inserted: Inception (2010)") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestProcessReusesUnchangedRecord(t *testing.T) {
	store := newFakeStore()
	existingScan := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	mtime := 100.0
	store.records["/library/movies/heat.mkv"] = &media.Record{
		FilePath:         "/library/movies/heat.mkv",
		FileName:         "heat.mkv",
		FileSize:         50, // stale size, fresh scan wins
		FileModifiedTime: &mtime,
		Category:         media.CategoryMovie,
		Title:            media.StringPtr("Heat"),
		ReleaseDate:      media.StringPtr("1995-12-15"),
		LastScanned:      &existingScan,
	}

	enricher := &fakeEnricher{}
	passTime := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	driver := reconcile.New(store, enricher, nil,
		reconcile.WithOutput(&out),
		reconcile.WithClock(func() time.Time { return passTime }))

	// 0.0005 within the 0.001 tolerance.
	summary := driver.Process(context.Background(), []*media.Record{
		scanned("/library/movies/heat.mkv", 100.0005),
	})

	if summary.Unchanged != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if enricher.calls != 0 {
		t.Fatalf("unchanged file should skip enrichment, calls = %d", enricher.calls)
	}
	stored := store.records["/library/movies/heat.mkv"]
	if stored.Title == nil || *stored.Title != "Heat" {
		t.Errorf("title = %v", stored.Title)
	}
	if stored.FileSize != 100 {
		t.Errorf("technical fields should come from the fresh scan, size = %d", stored.FileSize)
	}
	if stored.LastScanned == nil || !stored.LastScanned.Equal(passTime) {
		t.Errorf("last scanned = %v", stored.LastScanned)
	}
	if !strings.Contains(out.String(), "Unchanged: Heat (1995)") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestProcessRefreshesChangedRecord(t *testing.T) {
	store := newFakeStore()
	mtime := 100.0
	store.records["/library/movies/cut.mkv"] = &media.Record{
		FilePath:         "/library/movies/cut.mkv",
		FileName:         "cut.mkv",
		FileModifiedTime: &mtime,
		Category:         media.CategoryMovie,
		Title:            media.StringPtr("Old Cut"),
	}

	enricher := &fakeEnricher{apply: func(rec *media.Record) {
		rec.Title = media.StringPtr("Director's Cut")
	}}
	driver := reconcile.New(store, enricher, nil)

	summary := driver.Process(context.Background(), []*media.Record{
		scanned("/library/movies/cut.mkv", 200.0),
	})

	if summary.Updated != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if enricher.calls != 1 {
		t.Fatalf("changed file should re-enrich, calls = %d", enricher.calls)
	}
	stored := store.records["/library/movies/cut.mkv"]
	if stored.Title == nil || *stored.Title != "Director's Cut" {
		t.Errorf("title = %v", stored.Title)
	}
}

func TestProcessMissingTimestampForcesRefresh(t *testing.T) {
	store := newFakeStore()
	store.records["/library/movies/old.mkv"] = &media.Record{
		FilePath: "/library/movies/old.mkv",
		FileName: "old.mkv",
		Category: media.CategoryMovie,
	}

	enricher := &fakeEnricher{}
	driver := reconcile.New(store, enricher, nil)

	driver.Process(context.Background(), []*media.Record{
		scanned("/library/movies/old.mkv", 100.0),
	})

	if enricher.calls != 1 {
		t.Fatalf("missing stored mtime should force refresh, calls = %d", enricher.calls)
	}
}

func TestProcessEnrichmentErrorPersistedAndBatchContinues(t *testing.T) {
	store := newFakeStore()
	enricher := &fakeEnricher{apply: func(rec *media.Record) {
		if rec.FileName == "bad.mkv" {
			rec.MarkError("tmdb lookup failed", "enrich.go:60 in Enrich")
		} else {
			rec.Title = media.StringPtr("Fine")
		}
	}}
	var out bytes.Buffer
	driver := reconcile.New(store, enricher, nil, reconcile.WithOutput(&out))

	summary := driver.Process(context.Background(), []*media.Record{
		scanned("/library/movies/bad.mkv", 1.0),
		scanned("/library/movies/good.mkv", 2.0),
	})

	if summary.Errors != 1 || summary.Inserted != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	bad := store.records["/library/movies/bad.mkv"]
	if bad == nil || bad.Category != media.CategoryError {
		t.Fatalf("bad record = %+v", bad)
	}
	if bad.ErrorMessage == nil || bad.ErrorLocation == nil {
		t.Fatal("error channel should be persisted")
	}
	if store.records["/library/movies/good.mkv"] == nil {
		t.Fatal("subsequent file should still be processed")
	}
	if !strings.Contains(out.String(), "Error: ") || !strings.Contains(out.String(), "tmdb lookup failed") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestProcessStorageWriteFailureBecomesErrorState(t *testing.T) {
	store := newFakeStore()
	store.failPaths = map[string]error{
		"/library/movies/denied.mkv": errors.New("disk full"),
	}
	enricher := &fakeEnricher{}
	driver := reconcile.New(store, enricher, nil)

	summary := driver.Process(context.Background(), []*media.Record{
		scanned("/library/movies/denied.mkv", 1.0),
		scanned("/library/movies/fine.mkv", 2.0),
	})

	if summary.Errors != 1 || summary.Inserted != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if store.records["/library/movies/fine.mkv"] == nil {
		t.Fatal("batch should continue past a storage failure")
	}
}

func TestProcessOneReadOneWritePerFile(t *testing.T) {
	store := newFakeStore()
	enricher := &fakeEnricher{}
	driver := reconcile.New(store, enricher, nil)

	batch := []*media.Record{
		scanned("/library/a.mkv", 1.0),
		scanned("/library/b.mkv", 2.0),
		scanned("/library/c.mkv", 3.0),
	}
	driver.Process(context.Background(), batch)

	if store.reads != 3 {
		t.Errorf("reads = %d, want 3", store.reads)
	}
	if store.inserts+store.updates != 3 {
		t.Errorf("writes = %d, want 3", store.inserts+store.updates)
	}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cinebox/internal/services"
)

// CacheStats summarizes the persistent TMDB cache.
type CacheStats struct {
	Entries int
	Oldest  *time.Time
	Newest  *time.Time
}

// GetCache returns the cached payload for a key. found distinguishes a key
// that was never cached from one cached with a nil payload, which records a
// "no result" answer from TMDB.
func (s *Store) GetCache(key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(context.Background(),
		`SELECT payload FROM tmdb_cache WHERE cache_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, services.Wrap(services.ErrDatabase, "store", "get cache", key, err)
	}
	return payload, true, nil
}

// PutCache stores or replaces the payload for a key.
func (s *Store) PutCache(key string, payload []byte, cachedAt time.Time) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO tmdb_cache (cache_key, payload, cached_at) VALUES (?, ?, ?)
         ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		key, payload, cachedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return services.Wrap(services.ErrDatabase, "store", "put cache", key, err)
	}
	return nil
}

// CacheStatsSnapshot reports the entry count and cached_at bounds.
func (s *Store) CacheStatsSnapshot(ctx context.Context) (CacheStats, error) {
	var stats CacheStats
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), MIN(cached_at), MAX(cached_at) FROM tmdb_cache`).
		Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return CacheStats{}, services.Wrap(services.ErrDatabase, "store", "cache stats", "", err)
	}
	if oldest.Valid {
		if parsed, parseErr := time.Parse(time.RFC3339Nano, oldest.String); parseErr == nil {
			stats.Oldest = &parsed
		}
	}
	if newest.Valid {
		if parsed, parseErr := time.Parse(time.RFC3339Nano, newest.String); parseErr == nil {
			stats.Newest = &parsed
		}
	}
	return stats, nil
}

// ClearCache drops every cached TMDB response and reports how many entries
// were removed.
func (s *Store) ClearCache(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tmdb_cache`)
	if err != nil {
		return 0, services.Wrap(services.ErrDatabase, "store", "clear cache", "", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, services.Wrap(services.ErrDatabase, "store", "clear cache", "", err)
	}
	return removed, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cinebox/internal/media"
	"cinebox/internal/services"
)

const recordColumns = "file_path, file_name, file_size, duration_seconds, resolution, file_modified_time, category, title, release_date, director, writers, producers, runtime_minutes, rating, poster_path, season_number, episode_number, episode_title, episode_air_date, error_message, error_location, last_scanned"

// GetByPath fetches a record by file path. A missing record returns nil, nil.
func (s *Store) GetByPath(ctx context.Context, filePath string) (*media.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM media_records WHERE file_path = ?`, filePath)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrDatabase, "store", "get record", filePath, err)
	}
	return rec, nil
}

// Insert persists a new record.
func (s *Store) Insert(ctx context.Context, rec *media.Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recordArgs(rec)...,
	)
	if err != nil {
		return services.Wrap(services.ErrDatabase, "store", "insert record", rec.FilePath, err)
	}
	return nil
}

// Update rewrites the record identified by its file path.
func (s *Store) Update(ctx context.Context, rec *media.Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE media_records
         SET file_name = ?, file_size = ?, duration_seconds = ?, resolution = ?,
             file_modified_time = ?, category = ?, title = ?, release_date = ?,
             director = ?, writers = ?, producers = ?, runtime_minutes = ?,
             rating = ?, poster_path = ?, season_number = ?, episode_number = ?,
             episode_title = ?, episode_air_date = ?, error_message = ?,
             error_location = ?, last_scanned = ?
         WHERE file_path = ?`,
		rec.FileName,
		rec.FileSize,
		rec.DurationSeconds,
		nullableString(rec.Resolution),
		nullableFloatPtr(rec.FileModifiedTime),
		string(rec.Category),
		nullableStringPtr(rec.Title),
		nullableStringPtr(rec.ReleaseDate),
		nullableStringPtr(rec.Director),
		nullableStringPtr(rec.Writers),
		nullableStringPtr(rec.Producers),
		nullableIntPtr(rec.RuntimeMinutes),
		nullableFloatPtr(rec.Rating),
		nullableStringPtr(rec.PosterPath),
		nullableIntPtr(rec.SeasonNumber),
		nullableIntPtr(rec.EpisodeNumber),
		nullableStringPtr(rec.EpisodeTitle),
		nullableStringPtr(rec.EpisodeAirDate),
		nullableStringPtr(rec.ErrorMessage),
		nullableStringPtr(rec.ErrorLocation),
		nullableTime(rec.LastScanned),
		rec.FilePath,
	)
	if err != nil {
		return services.Wrap(services.ErrDatabase, "store", "update record", rec.FilePath, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return services.Wrap(services.ErrDatabase, "store", "update record", rec.FilePath, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "update record", rec.FilePath, nil)
	}
	return nil
}

// Upsert inserts the record or, when the path already exists, rewrites it.
func (s *Store) Upsert(ctx context.Context, rec *media.Record) error {
	existing, err := s.GetByPath(ctx, rec.FilePath)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.Insert(ctx, rec)
	}
	return s.Update(ctx, rec)
}

// Delete removes the record for a file path. Deleting a missing record is
// not an error.
func (s *Store) Delete(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media_records WHERE file_path = ?`, filePath)
	if err != nil {
		return services.Wrap(services.ErrDatabase, "store", "delete record", filePath, err)
	}
	return nil
}

// List returns every record ordered by file path.
func (s *Store) List(ctx context.Context) ([]*media.Record, error) {
	return s.queryRecords(ctx, `SELECT `+recordColumns+` FROM media_records ORDER BY file_path`)
}

// ListByCategory returns records in one category ordered by file path.
func (s *Store) ListByCategory(ctx context.Context, category media.Category) ([]*media.Record, error) {
	return s.queryRecords(ctx,
		`SELECT `+recordColumns+` FROM media_records WHERE category = ? ORDER BY file_path`,
		string(category))
}

// CountByCategory returns record counts keyed by category.
func (s *Store) CountByCategory(ctx context.Context) (map[media.Category]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(1) FROM media_records GROUP BY category`)
	if err != nil {
		return nil, services.Wrap(services.ErrDatabase, "store", "count records", "", err)
	}
	defer rows.Close()

	counts := make(map[media.Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, services.Wrap(services.ErrDatabase, "store", "scan count", "", err)
		}
		counts[media.Category(category)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrDatabase, "store", "count records", "", err)
	}
	return counts, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]*media.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrDatabase, "store", "query records", "", err)
	}
	defer rows.Close()

	var records []*media.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrDatabase, "store", "scan record", "", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrDatabase, "store", "query records", "", err)
	}
	return records, nil
}

func recordArgs(rec *media.Record) []any {
	return []any{
		rec.FilePath,
		rec.FileName,
		rec.FileSize,
		rec.DurationSeconds,
		nullableString(rec.Resolution),
		nullableFloatPtr(rec.FileModifiedTime),
		string(rec.Category),
		nullableStringPtr(rec.Title),
		nullableStringPtr(rec.ReleaseDate),
		nullableStringPtr(rec.Director),
		nullableStringPtr(rec.Writers),
		nullableStringPtr(rec.Producers),
		nullableIntPtr(rec.RuntimeMinutes),
		nullableFloatPtr(rec.Rating),
		nullableStringPtr(rec.PosterPath),
		nullableIntPtr(rec.SeasonNumber),
		nullableIntPtr(rec.EpisodeNumber),
		nullableStringPtr(rec.EpisodeTitle),
		nullableStringPtr(rec.EpisodeAirDate),
		nullableStringPtr(rec.ErrorMessage),
		nullableStringPtr(rec.ErrorLocation),
		nullableTime(rec.LastScanned),
	}
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*media.Record, error) {
	var (
		filePath       string
		fileName       string
		fileSize       int64
		duration       float64
		resolution     sql.NullString
		modifiedTime   sql.NullFloat64
		category       string
		title          sql.NullString
		releaseDate    sql.NullString
		director       sql.NullString
		writers        sql.NullString
		producers      sql.NullString
		runtimeMinutes sql.NullInt64
		rating         sql.NullFloat64
		posterPath     sql.NullString
		seasonNumber   sql.NullInt64
		episodeNumber  sql.NullInt64
		episodeTitle   sql.NullString
		episodeAirDate sql.NullString
		errorMessage   sql.NullString
		errorLocation  sql.NullString
		lastScannedRaw sql.NullString
	)

	if err := scanner.Scan(
		&filePath,
		&fileName,
		&fileSize,
		&duration,
		&resolution,
		&modifiedTime,
		&category,
		&title,
		&releaseDate,
		&director,
		&writers,
		&producers,
		&runtimeMinutes,
		&rating,
		&posterPath,
		&seasonNumber,
		&episodeNumber,
		&episodeTitle,
		&episodeAirDate,
		&errorMessage,
		&errorLocation,
		&lastScannedRaw,
	); err != nil {
		return nil, err
	}

	rec := &media.Record{
		FilePath:         filePath,
		FileName:         fileName,
		FileSize:         fileSize,
		DurationSeconds:  duration,
		Resolution:       resolution.String,
		FileModifiedTime: floatPtr(modifiedTime),
		Category:         media.Category(category),
		Title:            stringPtr(title),
		ReleaseDate:      stringPtr(releaseDate),
		Director:         stringPtr(director),
		Writers:          stringPtr(writers),
		Producers:        stringPtr(producers),
		RuntimeMinutes:   intPtr(runtimeMinutes),
		Rating:           floatPtr(rating),
		PosterPath:       stringPtr(posterPath),
		SeasonNumber:     intPtr(seasonNumber),
		EpisodeNumber:    intPtr(episodeNumber),
		EpisodeTitle:     stringPtr(episodeTitle),
		EpisodeAirDate:   stringPtr(episodeAirDate),
		ErrorMessage:     stringPtr(errorMessage),
		ErrorLocation:    stringPtr(errorLocation),
	}
	if lastScannedRaw.Valid && lastScannedRaw.String != "" {
		parsed, err := time.Parse(time.RFC3339Nano, lastScannedRaw.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_scanned: %w", err)
		}
		rec.LastScanned = &parsed
	}
	return rec, nil
}

// Package media defines the record model shared by the scanner, enrichment,
// categorization, and persistence layers, plus display-title formatting.
package media

import "time"

// Category classifies a media record.
type Category string

const (
	CategoryAnime  Category = "anime"
	CategoryTV     Category = "tv"
	CategoryMovie  Category = "movie"
	CategoryOthers Category = "others"
	CategoryError  Category = "error"
)

// Record is one tracked media file and its derived attributes. FilePath is
// the identity; descriptive and episodic fields stay nil until enrichment
// fills them. The reconciliation driver is the only writer of persisted
// records; other components mutate in-flight instances they are handed.
type Record struct {
	// Identity and technical fields, always set by the scanner.
	FilePath         string
	FileName         string
	FileSize         int64
	DurationSeconds  float64
	Resolution       string
	FileModifiedTime *float64

	Category Category

	// Descriptive fields, nil until enriched.
	Title          *string
	ReleaseDate    *string
	Director       *string
	Writers        *string
	Producers      *string
	RuntimeMinutes *int
	Rating         *float64
	PosterPath     *string

	// Episodic fields, set only for TV episodes.
	SeasonNumber   *int
	EpisodeNumber  *int
	EpisodeTitle   *string
	EpisodeAirDate *string

	// Error channel; both set exactly when Category is CategoryError.
	ErrorMessage  *string
	ErrorLocation *string

	LastScanned *time.Time
}

// ClearError resets the error channel ahead of a fresh enrichment attempt.
// A record that was in the error state drops back to others so that the
// categorizer can reclassify it.
func (r *Record) ClearError() {
	if r.Category == CategoryError {
		r.Category = CategoryOthers
	}
	r.ErrorMessage = nil
	r.ErrorLocation = nil
}

// MarkError records a failure on the record, making the error state the
// terminal category.
func (r *Record) MarkError(message, location string) {
	r.Category = CategoryError
	r.ErrorMessage = &message
	r.ErrorLocation = &location
}

// CarryForwardFrom copies every descriptive, episodic, and error field from
// existing onto r. Technical fields (size, duration, resolution, modified
// time) keep the values from the fresh scan.
func (r *Record) CarryForwardFrom(existing *Record) {
	r.Category = existing.Category
	r.Title = existing.Title
	r.ReleaseDate = existing.ReleaseDate
	r.Director = existing.Director
	r.Writers = existing.Writers
	r.Producers = existing.Producers
	r.RuntimeMinutes = existing.RuntimeMinutes
	r.Rating = existing.Rating
	r.PosterPath = existing.PosterPath
	r.SeasonNumber = existing.SeasonNumber
	r.EpisodeNumber = existing.EpisodeNumber
	r.EpisodeTitle = existing.EpisodeTitle
	r.EpisodeAirDate = existing.EpisodeAirDate
	r.ErrorMessage = existing.ErrorMessage
	r.ErrorLocation = existing.ErrorLocation
}

// String pointer helpers used by the enrichment and persistence layers.

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }

func Float64Ptr(v float64) *float64 { return &v }

// Package enrich fills the descriptive fields of a media record from TMDB.
// It decides whether a file looks like a TV episode or a movie, resolves a
// title source, and drives the metadata client. Enrichment never fails the
// caller; lookup errors become record-level error state.
package enrich

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cinebox/internal/logging"
	"cinebox/internal/media"
	"cinebox/internal/services"
	"cinebox/internal/tmdb"
)

var (
	seasonEpisodePattern = regexp.MustCompile(`(?i)\bS(\d{1,2})[.\-_ ]?E(\d{1,2})\b`)
	crossPattern         = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,2})\b`)
)

// Enricher resolves descriptive metadata for scanned records.
type Enricher struct {
	client tmdb.API
	logger *slog.Logger
}

// New builds an enricher on top of a metadata client, typically a
// tmdb.CachedClient.
func New(client tmdb.API, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Enricher{client: client, logger: logger}
}

// Enrich mutates rec in place. Records that look like TV episodes go
// through the show flow; everything else is treated as a movie candidate.
// A lookup that finds nothing leaves the record unenriched for the
// categorizer to sort out; a lookup that fails marks the record's error
// channel instead of returning the failure.
func (e *Enricher) Enrich(ctx context.Context, rec *media.Record) {
	if rec == nil {
		return
	}
	rec.ClearError()

	var err error
	if season, episode, ok := extractSeasonEpisode(rec.FileName); ok {
		err = e.enrichEpisode(ctx, rec, season, episode)
	} else {
		err = e.enrichMovie(ctx, rec)
	}
	if err != nil {
		location := services.CallerLocation(0)
		e.logger.Warn("enrichment failed",
			logging.String("file", rec.FileName),
			logging.Error(err))
		rec.MarkError(err.Error(), location)
	}
}

func (e *Enricher) enrichMovie(ctx context.Context, rec *media.Record) error {
	hit, err := e.client.SearchMovie(ctx, rec.FileName)
	if err != nil {
		return err
	}
	if hit == nil {
		return nil
	}
	details, err := e.client.MovieDetails(ctx, hit.ID)
	if err != nil {
		return err
	}
	if details == nil {
		return nil
	}

	rec.Title = media.StringPtr(details.Title)
	if details.ReleaseDate != "" {
		rec.ReleaseDate = media.StringPtr(details.ReleaseDate)
	}
	if details.RuntimeMinutes > 0 {
		rec.RuntimeMinutes = media.IntPtr(details.RuntimeMinutes)
	}
	rec.Director = details.Director
	rec.Writers = details.Writers
	rec.Producers = details.Producers
	rec.Rating = details.Rating
	if details.PosterPath != "" {
		rec.PosterPath = media.StringPtr(details.PosterPath)
	}
	return nil
}

func (e *Enricher) enrichEpisode(ctx context.Context, rec *media.Record, season, episode int) error {
	titleSource := episodeTitleSource(rec.FilePath, rec.FileName)
	hit, err := e.client.SearchTV(ctx, titleSource)
	if err != nil {
		return err
	}
	if hit == nil {
		return nil
	}

	seasonCount, known, err := e.client.TVSeasonCount(ctx, hit.ID)
	if err != nil {
		return err
	}
	if known && season > seasonCount {
		// Almost certainly a wrong show match; leave the record alone.
		e.logger.Warn("season exceeds known count, skipping enrichment",
			logging.String("file", rec.FileName),
			logging.String("show", hit.Name),
			logging.Int("season", season),
			logging.Int("known_seasons", seasonCount))
		return nil
	}

	details, err := e.client.TVDetails(ctx, hit.ID)
	if err != nil {
		return err
	}
	if details != nil {
		rec.Title = media.StringPtr(details.Name)
		if details.FirstAirDate != "" {
			rec.ReleaseDate = media.StringPtr(details.FirstAirDate)
		}
		rec.Director = details.Director
		rec.Writers = details.Writers
		rec.Producers = details.Producers
		rec.Rating = details.Rating
		if details.PosterPath != "" {
			rec.PosterPath = media.StringPtr(details.PosterPath)
		}
	}

	episodeDetails, err := e.client.TVEpisodeDetails(ctx, hit.ID, season, episode)
	if err != nil {
		return err
	}
	if episodeDetails == nil {
		return nil
	}
	rec.SeasonNumber = media.IntPtr(season)
	rec.EpisodeNumber = media.IntPtr(episode)
	if episodeDetails.Name != "" {
		rec.EpisodeTitle = media.StringPtr(episodeDetails.Name)
	}
	if episodeDetails.AirDate != "" {
		rec.EpisodeAirDate = media.StringPtr(episodeDetails.AirDate)
	}
	if episodeDetails.RuntimeMinutes > 0 {
		rec.RuntimeMinutes = media.IntPtr(episodeDetails.RuntimeMinutes)
	}
	return nil
}

// extractSeasonEpisode pulls season and episode numbers from a filename.
// Both the S01E02 shape and the 1x02 shape are accepted.
func extractSeasonEpisode(fileName string) (season, episode int, ok bool) {
	if match := seasonEpisodePattern.FindStringSubmatch(fileName); match != nil {
		return atoiPair(match[1], match[2])
	}
	if match := crossPattern.FindStringSubmatch(fileName); match != nil {
		return atoiPair(match[1], match[2])
	}
	return 0, 0, false
}

func atoiPair(rawSeason, rawEpisode string) (int, int, bool) {
	season, err := strconv.Atoi(rawSeason)
	if err != nil {
		return 0, 0, false
	}
	episode, err := strconv.Atoi(rawEpisode)
	if err != nil {
		return 0, 0, false
	}
	return season, episode, true
}

// episodeTitleSource picks the search string for a TV file. Episodes are
// normally laid out as Show/Season N/episode.mkv, so the grandparent
// directory carries the show name; files without that structure fall back
// to the filename.
func episodeTitleSource(filePath, fileName string) string {
	grandparent := filepath.Base(filepath.Dir(filepath.Dir(filePath)))
	switch grandparent {
	case ".", "", "/":
		return fileName
	}
	if grandparent == string(filepath.Separator) {
		return fileName
	}
	if strings.TrimSpace(grandparent) == "" {
		return fileName
	}
	return grandparent
}

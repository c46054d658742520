// Package categorize assigns a record to one of the library categories
// using ordered heuristics over enrichment results and filename cues.
package categorize

import (
	"regexp"
	"strings"

	"cinebox/internal/media"
)

// animeKeywords are matched case-insensitively against the file path, file
// name, and enriched title.
var animeKeywords = []string{
	"anime",
	"animedub",
	"anime-dub",
	"crunchyroll",
	"subsplease",
	"erai-raws",
	"horriblesubs",
}

// fansubPattern matches the common fansub release shape: a bracketed group
// tag, then a title, then " - " and a 1 to 4 digit episode number.
var fansubPattern = regexp.MustCompile(`^\[[^\]]+\].*?\s-\s\d{1,4}\b`)

// Categorize decides the record's category in place. First match wins:
// error state is terminal, then anime cues, then episodic fields, then any
// enriched descriptive field, then others.
func Categorize(rec *media.Record) {
	if rec == nil {
		return
	}
	switch {
	case rec.Category == media.CategoryError:
		// keep
	case isAnime(rec):
		rec.Category = media.CategoryAnime
	case rec.SeasonNumber != nil && rec.EpisodeNumber != nil:
		rec.Category = media.CategoryTV
	case hasDescriptiveFields(rec):
		rec.Category = media.CategoryMovie
	default:
		rec.Category = media.CategoryOthers
	}
}

func isAnime(rec *media.Record) bool {
	haystack := strings.ToLower(rec.FilePath + " " + rec.FileName)
	if rec.Title != nil {
		haystack += " " + strings.ToLower(*rec.Title)
	}
	for _, keyword := range animeKeywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return fansubPattern.MatchString(rec.FileName)
}

func hasDescriptiveFields(rec *media.Record) bool {
	return rec.Title != nil ||
		rec.ReleaseDate != nil ||
		rec.RuntimeMinutes != nil ||
		rec.Director != nil ||
		rec.Writers != nil ||
		rec.Producers != nil ||
		rec.Rating != nil
}

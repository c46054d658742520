package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle renders a human-readable label for operator-facing output.
//
//	TV:    Show Name (Year) - S01E02 - Episode Title
//	Movie: Movie Name (Year)
//
// Falls back to a readable form of the file name when no title is known.
func DisplayTitle(rec *Record) string {
	year := extractYear(rec.ReleaseDate)

	if rec.SeasonNumber != nil && rec.EpisodeNumber != nil {
		base := prettyFileName(rec.FileName)
		if rec.Title != nil {
			base = *rec.Title
		}
		if year != "" {
			base = fmt.Sprintf("%s (%s)", base, year)
		}
		label := fmt.Sprintf("%s - S%02dE%02d", base, *rec.SeasonNumber, *rec.EpisodeNumber)
		if rec.EpisodeTitle != nil && *rec.EpisodeTitle != "" {
			label += " - " + *rec.EpisodeTitle
		}
		return label
	}

	if rec.Title != nil && *rec.Title != "" {
		if year != "" {
			return fmt.Sprintf("%s (%s)", *rec.Title, year)
		}
		return *rec.Title
	}

	return prettyFileName(rec.FileName)
}

func extractYear(date *string) string {
	if date == nil || *date == "" {
		return ""
	}
	parts := strings.SplitN(*date, "-", 2)
	return parts[0]
}

// prettyFileName derives a readable title from a raw file name: extension
// stripped, separators collapsed, words title-cased.
func prettyFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return name
	}
	return cases.Title(language.Und).String(title)
}

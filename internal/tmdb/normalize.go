package tmdb

import (
	"regexp"
	"strings"
)

var (
	extensionPattern  = regexp.MustCompile(`\.[A-Za-z0-9]{2,4}$`)
	groupTagPattern   = regexp.MustCompile(`[\[({].*?[\])}]`)
	resolutionPattern = regexp.MustCompile(`(?i)\b(1080p|720p|2160p)\b`)
	codecPattern      = regexp.MustCompile(`(?i)\b(x264|x265|h264|h265)\b`)
	audioPattern      = regexp.MustCompile(`(?i)\b(AAC|DTS)\b`)
	separatorPattern  = regexp.MustCompile(`[._-]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeQuery cleans a raw filename or title into a search query by
// removing common release tags. The transformation order matters: extension
// first so bracketed groups and token removal see the bare name, separators
// collapsed before whitespace is squeezed.
func NormalizeQuery(raw string) string {
	query := strings.TrimSpace(raw)
	query = extensionPattern.ReplaceAllString(query, "")
	query = groupTagPattern.ReplaceAllString(query, " ")
	query = resolutionPattern.ReplaceAllString(query, " ")
	query = codecPattern.ReplaceAllString(query, " ")
	query = audioPattern.ReplaceAllString(query, " ")
	query = separatorPattern.ReplaceAllString(query, " ")
	query = whitespacePattern.ReplaceAllString(query, " ")
	return strings.TrimSpace(query)
}

package tmdb

import "fmt"

// Key identifies a single cacheable TMDB lookup. Keys built from queries
// normalize them first so equivalent file names share a cache row.
type Key struct {
	Kind    string
	Query   string
	ID      int64
	Season  int
	Episode int
}

const (
	kindMovieSearch   = "movie_search"
	kindTVSearch      = "tv_search"
	kindMovieDetails  = "movie_details"
	kindTVDetails     = "tv_details"
	kindTVSeasonCount = "tv_season_count"
	kindTVEpisode     = "tv_episode"
)

func MovieSearchKey(query string) Key {
	return Key{Kind: kindMovieSearch, Query: NormalizeQuery(query)}
}

func TVSearchKey(query string) Key {
	return Key{Kind: kindTVSearch, Query: NormalizeQuery(query)}
}

func MovieDetailsKey(id int64) Key {
	return Key{Kind: kindMovieDetails, ID: id}
}

func TVDetailsKey(id int64) Key {
	return Key{Kind: kindTVDetails, ID: id}
}

func TVSeasonCountKey(id int64) Key {
	return Key{Kind: kindTVSeasonCount, ID: id}
}

func TVEpisodeKey(id int64, season, episode int) Key {
	return Key{Kind: kindTVEpisode, ID: id, Season: season, Episode: episode}
}

// String renders the canonical cache key used by both cache tiers.
func (k Key) String() string {
	switch k.Kind {
	case kindMovieSearch, kindTVSearch:
		return fmt.Sprintf("%s:%s", k.Kind, k.Query)
	case kindTVEpisode:
		return fmt.Sprintf("%s:%d:s%02de%02d", k.Kind, k.ID, k.Season, k.Episode)
	default:
		return fmt.Sprintf("%s:%d", k.Kind, k.ID)
	}
}

package tmdb

// MovieHit is the best search match for a movie query.
type MovieHit struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	Rating      float64 `json:"rating"`
}

// TVHit is the best search match for a TV query.
type TVHit struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FirstAirDate string  `json:"first_air_date"`
	Rating       float64 `json:"rating"`
}

// MovieDetails carries the descriptive movie fields cinebox persists.
// Rating is set only when the payload carried an IMDb cross-reference id.
type MovieDetails struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	ReleaseDate    string   `json:"release_date"`
	RuntimeMinutes int      `json:"runtime_minutes"`
	Director       *string  `json:"director"`
	Writers        *string  `json:"writers"`
	Producers      *string  `json:"producers"`
	Rating         *float64 `json:"rating"`
	IMDbID         string   `json:"imdb_id"`
	PosterPath     string   `json:"poster_path"`
}

// TVDetails carries the show-level fields cinebox persists.
type TVDetails struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	FirstAirDate string   `json:"first_air_date"`
	Director     *string  `json:"director"`
	Writers      *string  `json:"writers"`
	Producers    *string  `json:"producers"`
	Rating       *float64 `json:"rating"`
	IMDbID       string   `json:"imdb_id"`
	PosterPath   string   `json:"poster_path"`
}

// EpisodeDetails carries per-episode fields.
type EpisodeDetails struct {
	Name           string `json:"name"`
	AirDate        string `json:"air_date"`
	RuntimeMinutes int    `json:"runtime_minutes"`
	Overview       string `json:"overview"`
}

// Wire payloads. These model the raw TMDB responses and never escape this
// package; the exported types above are the mapped boundary.

type searchMovieResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		ReleaseDate string  `json:"release_date"`
		Overview    string  `json:"overview"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}

type searchTVResponse struct {
	Results []struct {
		ID           int64   `json:"id"`
		Name         string  `json:"name"`
		FirstAirDate string  `json:"first_air_date"`
		VoteAverage  float64 `json:"vote_average"`
	} `json:"results"`
}

type creditsPayload struct {
	Crew []CrewMember `json:"crew"`
}

type externalIDsPayload struct {
	IMDbID string `json:"imdb_id"`
}

type movieDetailsResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	ReleaseDate string             `json:"release_date"`
	Runtime     int                `json:"runtime"`
	VoteAverage float64            `json:"vote_average"`
	PosterPath  string             `json:"poster_path"`
	Credits     creditsPayload     `json:"credits"`
	ExternalIDs externalIDsPayload `json:"external_ids"`
}

type tvDetailsResponse struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	FirstAirDate    string             `json:"first_air_date"`
	NumberOfSeasons int                `json:"number_of_seasons"`
	VoteAverage     float64            `json:"vote_average"`
	PosterPath      string             `json:"poster_path"`
	Credits         creditsPayload     `json:"credits"`
	ExternalIDs     externalIDsPayload `json:"external_ids"`
}

type episodeDetailsResponse struct {
	Name     string `json:"name"`
	AirDate  string `json:"air_date"`
	Runtime  int    `json:"runtime"`
	Overview string `json:"overview"`
}

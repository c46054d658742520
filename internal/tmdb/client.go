package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"cinebox/internal/config"
	"cinebox/internal/services"
)

// Client provides access to the TMDB API.
type Client struct {
	apiKey        string
	baseURL       string
	language      string
	retryAttempts uint
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client from configuration.
func New(cfg config.TMDB, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := uint(1)
	if cfg.RetryAttempts > 0 {
		attempts = uint(cfg.RetryAttempts)
	}
	client := &Client{
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		language:      strings.TrimSpace(cfg.Language),
		retryAttempts: attempts,
		httpClient:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB for the supplied query and returns the best
// match, or nil when TMDB has no results. The query should already be
// normalized; CachedClient handles that for callers.
func (c *Client) SearchMovie(ctx context.Context, query string) (*MovieHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var payload searchMovieResponse
	notFound, err := c.get(ctx, "/search/movie", params, false, &payload)
	if err != nil || notFound {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	first := payload.Results[0]
	return &MovieHit{
		ID:          first.ID,
		Title:       first.Title,
		ReleaseDate: first.ReleaseDate,
		Overview:    first.Overview,
		Rating:      first.VoteAverage,
	}, nil
}

// SearchTV searches TMDB for the supplied query and returns the best match,
// or nil when TMDB has no results.
func (c *Client) SearchTV(ctx context.Context, query string) (*TVHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var payload searchTVResponse
	notFound, err := c.get(ctx, "/search/tv", params, false, &payload)
	if err != nil || notFound {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	first := payload.Results[0]
	return &TVHit{
		ID:           first.ID,
		Name:         first.Name,
		FirstAirDate: first.FirstAirDate,
		Rating:       first.VoteAverage,
	}, nil
}

// MovieDetails fetches movie details by TMDB id. A 404 returns nil, nil.
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	if id <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,external_ids")

	var payload movieDetailsResponse
	notFound, err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, true, &payload)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}

	details := &MovieDetails{
		ID:             payload.ID,
		Title:          payload.Title,
		ReleaseDate:    payload.ReleaseDate,
		RuntimeMinutes: payload.Runtime,
		Director:       firstNameByJob(payload.Credits.Crew, directorJobs),
		Writers:        namesByJob(payload.Credits.Crew, writerJobs),
		Producers:      namesByJob(payload.Credits.Crew, producerJobs),
		IMDbID:         payload.ExternalIDs.IMDbID,
		PosterPath:     payload.PosterPath,
	}
	// A rating without a cross-reference id is not trustworthy enough to
	// persist; leave it unset rather than zero.
	if payload.ExternalIDs.IMDbID != "" {
		rating := payload.VoteAverage
		details.Rating = &rating
	}
	return details, nil
}

// TVDetails fetches show-level details by TMDB id. A 404 returns nil, nil.
func (c *Client) TVDetails(ctx context.Context, id int64) (*TVDetails, error) {
	if id <= 0 {
		return nil, errors.New("show id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,external_ids")

	var payload tvDetailsResponse
	notFound, err := c.get(ctx, fmt.Sprintf("/tv/%d", id), params, true, &payload)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}

	details := &TVDetails{
		ID:           payload.ID,
		Name:         payload.Name,
		FirstAirDate: payload.FirstAirDate,
		Director:     firstNameByJob(payload.Credits.Crew, directorJobs),
		Writers:      namesByJob(payload.Credits.Crew, writerJobs),
		Producers:    namesByJob(payload.Credits.Crew, producerJobs),
		IMDbID:       payload.ExternalIDs.IMDbID,
		PosterPath:   payload.PosterPath,
	}
	if payload.ExternalIDs.IMDbID != "" {
		rating := payload.VoteAverage
		details.Rating = &rating
	}
	return details, nil
}

// TVSeasonCount returns the number of seasons TMDB knows for a show. The
// boolean is false when the show does not exist.
func (c *Client) TVSeasonCount(ctx context.Context, id int64) (int, bool, error) {
	if id <= 0 {
		return 0, false, errors.New("show id must be positive")
	}
	var payload tvDetailsResponse
	notFound, err := c.get(ctx, fmt.Sprintf("/tv/%d", id), url.Values{}, true, &payload)
	if err != nil {
		return 0, false, err
	}
	if notFound {
		return 0, false, nil
	}
	return payload.NumberOfSeasons, true, nil
}

// TVEpisodeDetails fetches a single episode. A 404 (unknown show, season, or
// episode) returns nil, nil.
func (c *Client) TVEpisodeDetails(ctx context.Context, id int64, season, episode int) (*EpisodeDetails, error) {
	if id <= 0 {
		return nil, errors.New("show id must be positive")
	}
	if season < 0 || episode <= 0 {
		return nil, fmt.Errorf("invalid episode reference s%d e%d", season, episode)
	}
	var payload episodeDetailsResponse
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", id, season, episode)
	notFound, err := c.get(ctx, path, url.Values{}, true, &payload)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}
	return &EpisodeDetails{
		Name:           payload.Name,
		AirDate:        payload.AirDate,
		RuntimeMinutes: payload.Runtime,
		Overview:       payload.Overview,
	}, nil
}

// retryableStatusError marks 429/5xx responses for the retry policy.
type retryableStatusError struct {
	status int
	path   string
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d", e.path, e.status)
}

// get performs a GET request against the API, retrying rate-limit and server
// errors with exponential backoff. It reports notFound=true instead of an
// error for a 404 when allowNotFound is set. The decoded body lands in out.
func (c *Client) get(ctx context.Context, path string, params url.Values, allowNotFound bool, out any) (notFound bool, err error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return false, fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	var body []byte
	var status int
	attempt := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if reqErr != nil {
			return fmt.Errorf("build request: %w", reqErr)
		}
		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return services.Wrap(services.ErrNetwork, "tmdb", path, "execute request", doErr)
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return &retryableStatusError{status: status, path: path}
		}

		body, doErr = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if doErr != nil {
			return services.Wrap(services.ErrNetwork, "tmdb", path, "read response", doErr)
		}
		return nil
	}

	err = retry.Do(
		attempt,
		retry.Attempts(c.retryAttempts),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(8*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var statusErr *retryableStatusError
			return errors.As(err, &statusErr)
		}),
	)
	if err != nil {
		var statusErr *retryableStatusError
		if errors.As(err, &statusErr) {
			if statusErr.status == http.StatusTooManyRequests {
				return false, services.Wrap(services.ErrRateLimited, "tmdb", path, "retries exhausted", statusErr)
			}
			return false, services.Wrap(services.ErrNetwork, "tmdb", path, "server error after retries", statusErr)
		}
		return false, err
	}

	switch {
	case status == http.StatusNotFound && allowNotFound:
		return true, nil
	case status == http.StatusUnauthorized:
		return false, services.Wrap(services.ErrConfiguration, "tmdb", path, "authentication failed", errors.New(http.StatusText(status)))
	case status != http.StatusOK:
		return false, services.Wrap(services.ErrInvalidResponse, "tmdb", path, "unexpected status "+strconv.Itoa(status), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, services.Wrap(services.ErrInvalidResponse, "tmdb", path, "decode response", err)
	}
	return false, nil
}

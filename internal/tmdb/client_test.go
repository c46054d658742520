package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"cinebox/internal/config"
	"cinebox/internal/services"
	"cinebox/internal/tmdb"
)

func newTestClient(t *testing.T, handler http.Handler) (*tmdb.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := tmdb.New(config.TMDB{
		APIKey:                "test-key",
		BaseURL:               server.URL,
		Language:              "en-US",
		RequestTimeoutSeconds: 5,
		RetryAttempts:         3,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestSearchMovieReturnsFirstResult(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		if got := r.URL.Query().Get("include_adult"); got != "false" {
			t.Errorf("include_adult = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":27205,"title":"Inception","release_date":"2010-07-15","vote_average":8.4},
			{"id":99,"title":"Other","release_date":"1999-01-01","vote_average":5.0}
		]}`))
	}))

	hit, err := client.SearchMovie(context.Background(), "Inception 2010")
	if err != nil {
		t.Fatalf("SearchMovie: %v", err)
	}
	if hit == nil || hit.ID != 27205 || hit.Title != "Inception" {
		t.Fatalf("unexpected hit: %+v", hit)
	}
}

func TestSearchMovieNoResults(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))

	hit, err := client.SearchMovie(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("SearchMovie: %v", err)
	}
	if hit != nil {
		t.Fatalf("expected nil hit, got %+v", hit)
	}
}

func TestMovieDetailsMapsCrewAndRating(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("append_to_response"); got != "credits,external_ids" {
			t.Errorf("append_to_response = %q", got)
		}
		w.Write([]byte(`{
			"id":27205,"title":"Inception","release_date":"2010-07-15",
			"runtime":148,"vote_average":8.4,"poster_path":"/poster.jpg",
			"credits":{"crew":[
				{"job":"Director","name":"Christopher Nolan"},
				{"job":"Writer","name":"Christopher Nolan"},
				{"job":"Producer","name":"Emma Thomas"},
				{"job":"Executive Producer","name":"Chris Brigham"}
			]},
			"external_ids":{"imdb_id":"tt1375666"}
		}`))
	}))

	details, err := client.MovieDetails(context.Background(), 27205)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if details.Director == nil || *details.Director != "Christopher Nolan" {
		t.Errorf("director = %v", details.Director)
	}
	if details.Producers == nil || *details.Producers != "Emma Thomas, Chris Brigham" {
		t.Errorf("producers = %v", details.Producers)
	}
	if details.Rating == nil || *details.Rating != 8.4 {
		t.Errorf("rating = %v", details.Rating)
	}
	if details.RuntimeMinutes != 148 {
		t.Errorf("runtime = %d", details.RuntimeMinutes)
	}
}

func TestMovieDetailsRatingNeedsIMDbID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"title":"Obscure","vote_average":7.0,"external_ids":{"imdb_id":""}}`))
	}))

	details, err := client.MovieDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if details.Rating != nil {
		t.Fatalf("rating should be unset without imdb id, got %v", *details.Rating)
	}
}

func TestMovieDetailsNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	details, err := client.MovieDetails(context.Background(), 404404)
	if err != nil {
		t.Fatalf("expected silent not-found, got %v", err)
	}
	if details != nil {
		t.Fatalf("expected nil details, got %+v", details)
	}
}

func TestRateLimitRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"results":[{"id":1,"title":"Late"}]}`))
	}))

	hit, err := client.SearchMovie(context.Background(), "Late")
	if err != nil {
		t.Fatalf("SearchMovie: %v", err)
	}
	if hit == nil || hit.Title != "Late" {
		t.Fatalf("unexpected hit: %+v", hit)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestRateLimitExhausted(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.SearchMovie(context.Background(), "Saturated")
	if !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestServerErrorExhaustedIsNetwork(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.SearchTV(context.Background(), "Flaky")
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestUnauthorizedIsConfiguration(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.SearchMovie(context.Background(), "Denied")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestMalformedBodyIsInvalidResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": not json`))
	}))

	_, err := client.SearchMovie(context.Background(), "Garbled")
	if !errors.Is(err, services.ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestNetworkErrorFailsFast(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.SearchMovie(context.Background(), "Unreachable")
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestTVSeasonCount(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":1396,"name":"Breaking Bad","number_of_seasons":5}`))
	}))

	count, known, err := client.TVSeasonCount(context.Background(), 1396)
	if err != nil {
		t.Fatalf("TVSeasonCount: %v", err)
	}
	if !known || count != 5 {
		t.Fatalf("got count=%d known=%v", count, known)
	}
}

func TestTVEpisodeDetails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396/season/1/episode/1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"name":"Pilot","air_date":"2008-01-20","runtime":58}`))
	}))

	ep, err := client.TVEpisodeDetails(context.Background(), 1396, 1, 1)
	if err != nil {
		t.Fatalf("TVEpisodeDetails: %v", err)
	}
	if ep == nil || ep.Name != "Pilot" || ep.AirDate != "2008-01-20" {
		t.Fatalf("unexpected episode: %+v", ep)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := tmdb.New(config.TMDB{BaseURL: "https://api.themoviedb.org/3"})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

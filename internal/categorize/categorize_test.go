package categorize_test

import (
	"testing"

	"cinebox/internal/categorize"
	"cinebox/internal/media"
)

func record(path, name string) *media.Record {
	return &media.Record{FilePath: path, FileName: name}
}

func TestErrorStateIsTerminal(t *testing.T) {
	rec := record("/library/tv/Show/Season 1/s01e01.mkv", "s01e01.mkv")
	rec.MarkError("lookup failed", "enrich.go:42 in Enrich")
	rec.SeasonNumber = media.IntPtr(1)
	rec.EpisodeNumber = media.IntPtr(1)
	rec.Title = media.StringPtr("Show")

	categorize.Categorize(rec)
	if rec.Category != media.CategoryError {
		t.Fatalf("category = %s, want error", rec.Category)
	}
	// Idempotent: a second pass keeps the terminal state.
	categorize.Categorize(rec)
	if rec.Category != media.CategoryError {
		t.Fatalf("category = %s after second pass, want error", rec.Category)
	}
}

func TestAnimeKeywordInPath(t *testing.T) {
	cases := []struct {
		name string
		path string
		file string
	}{
		{"anime directory", "/library/Anime/frieren/01.mkv", "01.mkv"},
		{"crunchyroll tag", "/library/tv/show.CrunchyRoll.mkv", "show.CrunchyRoll.mkv"},
		{"subsplease group", "/dl/[SubsPlease] Frieren - 01 (1080p).mkv", "[SubsPlease] Frieren - 01 (1080p).mkv"},
		{"erai-raws group", "/dl/erai-raws.show.mkv", "erai-raws.show.mkv"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := record(tc.path, tc.file)
			categorize.Categorize(rec)
			if rec.Category != media.CategoryAnime {
				t.Fatalf("category = %s, want anime", rec.Category)
			}
		})
	}
}

func TestFansubPattern(t *testing.T) {
	cases := []struct {
		file string
		want media.Category
	}{
		{"[Group] Title - 07.mkv", media.CategoryAnime},
		{"[Group] Long Show Name - 1024 [1080p].mkv", media.CategoryAnime},
		{"[Group] Title - 12345.mkv", media.CategoryOthers}, // five digits is not an episode number
		{"Title - 07.mkv", media.CategoryOthers},
		{"[Group] Title 07.mkv", media.CategoryOthers},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			rec := record("/dl/"+tc.file, tc.file)
			categorize.Categorize(rec)
			if rec.Category != tc.want {
				t.Fatalf("category = %s, want %s", rec.Category, tc.want)
			}
		})
	}
}

func TestEpisodicFieldsYieldTV(t *testing.T) {
	rec := record("/library/tv/Breaking Bad (2008)/Season 1/s01e01.mkv", "s01e01.mkv")
	rec.SeasonNumber = media.IntPtr(1)
	rec.EpisodeNumber = media.IntPtr(1)
	rec.Title = media.StringPtr("Breaking Bad")

	categorize.Categorize(rec)
	if rec.Category != media.CategoryTV {
		t.Fatalf("category = %s, want tv", rec.Category)
	}
}

func TestSeasonAloneIsNotTV(t *testing.T) {
	rec := record("/library/movies/inception.mkv", "inception.mkv")
	rec.SeasonNumber = media.IntPtr(1)
	rec.Title = media.StringPtr("Inception")

	categorize.Categorize(rec)
	if rec.Category != media.CategoryMovie {
		t.Fatalf("category = %s, want movie", rec.Category)
	}
}

func TestDescriptiveFieldsYieldMovie(t *testing.T) {
	fields := []func(*media.Record){
		func(r *media.Record) { r.Title = media.StringPtr("Inception") },
		func(r *media.Record) { r.ReleaseDate = media.StringPtr("2010-07-15") },
		func(r *media.Record) { r.RuntimeMinutes = media.IntPtr(148) },
		func(r *media.Record) { r.Director = media.StringPtr("Christopher Nolan") },
		func(r *media.Record) { r.Writers = media.StringPtr("Christopher Nolan") },
		func(r *media.Record) { r.Producers = media.StringPtr("Emma Thomas") },
		func(r *media.Record) { r.Rating = media.Float64Ptr(8.4) },
	}
	for i, set := range fields {
		rec := record("/library/movies/film.mkv", "film.mkv")
		set(rec)
		categorize.Categorize(rec)
		if rec.Category != media.CategoryMovie {
			t.Fatalf("field %d: category = %s, want movie", i, rec.Category)
		}
	}
}

func TestBareRecordIsOthers(t *testing.T) {
	rec := record("/library/clips/home-video.mkv", "home-video.mkv")
	categorize.Categorize(rec)
	if rec.Category != media.CategoryOthers {
		t.Fatalf("category = %s, want others", rec.Category)
	}
}

func TestAnimeBeatsEpisodicFields(t *testing.T) {
	rec := record("/library/anime/Frieren/Season 1/s01e01.mkv", "s01e01.mkv")
	rec.SeasonNumber = media.IntPtr(1)
	rec.EpisodeNumber = media.IntPtr(1)

	categorize.Categorize(rec)
	if rec.Category != media.CategoryAnime {
		t.Fatalf("category = %s, want anime", rec.Category)
	}
}

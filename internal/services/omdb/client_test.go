package omdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmtrend/internal/services"
	"filmtrend/internal/services/omdb"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *omdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := omdb.New("test-key", server.URL, omdb.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("omdb.New: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := omdb.New("", "https://example.com"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestByTitleParsesRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("t") != "Dune: Part Two" {
			t.Errorf("title param = %q", q.Get("t"))
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("apikey param = %q", q.Get("apikey"))
		}
		w.Write([]byte(`{
			"Response": "True",
			"imdbID": "tt15239678",
			"Title": "Dune: Part Two",
			"Year": "2024",
			"Genre": "Action, Adventure, Drama",
			"Country": "United States, Canada",
			"Language": "English",
			"Director": "Denis Villeneuve",
			"Actors": "Timothée Chalamet, Zendaya, Rebecca Ferguson",
			"Plot": "Paul Atreides unites with Chani.",
			"Runtime": "166 min",
			"imdbRating": "8.5",
			"imdbVotes": "512,345",
			"Metascore": "79",
			"BoxOffice": "$282,144,358",
			"Ratings": [
				{"Source": "Internet Movie Database", "Value": "8.5/10"},
				{"Source": "Rotten Tomatoes", "Value": "92%"},
				{"Source": "Metacritic", "Value": "79/100"}
			]
		}`))
	})

	record, err := client.ByTitle(context.Background(), "Dune: Part Two")
	if err != nil {
		t.Fatalf("ByTitle failed: %v", err)
	}
	if record.IMDBID != "tt15239678" {
		t.Errorf("imdb id = %q", record.IMDBID)
	}
	if record.IMDBRating == nil || *record.IMDBRating != 8.5 {
		t.Errorf("imdb rating = %v", record.IMDBRating)
	}
	if record.IMDBVotes == nil || *record.IMDBVotes != 512345 {
		t.Errorf("imdb votes = %v", record.IMDBVotes)
	}
	if record.RottenTomatoes != "92%" {
		t.Errorf("rotten tomatoes = %q", record.RottenTomatoes)
	}
	if record.Metacritic != "79" {
		t.Errorf("metacritic = %q", record.Metacritic)
	}
	if record.BoxOffice == nil || *record.BoxOffice != 282144358 {
		t.Errorf("box office = %v", record.BoxOffice)
	}
	if len(record.Genres) != 3 || record.Genres[0] != "Action" {
		t.Errorf("genres = %#v", record.Genres)
	}
	if len(record.Actors) != 3 || record.Actors[1] != "Zendaya" {
		t.Errorf("actors = %#v", record.Actors)
	}
}

func TestByTitleHandlesNA(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Response": "True",
			"Title": "Obscure Film",
			"imdbRating": "N/A",
			"imdbVotes": "N/A",
			"Metascore": "N/A",
			"BoxOffice": "N/A",
			"Genre": "N/A"
		}`))
	})

	record, err := client.ByTitle(context.Background(), "Obscure Film")
	if err != nil {
		t.Fatalf("ByTitle failed: %v", err)
	}
	if record.IMDBRating != nil {
		t.Errorf("expected nil rating, got %v", *record.IMDBRating)
	}
	if record.IMDBVotes != nil {
		t.Errorf("expected nil votes, got %v", *record.IMDBVotes)
	}
	if record.Metacritic != "" {
		t.Errorf("expected empty metacritic, got %q", record.Metacritic)
	}
	if record.BoxOffice != nil {
		t.Errorf("expected nil box office, got %v", *record.BoxOffice)
	}
	if record.Genres != nil {
		t.Errorf("expected nil genres, got %#v", record.Genres)
	}
}

func TestMissingMovieIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	})

	_, err := client.ByIMDBID(context.Background(), "tt0000000")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

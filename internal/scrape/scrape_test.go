package scrape_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmtrend/internal/logging"
	"filmtrend/internal/scrape"
)

const rtListingHTML = `<!DOCTYPE html>
<html><body>
<div data-qa="discovery-media-list">
  <div class="flex-container">
    <a href="/m/dune_part_two" data-qa="discovery-media-list-item-caption">
      <span data-qa="discovery-media-list-item-title"> Dune: Part Two </span>
    </a>
    <rt-text slot="criticsScore">92%</rt-text>
    <rt-text slot="audienceScore">95%</rt-text>
  </div>
  <div class="flex-container">
    <a href="/m/wicked" data-qa="discovery-media-list-item-caption">
      <span data-qa="discovery-media-list-item-title">Wicked</span>
    </a>
    <rt-text slot="criticsScore">88%</rt-text>
  </div>
  <div class="flex-container">
    <span data-qa="discovery-media-list-item-title">Scoreless Film</span>
  </div>
</div>
</body></html>`

func TestParseRTListing(t *testing.T) {
	entries, err := scrape.ParseRTListing([]byte(rtListingHTML))
	if err != nil {
		t.Fatalf("ParseRTListing failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Title != "Dune: Part Two" {
		t.Errorf("title = %q", first.Title)
	}
	if first.CriticsScore != "92%" || first.AudienceScore != "95%" {
		t.Errorf("scores = %q / %q", first.CriticsScore, first.AudienceScore)
	}
	if first.Link != "https://www.rottentomatoes.com/m/dune_part_two" {
		t.Errorf("link = %q", first.Link)
	}

	if entries[1].AudienceScore != "" {
		t.Errorf("expected empty audience score, got %q", entries[1].AudienceScore)
	}
	if entries[2].CriticsScore != "" || entries[2].AudienceScore != "" {
		t.Errorf("scoreless entry should have empty scores: %#v", entries[2])
	}
}

func TestParseRTListingEmptyPage(t *testing.T) {
	entries, err := scrape.ParseRTListing([]byte(`<html><body><p>blocked</p></body></html>`))
	if err != nil {
		t.Fatalf("ParseRTListing failed: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries, got %#v", entries)
	}
}

func TestRottenTomatoesFetchSendsProxyParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("token") != "proxy-token" {
			t.Errorf("token param = %q", q.Get("token"))
		}
		if q.Get("url") != "https://www.rottentomatoes.com/browse/movies_in_theaters/sort:top_box_office" {
			t.Errorf("url param = %q", q.Get("url"))
		}
		if q.Get("ajax_wait") != "true" {
			t.Errorf("ajax_wait param = %q", q.Get("ajax_wait"))
		}
		w.Write([]byte(rtListingHTML))
	}))
	defer server.Close()

	scraper, err := scrape.NewRottenTomatoes(
		"proxy-token",
		server.URL,
		"https://www.rottentomatoes.com/browse/movies_in_theaters/sort:top_box_office",
		scrape.WithRTHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewRottenTomatoes: %v", err)
	}

	entries, err := scraper.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestNetflixTop10ParsesTitles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h3 class="title">One Piece</h3>
			<h3 class="title">KPop Demon Hunters</h3>
			<h3 class="other">Not A Title</h3>
		</body></html>`))
	}))
	defer server.Close()

	scraper := scrape.NewNetflix(server.URL, logging.NewNop(), scrape.WithNetflixHTTPClient(server.Client()))
	titles := scraper.Top10(context.Background())
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %#v", titles)
	}
	if titles[0] != "One Piece" || titles[1] != "KPop Demon Hunters" {
		t.Errorf("titles = %#v", titles)
	}
}

func TestNetflixTop10FallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	scraper := scrape.NewNetflix(server.URL, logging.NewNop(), scrape.WithNetflixHTTPClient(server.Client()))
	titles := scraper.Top10(context.Background())
	if len(titles) != 10 {
		t.Fatalf("expected 10 fallback titles, got %d", len(titles))
	}
	if titles[0] != "Stranger Things" {
		t.Errorf("first fallback title = %q", titles[0])
	}
}

func TestNetflixTop10CapsAtTen(t *testing.T) {
	page := "<html><body>"
	for i := 0; i < 15; i++ {
		page += `<h3 class="title">Show</h3>`
	}
	page += "</body></html>"

	titles := scrape.ParseNetflixTop10([]byte(page))
	if len(titles) != 10 {
		t.Fatalf("expected 10 titles, got %d", len(titles))
	}
}

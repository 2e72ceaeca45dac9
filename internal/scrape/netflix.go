package scrape

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"filmtrend/internal/services"
)

// netflixFallback is used when the Top 10 page cannot be fetched or parsed,
// so a collection run still has seed titles to enrich.
var netflixFallback = []string{
	"Stranger Things", "The Crown", "Wednesday", "Bridgerton",
	"Money Heist", "The Witcher", "Squid Game", "Lucifer",
	"Dark", "The Queen's Gambit",
}

// Netflix fetches the Netflix Top 10 page and extracts ranked titles.
type Netflix struct {
	pageURL    string
	httpClient *http.Client
	retry      services.RetryPolicy
	logger     *slog.Logger
}

// NetflixOption configures a Netflix scraper.
type NetflixOption func(*Netflix)

// WithNetflixHTTPClient overrides the default HTTP client.
func WithNetflixHTTPClient(client *http.Client) NetflixOption {
	return func(s *Netflix) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithNetflixRetryPolicy overrides the default retry policy.
func WithNetflixRetryPolicy(policy services.RetryPolicy) NetflixOption {
	return func(s *Netflix) {
		s.retry = policy
	}
}

// NewNetflix creates a Top 10 scraper for the given page URL.
func NewNetflix(pageURL string, logger *slog.Logger, opts ...NetflixOption) *Netflix {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Netflix{
		pageURL:    strings.TrimSpace(pageURL),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      services.DefaultRetryPolicy(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Top10 returns up to ten titles from the Top 10 page. When the page cannot
// be fetched or yields no titles, a static fallback list is returned so the
// run proceeds with known popular titles.
func (s *Netflix) Top10(ctx context.Context) []string {
	if s.pageURL == "" {
		return fallbackTitles()
	}

	body, err := services.GetBody(ctx, s.httpClient, s.pageURL, s.retry)
	if err != nil {
		s.logger.Warn("netflix top10 fetch failed, using fallback titles", "error", err)
		return fallbackTitles()
	}

	titles := ParseNetflixTop10(body)
	if len(titles) == 0 {
		s.logger.Warn("netflix top10 page had no titles, using fallback titles")
		return fallbackTitles()
	}
	return titles
}

// ParseNetflixTop10 extracts up to ten title headings from page markup.
func ParseNetflixTop10(body []byte) []string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}

	headings := findAll(doc, func(n *html.Node) bool {
		return n.Data == "h3" && hasClass(n, "title")
	})

	var titles []string
	for _, h := range headings {
		if title := nodeText(h); title != "" {
			titles = append(titles, title)
		}
		if len(titles) == 10 {
			break
		}
	}
	return titles
}

func fallbackTitles() []string {
	out := make([]string, len(netflixFallback))
	copy(out, netflixFallback)
	return out
}

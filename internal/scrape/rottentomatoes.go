package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"filmtrend/internal/services"
)

// RTEntry is one movie row from the Rotten Tomatoes box office listing.
// Scores are the raw on-page strings, e.g. "92%".
type RTEntry struct {
	Title         string
	CriticsScore  string
	AudienceScore string
	Link          string
}

// RottenTomatoes fetches the top box office listing through a rendering
// proxy. The listing page is JavaScript-driven, so a plain GET returns an
// empty shell; the proxy waits for the AJAX content and clicks the
// load-more button before returning markup.
type RottenTomatoes struct {
	token      string
	proxyURL   string
	listingURL string
	httpClient *http.Client
	retry      services.RetryPolicy
}

// RTOption configures a RottenTomatoes scraper.
type RTOption func(*RottenTomatoes)

// WithRTHTTPClient overrides the default HTTP client.
func WithRTHTTPClient(client *http.Client) RTOption {
	return func(s *RottenTomatoes) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithRTRetryPolicy overrides the default retry policy.
func WithRTRetryPolicy(policy services.RetryPolicy) RTOption {
	return func(s *RottenTomatoes) {
		s.retry = policy
	}
}

// NewRottenTomatoes creates a scraper for the given proxy and listing URLs.
func NewRottenTomatoes(token, proxyURL, listingURL string, opts ...RTOption) (*RottenTomatoes, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("render proxy token required")
	}
	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL == "" {
		return nil, errors.New("render proxy url required")
	}
	listingURL = strings.TrimSpace(listingURL)
	if listingURL == "" {
		return nil, errors.New("listing url required")
	}
	s := &RottenTomatoes{
		token:      token,
		proxyURL:   strings.TrimRight(proxyURL, "/"),
		listingURL: listingURL,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		retry:      services.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fetch retrieves and parses the listing, returning entries in page order.
func (s *RottenTomatoes) Fetch(ctx context.Context) ([]RTEntry, error) {
	params := url.Values{}
	params.Set("token", s.token)
	params.Set("url", s.listingURL)
	params.Set("ajax_wait", "true")
	params.Set("page_wait", "5000")
	params.Set("css_click_selector", `button[data-qa="dlp-load-more-button"]`)

	body, err := services.GetBody(ctx, s.httpClient, s.proxyURL+"/?"+params.Encode(), s.retry)
	if err != nil {
		return nil, fmt.Errorf("fetch rotten tomatoes listing: %w", err)
	}

	entries, err := ParseRTListing(body)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, services.Wrap(services.ErrParse, "scrape", "rt-listing", "no movie rows in listing markup", nil)
	}
	return entries, nil
}

// ParseRTListing extracts movie entries from listing page markup.
func ParseRTListing(body []byte) ([]RTEntry, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "scrape", "rt-listing", "parse html", err)
	}

	list := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "div" && attrValue(n, "data-qa") == "discovery-media-list"
	})
	if list == nil {
		return nil, nil
	}

	var entries []RTEntry
	for child := list.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "div" || !hasClass(child, "flex-container") {
			continue
		}
		titleNode := findFirst(child, func(n *html.Node) bool {
			return n.Data == "span" && attrValue(n, "data-qa") == "discovery-media-list-item-title"
		})
		if titleNode == nil {
			continue
		}
		entry := RTEntry{Title: nodeText(titleNode)}
		if n := findFirst(child, func(n *html.Node) bool {
			return n.Data == "rt-text" && attrValue(n, "slot") == "criticsScore"
		}); n != nil {
			entry.CriticsScore = nodeText(n)
		}
		if n := findFirst(child, func(n *html.Node) bool {
			return n.Data == "rt-text" && attrValue(n, "slot") == "audienceScore"
		}); n != nil {
			entry.AudienceScore = nodeText(n)
		}
		if n := findFirst(child, func(n *html.Node) bool {
			return n.Data == "a" && strings.HasPrefix(attrValue(n, "data-qa"), "discovery-media-list-item")
		}); n != nil {
			if href := attrValue(n, "href"); href != "" {
				entry.Link = "https://www.rottentomatoes.com" + href
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"filmtrend/internal/services"
)

// payload mirrors the raw OMDb response. All fields arrive as strings, with
// "N/A" standing in for absent values.
type payload struct {
	Response   string        `json:"Response"`
	Error      string        `json:"Error"`
	IMDBID     string        `json:"imdbID"`
	Title      string        `json:"Title"`
	Year       string        `json:"Year"`
	Genre      string        `json:"Genre"`
	Country    string        `json:"Country"`
	Language   string        `json:"Language"`
	Director   string        `json:"Director"`
	Actors     string        `json:"Actors"`
	Plot       string        `json:"Plot"`
	Production string        `json:"Production"`
	IMDBRating string        `json:"imdbRating"`
	IMDBVotes  string        `json:"imdbVotes"`
	Metascore  string        `json:"Metascore"`
	BoxOffice  string        `json:"BoxOffice"`
	Runtime    string        `json:"Runtime"`
	Ratings    []ratingEntry `json:"Ratings"`
}

type ratingEntry struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Record is the parsed OMDb result. Pointer fields are nil when the source
// reported N/A or an unparsable value.
type Record struct {
	IMDBID         string
	Title          string
	Year           string
	Genres         []string
	Country        string
	Language       string
	Director       string
	Actors         []string
	Plot           string
	Studio         string
	IMDBRating     *float64
	IMDBVotes      *int64
	RottenTomatoes string
	Metacritic     string
	BoxOffice      *int64
	Runtime        string
}

// Lookup defines the OMDb operations used by the collection pipeline.
type Lookup interface {
	ByTitle(ctx context.Context, title string) (*Record, error)
	ByIMDBID(ctx context.Context, imdbID string) (*Record, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      services.RetryPolicy
}

var _ Lookup = (*Client)(nil)

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

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      services.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ByTitle looks a movie up by display title.
func (c *Client) ByTitle(ctx context.Context, title string) (*Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	params := url.Values{}
	params.Set("t", title)
	return c.fetch(ctx, params)
}

// ByIMDBID looks a movie up by its IMDb identifier.
func (c *Client) ByIMDBID(ctx context.Context, imdbID string) (*Record, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, errors.New("imdb id must not be empty")
	}
	params := url.Values{}
	params.Set("i", imdbID)
	return c.fetch(ctx, params)
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*Record, error) {
	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	var raw payload
	if err := services.GetJSON(ctx, c.httpClient, endpoint.String(), c.retry, &raw); err != nil {
		return nil, fmt.Errorf("omdb lookup: %w", err)
	}

	if raw.Response != "True" {
		return nil, services.Wrap(services.ErrNotFound, "omdb", "lookup", raw.Error, nil)
	}

	return raw.toRecord(), nil
}

func (p *payload) toRecord() *Record {
	record := &Record{
		IMDBID:   cleanField(p.IMDBID),
		Title:    cleanField(p.Title),
		Year:     cleanField(p.Year),
		Genres:   splitList(p.Genre),
		Country:  cleanField(p.Country),
		Language: cleanField(p.Language),
		Director: cleanField(p.Director),
		Actors:   splitList(p.Actors),
		Plot:     cleanField(p.Plot),
		Studio:   cleanField(p.Production),
		Runtime:  cleanField(p.Runtime),
	}

	if v := cleanField(p.IMDBRating); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			record.IMDBRating = &rating
		}
	}
	if v := cleanField(p.IMDBVotes); v != "" {
		if votes, err := strconv.ParseInt(strings.ReplaceAll(v, ",", ""), 10, 64); err == nil {
			record.IMDBVotes = &votes
		}
	}
	if v := cleanField(p.BoxOffice); v != "" {
		stripped := strings.ReplaceAll(strings.TrimPrefix(v, "$"), ",", "")
		if amount, err := strconv.ParseInt(stripped, 10, 64); err == nil {
			record.BoxOffice = &amount
		}
	}

	record.Metacritic = cleanField(p.Metascore)
	for _, entry := range p.Ratings {
		switch entry.Source {
		case "Rotten Tomatoes":
			record.RottenTomatoes = cleanField(entry.Value)
		case "Metacritic":
			if record.Metacritic == "" {
				record.Metacritic = cleanField(entry.Value)
			}
		}
	}

	return record
}

func cleanField(value string) string {
	value = strings.TrimSpace(value)
	if value == "N/A" {
		return ""
	}
	return value
}

func splitList(value string) []string {
	value = cleanField(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package tmdb

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

// Result represents a single TMDB listing entry.
type Result struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
}

// Response models the TMDB paginated listing response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre is a TMDB genre reference.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductionCountry is a TMDB production country reference.
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// MovieDetails captures the full TMDB movie payload used by collection.
type MovieDetails struct {
	ID                  int64               `json:"id"`
	IMDBID              string              `json:"imdb_id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	Overview            string              `json:"overview"`
	ReleaseDate         string              `json:"release_date"`
	OriginalLanguage    string              `json:"original_language"`
	Genres              []Genre             `json:"genres"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Runtime             int                 `json:"runtime"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int64               `json:"vote_count"`
}

// CastMember is a single TMDB cast credit.
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is a single TMDB crew credit.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits models the TMDB movie credits payload.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member credited as Director, if any.
func (c *Credits) Director() (string, bool) {
	if c == nil {
		return "", false
	}
	for _, member := range c.Crew {
		if member.Job == "Director" {
			name := strings.TrimSpace(member.Name)
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// Lister defines the TMDB operations used by the collection pipeline.
type Lister interface {
	DiscoverByYear(ctx context.Context, year, page int) (*Response, error)
	TrendingWeek(ctx context.Context, page int) (*Response, error)
	SearchMovie(ctx context.Context, query string) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error)
	GetMovieCredits(ctx context.Context, movieID int64) (*Credits, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	retry      services.RetryPolicy
}

var _ Lister = (*Client)(nil)

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

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      services.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// DiscoverByYear lists movies released in the given year ordered by popularity.
func (c *Client) DiscoverByYear(ctx context.Context, year, page int) (*Response, error) {
	if year <= 0 {
		return nil, errors.New("year must be positive")
	}
	params := url.Values{}
	params.Set("primary_release_year", strconv.Itoa(year))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(max(page, 1)))

	var payload Response
	if err := c.get(ctx, "/discover/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb discover: %w", err)
	}
	return &payload, nil
}

// TrendingWeek lists this week's trending movies.
func (c *Client) TrendingWeek(ctx context.Context, page int) (*Response, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))

	var payload Response
	if err := c.get(ctx, "/trending/movie/week", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb trending: %w", err)
	}
	return &payload, nil
}

// SearchMovie searches TMDB for the supplied title.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)

	var payload Response
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("tmdb movie details: %w", err)
	}
	return &payload, nil
}

// GetMovieCredits fetches cast and crew for a movie by TMDB ID.
func (c *Client) GetMovieCredits(ctx context.Context, movieID int64) (*Credits, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("tmdb movie credits: %w", err)
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()
	return services.GetJSON(ctx, c.httpClient, endpoint.String(), c.retry, out)
}

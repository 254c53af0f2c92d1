package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultAPIURL = "https://api.kinopoisk.dev/v1.4/movie/search"

// ErrNotConfigured is returned when no Kinopoisk API key is set.
var ErrNotConfigured = errors.New("movie catalog not configured: missing API key")

// Movie is a catalogue search hit, shaped to prefill a new movie entry.
type Movie struct {
	KinopoiskID string   `json:"kinopoisk_id"`
	Title       string   `json:"title"`
	Year        *int     `json:"year"`
	PosterURL   *string  `json:"poster_url"`
	Genres      []string `json:"genres"`
	Description *string  `json:"description"`
}

// Client searches the Kinopoisk movie catalogue.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type searchResponse struct {
	Docs []struct {
		ID               int    `json:"id"`
		Name             string `json:"name"`
		AlternativeName  string `json:"alternativeName"`
		Year             int    `json:"year"`
		Description      string `json:"description"`
		ShortDescription string `json:"shortDescription"`
		Poster           *struct {
			URL        string `json:"url"`
			PreviewURL string `json:"previewUrl"`
		} `json:"poster"`
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
	} `json:"docs"`
}

// Search returns up to limit catalogue entries matching query. Entries
// without any title are skipped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Movie, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("kinopoisk API error: status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	movies := make([]Movie, 0, len(body.Docs))
	for _, d := range body.Docs {
		title := d.Name
		if title == "" {
			title = d.AlternativeName
		}
		if title == "" {
			continue
		}

		m := Movie{
			KinopoiskID: strconv.Itoa(d.ID),
			Title:       title,
			Genres:      make([]string, 0, len(d.Genres)),
		}
		if d.Year > 0 {
			year := d.Year
			m.Year = &year
		}
		if d.Poster != nil {
			m.PosterURL = firstNonEmpty(d.Poster.URL, d.Poster.PreviewURL)
		}
		m.Description = firstNonEmpty(d.ShortDescription, d.Description)
		for _, g := range d.Genres {
			if g.Name != "" {
				m.Genres = append(m.Genres, g.Name)
			}
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			return &v
		}
	}
	return nil
}

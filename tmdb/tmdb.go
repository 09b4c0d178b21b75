// Package tmdb resolves backdrop images through the TMDB find endpoint.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"kino/movie"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/original"
	DefaultTimeout      = 15 * time.Second
	language            = "de"
)

// TransportError reports a failed find call.
type TransportError struct {
	IMDbID string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("tmdb: find %s: status %d: %v", e.IMDbID, e.Status, e.Err)
	}
	return fmt.Sprintf("tmdb: find %s: %v", e.IMDbID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Timeout      time.Duration
}

type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

type findResponse struct {
	MovieResults []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		BackdropPath string `json:"backdrop_path"`
	} `json:"movie_results"`
}

// LookupPoster finds the backdrop of the movie with the given IMDb id.
func (c *Client) LookupPoster(ctx context.Context, imdbID string) (movie.PosterResult, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", language)
	params.Set("external_source", "imdb_id")
	endpoint := c.baseURL + "/find/" + url.PathEscape(imdbID) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return movie.PosterResult{}, &TransportError{IMDbID: imdbID, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return movie.PosterResult{}, &TransportError{IMDbID: imdbID, Err: redact(err, c.apiKey)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return movie.PosterResult{}, &TransportError{IMDbID: imdbID, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var body findResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return movie.PosterResult{}, &TransportError{IMDbID: imdbID, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(body.MovieResults) == 0 {
		return movie.NotFound(), nil
	}
	path := strings.TrimSpace(body.MovieResults[0].BackdropPath)
	if path == "" {
		return movie.NotFound(), nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return movie.Found(c.imageBaseURL + path), nil
}

// redact strips the api key from errors that echo the request URL.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "***"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

// Package netzkino is a client for the Netzkino content search API.
package netzkino

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
	DefaultBaseURL = "https://api.netzkino.de.simplecache.net/capi-2.0a"
	DefaultEnv     = "www"
	DefaultTimeout = 15 * time.Second
)

// TransportError reports a failed content API call: a network error, a
// non-2xx status or an undecodable body.
type TransportError struct {
	Query  string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("netzkino: search %q: status %d: %v", e.Query, e.Status, e.Err)
	}
	return fmt.Sprintf("netzkino: search %q: %v", e.Query, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Config struct {
	BaseURL string
	Env     string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	env        string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Env == "" {
		cfg.Env = DefaultEnv
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		env:        cfg.Env,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type searchResponse struct {
	Posts []post `json:"posts"`
}

type post struct {
	ID           int64        `json:"id"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	CustomFields customFields `json:"custom_fields"`
}

// customFields accepts the WordPress shape {"Jahr":["2004"]} as well as
// plain string values. A JSON array (WordPress' empty block) means no block.
type customFields map[string][]string

func (f *customFields) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || strings.HasPrefix(trimmed, "[") {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(customFields, len(raw))
	for key, value := range raw {
		var values []string
		if err := json.Unmarshal(value, &values); err == nil {
			out[key] = values
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[key] = []string{single}
		}
	}
	*f = out
	return nil
}

// Search returns the posts matching query. No hits is an empty slice.
func (c *Client) Search(ctx context.Context, query string) ([]movie.RawPost, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("d", c.env)
	endpoint := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, &TransportError{Query: query, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Query: query, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &TransportError{Query: query, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	posts := make([]movie.RawPost, 0, len(body.Posts))
	for _, p := range body.Posts {
		posts = append(posts, p.raw())
	}
	return posts, nil
}

func (p post) raw() movie.RawPost {
	raw := movie.RawPost{
		ID:      p.ID,
		Slug:    p.Slug,
		Title:   p.Title,
		Content: p.Content,
	}
	if p.CustomFields == nil {
		return raw
	}
	raw.CustomFields = make(movie.CustomFields, len(p.CustomFields))
	for key, values := range p.CustomFields {
		if len(values) == 0 {
			continue
		}
		raw.CustomFields[movie.Field(key)] = values[0]
	}
	return raw
}

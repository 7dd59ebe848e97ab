package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultSearchURL is the production photo-search endpoint.
const DefaultSearchURL = "https://api.pexels.com/v1/search"

const (
	httpTimeout = 30 * time.Second
	orientation = "landscape"
)

// Source lists the renditions Pexels returns for one photo.
type Source struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// Photo is a single search result.
type Photo struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
	Src Source `json:"src"`
}

// BestURL returns the largest usable rendition, or "" when none is set.
func (p Photo) BestURL() string {
	for _, u := range []string{p.Src.Large2x, p.Src.Large, p.Src.Original} {
		if u != "" {
			return u
		}
	}
	return ""
}

type searchResponse struct {
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Photos  []Photo `json:"photos"`
}

// Client queries the Pexels search API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client against the production search URL.
func NewClient(apiKey string) *Client {
	return NewClientWithURL(DefaultSearchURL, apiKey)
}

// NewClientWithURL constructs a Client pointing at a custom search URL (for tests).
func NewClientWithURL(baseURL, apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, client: &http.Client{Timeout: httpTimeout}}
}

// Search returns up to perPage landscape photos matching query.
func (c *Client) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orientation", orientation)
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request for %s: %w", query, err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search for %s: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pexels search for %s returned status %d", query, resp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding pexels search for %s: %w", query, err)
	}

	return raw.Photos, nil
}

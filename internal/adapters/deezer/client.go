// Package deezer implements the secondary catalog port against the public
// Deezer API: text search, related artists and artist top tracks.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

const defaultBaseURL = "https://api.deezer.com"

// Config holds the Deezer adapter configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
	// RequestsPerSecond throttles outbound calls; the public API allows
	// 50 requests per rolling 5 seconds.
	RequestsPerSecond float64
}

// Client is the Deezer adapter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

var _ ports.PreviewProvider = (*Client)(nil)

// NewClient constructs a Deezer client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 8
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger.With("adapter", "deezer"),
	}
}

// TrackPreview searches for an exact track+artist match and returns its
// preview URL and cover art. domain.ErrNotFound when nothing matches.
func (c *Client) TrackPreview(ctx context.Context, title, artist string) (ports.Preview, error) {
	query := fmt.Sprintf("track:%q artist:%q", title, artist)
	var body searchResponse
	if err := c.get(ctx, "/search?q="+url.QueryEscape(query), &body); err != nil {
		return ports.Preview{}, err
	}
	if len(body.Data) == 0 {
		return ports.Preview{}, fmt.Errorf("deezer adapter: no preview for title %q artist %q: %w", title, artist, domain.ErrNotFound)
	}
	first := body.Data[0]
	return ports.Preview{URL: first.Preview, CoverURL: first.Album.CoverXL}, nil
}

// FindArtistID resolves an artist name to its Deezer id via the first
// matching search result.
func (c *Client) FindArtistID(ctx context.Context, name string) (int64, error) {
	query := fmt.Sprintf("artist:%q", name)
	var body searchResponse
	if err := c.get(ctx, "/search?q="+url.QueryEscape(query), &body); err != nil {
		return 0, err
	}
	if len(body.Data) == 0 || body.Data[0].Artist.ID == 0 {
		return 0, fmt.Errorf("deezer adapter: no artist match for %q: %w", name, domain.ErrNotFound)
	}
	return body.Data[0].Artist.ID, nil
}

// RelatedArtists lists up to limit artists related to the given artist, in
// provider order.
func (c *Client) RelatedArtists(ctx context.Context, artistID int64, limit int) ([]ports.RelatedArtist, error) {
	var body relatedResponse
	if err := c.get(ctx, fmt.Sprintf("/artist/%d/related", artistID), &body); err != nil {
		return nil, err
	}

	artists := body.Data
	if limit > 0 && len(artists) > limit {
		artists = artists[:limit]
	}
	out := make([]ports.RelatedArtist, 0, len(artists))
	for _, a := range artists {
		out = append(out, ports.RelatedArtist{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

// ArtistTopTracks returns up to limit of an artist's top tracks as fallback
// candidates, preview and cover already populated.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID int64, limit int) ([]domain.Candidate, error) {
	var body tracksResponse
	if err := c.get(ctx, fmt.Sprintf("/artist/%d/top?limit=%d", artistID, limit), &body); err != nil {
		return nil, err
	}

	tracks := body.Data
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	out := make([]domain.Candidate, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.toCandidate())
	}
	return out, nil
}

// get performs one rate-limited GET and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("deezer adapter: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("deezer adapter: creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deezer adapter: %v: %w", err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deezer adapter: status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("deezer adapter: decode error: %w", err)
	}
	return nil
}

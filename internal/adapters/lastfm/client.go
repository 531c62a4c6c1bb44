// Package lastfm implements the similarity provider port against the
// Last.fm track.getsimilar API.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

const (
	defaultBaseURL = "http://ws.audioscrobbler.com/2.0/"
	userAgent      = "tunefuse/1.0"

	// similarLimit bounds one getsimilar call.
	similarLimit = 20
)

// Config holds the Last.fm API configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client is the Last.fm similarity adapter.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

var _ ports.SimilarityProvider = (*Client)(nil)

// NewClient constructs a Last.fm client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With("adapter", "lastfm"),
	}
}

// SimilarTracks fetches up to 20 tracks similar to the seed pair. An empty
// list is a valid outcome; transport failures and non-2xx responses wrap
// domain.ErrProviderUnavailable.
func (c *Client) SimilarTracks(ctx context.Context, track, artist string) ([]domain.Candidate, error) {
	params := url.Values{
		"method":  {"track.getsimilar"},
		"artist":  {artist},
		"track":   {track},
		"api_key": {c.apiKey},
		"format":  {"json"},
		"limit":   {strconv.Itoa(similarLimit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("lastfm adapter: creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lastfm adapter: %v: %w", err, domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lastfm adapter: status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lastfm adapter: reading response: %w", err)
	}

	// Last.fm reports errors as 200s with an error envelope.
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		return nil, fmt.Errorf("lastfm adapter: API error %d: %s: %w", apiErr.Error, apiErr.Message, domain.ErrProviderUnavailable)
	}

	var parsed similarTracksResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("lastfm adapter: parsing response: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(parsed.SimilarTracks.Track))
	for _, t := range parsed.SimilarTracks.Track {
		candidates = append(candidates, t.toCandidate())
	}
	return candidates, nil
}

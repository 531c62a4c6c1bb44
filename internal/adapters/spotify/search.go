package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// SearchTracks runs a free-text track search against the catalog.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	body, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		candidates = append(candidates, item.toCandidate())
	}
	return candidates, nil
}

// ResolveTrackID finds the canonical Spotify id for an exact title+artist
// pair. Returns domain.ErrNotFound when the search yields no items.
func (c *Client) ResolveTrackID(ctx context.Context, title, artist string) (string, error) {
	body, err := c.search(ctx, fmt.Sprintf("track:%s artist:%s", title, artist), 1)
	if err != nil {
		return "", err
	}
	if len(body.Tracks.Items) == 0 {
		return "", fmt.Errorf("spotify adapter: no match for title %q artist %q: %w", title, artist, domain.ErrNotFound)
	}
	return body.Tracks.Items[0].ID, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) (searchResponse, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return searchResponse{}, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	q := searchURL.Query()
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))
	searchURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return searchResponse{}, fmt.Errorf("spotify adapter: failed to create search request: %w", err)
	}

	resp, err := c.doAuthorized(req)
	if err != nil {
		return searchResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchResponse{}, fmt.Errorf("spotify adapter: search status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return searchResponse{}, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}
	return body, nil
}

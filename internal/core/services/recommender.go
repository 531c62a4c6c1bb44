// Package services holds the core application logic, wired to adapters
// through the ports interfaces.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

const (
	maxRelatedArtists  = 5
	maxTracksPerArtist = 4
	searchLimit        = 10
	defaultEnrichLimit = 8
)

// Recommender is the recommendation aggregation engine. It queries the
// similarity provider, falls back to the secondary catalog's related-artist
// expansion when that yields nothing, and enriches every candidate with a
// preview URL and a canonical catalog id.
type Recommender struct {
	similar ports.SimilarityProvider
	catalog ports.CatalogProvider
	preview ports.PreviewProvider
	logger  *log.Logger

	// enrichLimit bounds concurrent enrichment lookups per request.
	enrichLimit int
}

// NewRecommender constructs a Recommender from the three provider ports.
func NewRecommender(similar ports.SimilarityProvider, catalog ports.CatalogProvider, preview ports.PreviewProvider, logger *log.Logger) *Recommender {
	if logger == nil {
		logger = log.Default()
	}
	return &Recommender{
		similar:     similar,
		catalog:     catalog,
		preview:     preview,
		logger:      logger.With("service", "recommender"),
		enrichLimit: defaultEnrichLimit,
	}
}

// Recommend returns similar tracks for a seed (track, artist) pair. Empty
// input yields an empty result without any provider call. Provider failures
// never propagate: the worst case is an empty result list tagged with
// whichever path ran last.
func (r *Recommender) Recommend(ctx context.Context, track, artist string) (domain.Recommendation, error) {
	if strings.TrimSpace(track) == "" || strings.TrimSpace(artist) == "" {
		return domain.Recommendation{Source: domain.SourcePrimary, Results: []domain.Candidate{}}, nil
	}

	source := domain.SourcePrimary
	candidates, err := r.similar.SimilarTracks(ctx, track, artist)
	if err != nil {
		// An unavailable similarity provider and an empty similar list
		// leave the user equally without recommendations; both fall back.
		r.logger.Warn("similarity provider failed, falling back", "artist", artist, "err", err)
		candidates = nil
	}

	if len(candidates) == 0 {
		source = domain.SourceFallback
		candidates = r.expandViaRelatedArtists(ctx, artist)
	}

	results := make([]domain.Candidate, 0, len(candidates))
	for _, c := range r.enrichAll(ctx, candidates) {
		if c.Usable() {
			results = append(results, c)
		}
	}

	return domain.Recommendation{Source: source, Results: results}, nil
}

// SearchTracks is a thin passthrough to the primary catalog's text search.
func (r *Recommender) SearchTracks(ctx context.Context, query string) ([]domain.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Candidate{}, nil
	}
	return r.catalog.SearchTracks(ctx, query, searchLimit)
}

// Preview looks up a playable preview for a single (track, artist) pair.
func (r *Recommender) Preview(ctx context.Context, track, artist string) (ports.Preview, error) {
	return r.preview.TrackPreview(ctx, track, artist)
}

// expandViaRelatedArtists builds fallback candidates: resolve the seed
// artist in the secondary catalog, then collect the top tracks of its first
// few related artists in provider order. One related artist failing must not
// blank the others.
func (r *Recommender) expandViaRelatedArtists(ctx context.Context, artist string) []domain.Candidate {
	artistID, err := r.preview.FindArtistID(ctx, artist)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("fallback artist search failed", "artist", artist, "err", err)
		}
		return nil
	}

	related, err := r.preview.RelatedArtists(ctx, artistID, maxRelatedArtists)
	if err != nil {
		r.logger.Warn("related artists fetch failed", "artist", artist, "err", err)
		return nil
	}

	var out []domain.Candidate
	for _, ra := range related {
		tracks, err := r.preview.ArtistTopTracks(ctx, ra.ID, maxTracksPerArtist)
		if err != nil {
			r.logger.Warn("skipping related artist", "artist", ra.Name, "err", err)
			continue
		}
		out = append(out, tracks...)
	}
	return out
}

// enrichAll runs per-candidate enrichment as a bounded fan-out and joins the
// results in input order. Each goroutine writes only to its own slot.
func (r *Recommender) enrichAll(ctx context.Context, candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	out := make([]domain.Candidate, len(candidates))
	sem := make(chan struct{}, r.enrichLimit)
	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c domain.Candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = r.enrich(ctx, c)
		}(i, c)
	}
	wg.Wait()
	return out
}

// enrich fills the optional fields of one candidate. Both lookups are
// independent and best-effort: a miss or a provider failure leaves the field
// empty and never fails the candidate.
func (r *Recommender) enrich(ctx context.Context, c domain.Candidate) domain.Candidate {
	if c.Source == domain.SourcePrimary {
		p, err := r.preview.TrackPreview(ctx, c.Title, c.Artist)
		switch {
		case err == nil:
			c.PreviewURL = p.URL
			if c.CoverURL == "" {
				c.CoverURL = p.CoverURL
			}
		case !errors.Is(err, domain.ErrNotFound):
			r.logger.Debug("preview lookup failed", "title", c.Title, "err", err)
		}
	}

	id, err := r.catalog.ResolveTrackID(ctx, c.Title, c.Artist)
	if err == nil {
		c.CanonicalID = id
	} else if !errors.Is(err, domain.ErrNotFound) {
		r.logger.Debug("canonical id lookup failed", "title", c.Title, "err", err)
	}
	return c
}

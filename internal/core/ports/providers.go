package ports

import (
	"context"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// SimilarityProvider yields tracks similar to a seed (track, artist) pair.
// An empty slice with a nil error is a valid outcome; the caller does not
// distinguish it from a provider error when deciding whether to fall back.
type SimilarityProvider interface {
	SimilarTracks(ctx context.Context, track, artist string) ([]domain.Candidate, error)
}

// CatalogProvider is the primary catalog (Spotify). ResolveTrackID returns
// domain.ErrNotFound when no item matches and wraps
// domain.ErrTokenUnavailable when the credential exchange fails.
type CatalogProvider interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
	ResolveTrackID(ctx context.Context, title, artist string) (string, error)
}

// Preview is a playable snippet plus cover art found for a track.
type Preview struct {
	URL      string
	CoverURL string
}

// RelatedArtist is one entry of the secondary catalog's related-artists list.
type RelatedArtist struct {
	ID   int64
	Name string
}

// PreviewProvider is the secondary catalog (Deezer). It serves both the
// per-candidate preview enrichment and the related-artist fallback path.
type PreviewProvider interface {
	TrackPreview(ctx context.Context, title, artist string) (Preview, error)
	FindArtistID(ctx context.Context, name string) (int64, error)
	RelatedArtists(ctx context.Context, artistID int64, limit int) ([]RelatedArtist, error)
	ArtistTopTracks(ctx context.Context, artistID int64, limit int) ([]domain.Candidate, error)
}

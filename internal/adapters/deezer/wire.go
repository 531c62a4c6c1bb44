package deezer

import (
	"strconv"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// deezerTrack mirrors one track object across the search and top-tracks
// responses.
type deezerTrack struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
	Artist  struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		CoverXL string `json:"cover_xl"`
	} `json:"album"`
}

type deezerArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type searchResponse struct {
	Data []deezerTrack `json:"data"`
}

type relatedResponse struct {
	Data []deezerArtist `json:"data"`
}

type tracksResponse struct {
	Data []deezerTrack `json:"data"`
}

// toCandidate maps a top-tracks entry to a fallback candidate. Preview and
// cover come straight from this call; only canonical-id enrichment remains.
func (t deezerTrack) toCandidate() domain.Candidate {
	return domain.Candidate{
		SeedRef:    strconv.FormatInt(t.ID, 10),
		Title:      t.Title,
		Artist:     t.Artist.Name,
		CoverURL:   t.Album.CoverXL,
		PreviewURL: t.Preview,
		Source:     domain.SourceFallback,
	}
}

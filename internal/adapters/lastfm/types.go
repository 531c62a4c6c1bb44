package lastfm

import "github.com/ewilliams-labs/tunefuse/internal/core/domain"

// similarTrack is one entry of the track.getsimilar response.
type similarTrack struct {
	Name   string `json:"name"`
	MBID   string `json:"mbid"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Image []struct {
		Text string `json:"#text"`
		Size string `json:"size"`
	} `json:"image"`
}

// similarTracksResponse is the JSON envelope for track.getsimilar.
type similarTracksResponse struct {
	SimilarTracks struct {
		Track []similarTrack `json:"track"`
	} `json:"similartracks"`
}

// apiError is the Last.fm error envelope, delivered with a 200 status.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// toCandidate maps a similar track to the domain shape. The mbid is often
// absent; that is acceptable because canonical-id enrichment still runs.
// The last image entry is the largest size Last.fm offers.
func (t similarTrack) toCandidate() domain.Candidate {
	cover := ""
	if len(t.Image) > 0 {
		cover = t.Image[len(t.Image)-1].Text
	}
	return domain.Candidate{
		SeedRef:  t.MBID,
		Title:    t.Name,
		Artist:   t.Artist.Name,
		CoverURL: cover,
		Source:   domain.SourcePrimary,
	}
}

package spotify

import "github.com/ewilliams-labs/tunefuse/internal/core/domain"

// spotifyTrack mirrors one item of the Spotify search response.
type spotifyTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

// searchResponse is the envelope of GET /search?type=track.
type searchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

// toCandidate maps a raw Spotify track to the domain shape. The track id
// doubles as seed ref and canonical id: Spotify results need no further
// canonical-id enrichment.
func (st spotifyTrack) toCandidate() domain.Candidate {
	artist := ""
	if len(st.Artists) > 0 {
		artist = st.Artists[0].Name
	}
	cover := ""
	if len(st.Album.Images) > 0 {
		cover = st.Album.Images[0].URL
	}
	return domain.Candidate{
		SeedRef:     st.ID,
		CanonicalID: st.ID,
		Title:       st.Name,
		Artist:      artist,
		CoverURL:    cover,
		Source:      domain.SourcePrimary,
	}
}

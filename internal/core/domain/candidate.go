package domain

// Source identifies which provider path produced a recommendation.
type Source string

const (
	// SourcePrimary marks results from the Last.fm similar-tracks path.
	SourcePrimary Source = "primary"
	// SourceFallback marks results from the Deezer related-artists path.
	SourceFallback Source = "fallback"
)

// Candidate is a recommended track flowing through the pipeline.
// Title and Artist are carried verbatim from whichever provider produced
// the candidate. PreviewURL and CanonicalID are filled by enrichment and
// may stay empty; Source is set at creation and never changes.
type Candidate struct {
	SeedRef     string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	CoverURL    string `json:"image,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	CanonicalID string `json:"spotify_id,omitempty"`
	Source      Source `json:"-"`
}

// Usable reports whether downstream like/hide actions can reference the
// candidate. A candidate with neither a canonical id nor a seed ref cannot
// be stored and is dropped before assembly.
func (c Candidate) Usable() bool {
	return c.CanonicalID != "" || c.SeedRef != ""
}

// TrackID returns the identifier a library entry should key on: the
// canonical Spotify id when enrichment found one, else the seed ref.
func (c Candidate) TrackID() string {
	if c.CanonicalID != "" {
		return c.CanonicalID
	}
	return c.SeedRef
}

// Recommendation is the assembled response for one recommendation request.
// Source reflects the path that actually ran, not individual candidates.
type Recommendation struct {
	Source  Source      `json:"source"`
	Results []Candidate `json:"results"`
}

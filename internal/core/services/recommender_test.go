package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

// --- Mocks ---

type mockSimilar struct {
	mu         sync.Mutex
	candidates []domain.Candidate
	err        error
	calls      int
}

func (m *mockSimilar) SimilarTracks(ctx context.Context, track, artist string) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

type mockCatalog struct {
	mu    sync.Mutex
	ids   map[string]string // title -> canonical id
	err   error
	calls int
}

func (m *mockCatalog) ResolveTrackID(ctx context.Context, title, artist string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	id, ok := m.ids[title]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (m *mockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return nil, m.err
}

type mockPreview struct {
	mu           sync.Mutex
	previews     map[string]ports.Preview // title -> preview
	previewErrs  map[string]error
	artistID     int64
	artistErr    error
	related      []ports.RelatedArtist
	relatedErr   error
	topTracks    map[int64][]domain.Candidate
	topErrs      map[int64]error
	previewCalls int
	artistCalls  int
}

func (m *mockPreview) TrackPreview(ctx context.Context, title, artist string) (ports.Preview, error) {
	m.mu.Lock()
	m.previewCalls++
	m.mu.Unlock()
	if err, ok := m.previewErrs[title]; ok {
		return ports.Preview{}, err
	}
	p, ok := m.previews[title]
	if !ok {
		return ports.Preview{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPreview) FindArtistID(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	m.artistCalls++
	m.mu.Unlock()
	if m.artistErr != nil {
		return 0, m.artistErr
	}
	return m.artistID, nil
}

func (m *mockPreview) RelatedArtists(ctx context.Context, artistID int64, limit int) ([]ports.RelatedArtist, error) {
	if m.relatedErr != nil {
		return nil, m.relatedErr
	}
	related := m.related
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func (m *mockPreview) ArtistTopTracks(ctx context.Context, artistID int64, limit int) ([]domain.Candidate, error) {
	if err, ok := m.topErrs[artistID]; ok {
		return nil, err
	}
	tracks := m.topTracks[artistID]
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func primaryCandidate(title, artist, mbid string) domain.Candidate {
	return domain.Candidate{SeedRef: mbid, Title: title, Artist: artist, Source: domain.SourcePrimary}
}

func fallbackCandidate(id int64, title, artist string) domain.Candidate {
	return domain.Candidate{
		SeedRef:    fmt.Sprintf("%d", id),
		Title:      title,
		Artist:     artist,
		PreviewURL: fmt.Sprintf("https://cdn.example/preview/%d", id),
		CoverURL:   fmt.Sprintf("https://cdn.example/cover/%d", id),
		Source:     domain.SourceFallback,
	}
}

func newTestRecommender(similar *mockSimilar, catalog *mockCatalog, preview *mockPreview) *Recommender {
	return NewRecommender(similar, catalog, preview, nil)
}

// --- Tests ---

func TestRecommend_EmptyInputsMakeNoProviderCalls(t *testing.T) {
	tests := []struct {
		name   string
		track  string
		artist string
	}{
		{"empty track", "", "The Beatles"},
		{"empty artist", "Yesterday", ""},
		{"both empty", "", ""},
		{"whitespace track", "   ", "The Beatles"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			similar := &mockSimilar{}
			catalog := &mockCatalog{}
			preview := &mockPreview{}
			r := newTestRecommender(similar, catalog, preview)

			rec, err := r.Recommend(context.Background(), tc.track, tc.artist)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rec.Results) != 0 {
				t.Errorf("expected empty results, got %d", len(rec.Results))
			}
			if similar.calls != 0 || catalog.calls != 0 || preview.previewCalls != 0 || preview.artistCalls != 0 {
				t.Errorf("expected zero provider calls, got similar=%d catalog=%d preview=%d artist=%d",
					similar.calls, catalog.calls, preview.previewCalls, preview.artistCalls)
			}
		})
	}
}

func TestRecommend_PrimaryPath(t *testing.T) {
	similar := &mockSimilar{candidates: []domain.Candidate{
		primaryCandidate("Let It Be", "The Beatles", "mbid-1"),
		primaryCandidate("Hey Jude", "The Beatles", "mbid-2"),
		primaryCandidate("Help!", "The Beatles", "mbid-3"),
	}}
	catalog := &mockCatalog{ids: map[string]string{
		"Let It Be": "sp-1",
		"Hey Jude":  "sp-2",
		"Help!":     "sp-3",
	}}
	preview := &mockPreview{previews: map[string]ports.Preview{
		"Let It Be": {URL: "https://cdn.example/1.mp3", CoverURL: "https://cdn.example/1.jpg"},
		"Hey Jude":  {URL: "https://cdn.example/2.mp3", CoverURL: "https://cdn.example/2.jpg"},
		"Help!":     {URL: "https://cdn.example/3.mp3", CoverURL: "https://cdn.example/3.jpg"},
	}}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Source != domain.SourcePrimary {
		t.Errorf("source: got %q, want %q", rec.Source, domain.SourcePrimary)
	}
	wantTitles := []string{"Let It Be", "Hey Jude", "Help!"}
	if len(rec.Results) != len(wantTitles) {
		t.Fatalf("results: got %d, want %d", len(rec.Results), len(wantTitles))
	}
	for i, want := range wantTitles {
		got := rec.Results[i]
		if got.Title != want {
			t.Errorf("result %d: got title %q, want %q", i, got.Title, want)
		}
		if got.Source != domain.SourcePrimary {
			t.Errorf("result %d: got source %q, want primary", i, got.Source)
		}
		if got.PreviewURL == "" {
			t.Errorf("result %d: preview not enriched", i)
		}
		if got.CanonicalID == "" {
			t.Errorf("result %d: canonical id not enriched", i)
		}
	}
	if preview.artistCalls != 0 {
		t.Errorf("fallback ran despite primary results")
	}
}

func TestRecommend_PrimaryKeepsExistingCover(t *testing.T) {
	seed := primaryCandidate("Let It Be", "The Beatles", "mbid-1")
	seed.CoverURL = "https://lastfm.example/original.jpg"
	similar := &mockSimilar{candidates: []domain.Candidate{seed}}
	catalog := &mockCatalog{ids: map[string]string{"Let It Be": "sp-1"}}
	preview := &mockPreview{previews: map[string]ports.Preview{
		"Let It Be": {URL: "https://cdn.example/1.mp3", CoverURL: "https://cdn.example/other.jpg"},
	}}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Results[0].CoverURL; got != "https://lastfm.example/original.jpg" {
		t.Errorf("cover was overwritten: got %q", got)
	}
	if got := rec.Results[0].PreviewURL; got != "https://cdn.example/1.mp3" {
		t.Errorf("preview: got %q", got)
	}
}

func TestRecommend_PartialPreviewFailure(t *testing.T) {
	similar := &mockSimilar{candidates: []domain.Candidate{
		primaryCandidate("Let It Be", "The Beatles", "mbid-1"),
		primaryCandidate("Hey Jude", "The Beatles", "mbid-2"),
		primaryCandidate("Help!", "The Beatles", "mbid-3"),
	}}
	catalog := &mockCatalog{ids: map[string]string{
		"Let It Be": "sp-1", "Hey Jude": "sp-2", "Help!": "sp-3",
	}}
	preview := &mockPreview{
		previews: map[string]ports.Preview{
			"Let It Be": {URL: "https://cdn.example/1.mp3"},
			"Help!":     {URL: "https://cdn.example/3.mp3"},
		},
		previewErrs: map[string]error{
			"Hey Jude": fmt.Errorf("timeout: %w", domain.ErrProviderUnavailable),
		},
	}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Results) != 3 {
		t.Fatalf("results: got %d, want 3", len(rec.Results))
	}
	if rec.Results[1].PreviewURL != "" {
		t.Errorf("failed lookup should leave preview empty, got %q", rec.Results[1].PreviewURL)
	}
	if rec.Results[0].PreviewURL == "" || rec.Results[2].PreviewURL == "" {
		t.Errorf("sibling previews lost: %q, %q", rec.Results[0].PreviewURL, rec.Results[2].PreviewURL)
	}
}

func TestRecommend_FallbackPath(t *testing.T) {
	tests := []struct {
		name    string
		similar *mockSimilar
	}{
		{"primary empty", &mockSimilar{}},
		{"primary error", &mockSimilar{err: fmt.Errorf("status 500: %w", domain.ErrProviderUnavailable)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			catalog := &mockCatalog{ids: map[string]string{}}
			preview := &mockPreview{
				artistID: 42,
				related: []ports.RelatedArtist{
					{ID: 100, Name: "Related One"},
					{ID: 200, Name: "Related Two"},
				},
				topTracks: map[int64][]domain.Candidate{
					100: {fallbackCandidate(1001, "Track A", "Related One"), fallbackCandidate(1002, "Track B", "Related One")},
					200: {fallbackCandidate(2001, "Track C", "Related Two"), fallbackCandidate(2002, "Track D", "Related Two")},
				},
			}
			r := newTestRecommender(tc.similar, catalog, preview)

			rec, err := r.Recommend(context.Background(), "Some Song", "ObscureArtist123")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if rec.Source != domain.SourceFallback {
				t.Errorf("source: got %q, want fallback", rec.Source)
			}
			wantTitles := []string{"Track A", "Track B", "Track C", "Track D"}
			if len(rec.Results) != len(wantTitles) {
				t.Fatalf("results: got %d, want %d", len(rec.Results), len(wantTitles))
			}
			for i, want := range wantTitles {
				if rec.Results[i].Title != want {
					t.Errorf("result %d: got %q, want %q (artist order then track order)", i, rec.Results[i].Title, want)
				}
				if rec.Results[i].Source != domain.SourceFallback {
					t.Errorf("result %d: got source %q, want fallback", i, rec.Results[i].Source)
				}
			}
			// Fallback candidates already carry previews; no per-candidate
			// preview lookups should have run.
			if preview.previewCalls != 0 {
				t.Errorf("expected no preview lookups for fallback candidates, got %d", preview.previewCalls)
			}
		})
	}
}

func TestRecommend_FallbackArtistNotFound(t *testing.T) {
	similar := &mockSimilar{}
	catalog := &mockCatalog{}
	preview := &mockPreview{artistErr: fmt.Errorf("no match: %w", domain.ErrNotFound)}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Some Song", "NobodyKnowsThisBand")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Source != domain.SourceFallback {
		t.Errorf("source: got %q, want fallback", rec.Source)
	}
	if len(rec.Results) != 0 {
		t.Errorf("expected empty results, got %d", len(rec.Results))
	}
}

func TestRecommend_FallbackSkipsFailingArtist(t *testing.T) {
	similar := &mockSimilar{}
	catalog := &mockCatalog{}
	preview := &mockPreview{
		artistID: 42,
		related: []ports.RelatedArtist{
			{ID: 100, Name: "Broken"},
			{ID: 200, Name: "Working"},
		},
		topErrs: map[int64]error{100: fmt.Errorf("status 503: %w", domain.ErrProviderUnavailable)},
		topTracks: map[int64][]domain.Candidate{
			200: {fallbackCandidate(2001, "Survivor", "Working")},
		},
	}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Some Song", "ObscureArtist123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Results) != 1 || rec.Results[0].Title != "Survivor" {
		t.Fatalf("expected the working artist's track to survive, got %+v", rec.Results)
	}
}

func TestRecommend_FallbackCapsRelatedArtists(t *testing.T) {
	related := make([]ports.RelatedArtist, 8)
	topTracks := make(map[int64][]domain.Candidate, 8)
	for i := range related {
		id := int64(i + 1)
		related[i] = ports.RelatedArtist{ID: id, Name: fmt.Sprintf("Artist %d", id)}
		for j := 0; j < 6; j++ {
			topTracks[id] = append(topTracks[id], fallbackCandidate(id*10+int64(j), fmt.Sprintf("T%d-%d", id, j), related[i].Name))
		}
	}
	preview := &mockPreview{artistID: 42, related: related, topTracks: topTracks}
	r := newTestRecommender(&mockSimilar{}, &mockCatalog{}, preview)

	rec, err := r.Recommend(context.Background(), "Some Song", "Prolific")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Results) > 20 {
		t.Errorf("fallback must cap at 5 artists x 4 tracks = 20, got %d", len(rec.Results))
	}
}

func TestRecommend_DropsUnusableCandidates(t *testing.T) {
	similar := &mockSimilar{candidates: []domain.Candidate{
		primaryCandidate("Tagged", "Artist", "mbid-1"),
		primaryCandidate("Anonymous", "Artist", ""), // no mbid, id lookup will miss
	}}
	catalog := &mockCatalog{ids: map[string]string{"Tagged": "sp-1"}}
	preview := &mockPreview{}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Seed", "Artist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Results) != 1 || rec.Results[0].Title != "Tagged" {
		t.Fatalf("expected unusable candidate to be dropped, got %+v", rec.Results)
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	similar := &mockSimilar{candidates: []domain.Candidate{
		primaryCandidate("Let It Be", "The Beatles", "mbid-1"),
		primaryCandidate("Hey Jude", "The Beatles", "mbid-2"),
	}}
	catalog := &mockCatalog{ids: map[string]string{"Let It Be": "sp-1", "Hey Jude": "sp-2"}}
	preview := &mockPreview{previews: map[string]ports.Preview{
		"Let It Be": {URL: "https://cdn.example/1.mp3"},
		"Hey Jude":  {URL: "https://cdn.example/2.mp3"},
	}}
	r := newTestRecommender(similar, catalog, preview)

	first, err := r.Recommend(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Recommend(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRecommend_TokenUnavailableDegradesGracefully(t *testing.T) {
	similar := &mockSimilar{candidates: []domain.Candidate{
		primaryCandidate("Let It Be", "The Beatles", "mbid-1"),
	}}
	catalog := &mockCatalog{err: fmt.Errorf("token exchange failed: %w", domain.ErrTokenUnavailable)}
	preview := &mockPreview{previews: map[string]ports.Preview{
		"Let It Be": {URL: "https://cdn.example/1.mp3"},
	}}
	r := newTestRecommender(similar, catalog, preview)

	rec, err := r.Recommend(context.Background(), "Yesterday", "The Beatles")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Results) != 1 {
		t.Fatalf("results: got %d, want 1", len(rec.Results))
	}
	got := rec.Results[0]
	if got.CanonicalID != "" {
		t.Errorf("canonical id should be empty when the token is unavailable")
	}
	if got.PreviewURL == "" {
		t.Errorf("preview enrichment should still succeed")
	}
}

func TestSearchTracks_EmptyQuery(t *testing.T) {
	catalog := &mockCatalog{}
	r := newTestRecommender(&mockSimilar{}, catalog, &mockPreview{})

	results, err := r.SearchTracks(context.Background(), "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if catalog.calls != 0 {
		t.Errorf("expected no catalog calls, got %d", catalog.calls)
	}
}

func TestRecommend_ErrorsIsSentinels(t *testing.T) {
	err := fmt.Errorf("spotify adapter: token exchange failed: %w", domain.ErrTokenUnavailable)
	if !errors.Is(err, domain.ErrTokenUnavailable) {
		t.Fatal("wrapped token error must match the sentinel")
	}
}

package rest

import (
	"errors"
	"net/http"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// Search handles GET /api/search?q=. Empty query returns an empty list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.recommender.SearchTracks(r.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrTokenUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Spotify service unavailable")
			return
		}
		h.logger.Error("search failed", "query", query, "err", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Recommendations handles GET /api/recommendations?track=&artist=. Missing
// parameters yield an empty result, not an error; the core never propagates
// provider failures, so this endpoint only errors on malformed requests.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	artist := r.URL.Query().Get("artist")

	rec, err := h.recommender.Recommend(r.Context(), track, artist)
	if err != nil {
		h.logger.Error("recommendations failed", "track", track, "artist", artist, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch recommendations")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Preview handles GET /api/preview?track=&artist=.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	artist := r.URL.Query().Get("artist")
	if track == "" || artist == "" {
		writeError(w, http.StatusBadRequest, "Missing track or artist")
		return
	}

	preview, err := h.recommender.Preview(r.Context(), track, artist)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No preview available")
			return
		}
		h.logger.Error("preview lookup failed", "track", track, "err", err)
		writeError(w, http.StatusInternalServerError, "Preview lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"preview_url": preview.URL})
}

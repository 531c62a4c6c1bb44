package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// songRequest is the payload for like/hide actions. The front end sends
// spotify_id when enrichment resolved one; track_id is the fallback key.
type songRequest struct {
	TrackID    string `json:"track_id"`
	SpotifyID  string `json:"spotify_id"`
	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	AlbumCover string `json:"album_cover"`
}

func (s songRequest) entry() domain.LibraryEntry {
	trackID := s.SpotifyID
	if trackID == "" {
		trackID = s.TrackID
	}
	return domain.LibraryEntry{
		TrackID:  trackID,
		Title:    s.TrackName,
		Artist:   s.ArtistName,
		CoverURL: s.AlbumCover,
	}
}

// LikeSong handles POST /api/songs/like.
func (h *Handler) LikeSong(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.library.Like(r.Context(), session.UserID, req.entry()); err != nil {
		h.logger.Error("like failed", "user", session.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to like song")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Song liked"})
}

// UnlikeSong handles DELETE /api/songs/like.
func (h *Handler) UnlikeSong(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.library.Unlike(r.Context(), session.UserID, req.entry().TrackID); err != nil {
		h.logger.Error("unlike failed", "user", session.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to unlike song")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Song unliked"})
}

// LikedSongs handles GET /api/songs/like.
func (h *Handler) LikedSongs(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	songs, err := h.library.Liked(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error("listing liked songs failed", "user", session.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load liked songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// HideSong handles POST /api/songs/hide.
func (h *Handler) HideSong(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.library.Hide(r.Context(), session.UserID, req.entry()); err != nil {
		h.logger.Error("hide failed", "user", session.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to hide song")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Song hidden"})
}

// UnhideSong handles POST /api/songs/unhide.
func (h *Handler) UnhideSong(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.library.Unhide(r.Context(), session.UserID, req.entry().TrackID); err != nil {
		h.logger.Error("unhide failed", "user", session.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to unhide song")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Song unhidden"})
}

// HiddenSongs handles GET /api/songs/hidden.
func (h *Handler) HiddenSongs(w http.ResponseWriter, r *http.Request) {
	session := h.requireSession(w, r)
	if session == nil {
		return
	}

	songs, err := h.library.Hidden(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error("listing hidden songs failed", "user", session.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load hidden songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	DOB       string `json:"dob"`
	Sex       string `json:"sex"`
	Country   string `json:"country"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.accounts.Register(r.Context(), domain.Registration{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
		Sex:       req.Sex,
		Country:   req.Country,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "Username already exists")
		case errors.Is(err, domain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email already exists")
		case errors.Is(err, domain.ErrProviderUnavailable):
			writeError(w, http.StatusInternalServerError, "Registration failed")
		default:
			// Validation errors carry the missing field name.
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registration successful",
		"user_id": id,
	})
}

// Login handles POST /api/login. The username field accepts a username or
// an email address.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	session := h.sessions.Create(user.ID, user.Username)
	h.sessions.SetCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful"})
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.FromRequest(r); session != nil {
		h.sessions.Delete(session.ID)
	}
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logout successful"})
}

// CheckLogin handles GET /api/check_login.
func (h *Handler) CheckLogin(w http.ResponseWriter, r *http.Request) {
	loggedIn := h.sessions.FromRequest(r) != nil
	writeJSON(w, http.StatusOK, map[string]bool{"logged_in": loggedIn})
}

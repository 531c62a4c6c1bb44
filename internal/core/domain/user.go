package domain

import (
	"errors"
	"strings"
	"time"
)

// User is a registered TuneFuse account. PasswordHash is a bcrypt hash and
// never leaves the persistence boundary.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	DOB          string
	Sex          string
	Country      string
	PasswordHash string
}

// Registration carries the fields a new account requires.
type Registration struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	DOB       string
	Sex       string
	Country   string
}

// Validate reports the first missing required field.
func (r Registration) Validate() error {
	required := []struct {
		name, value string
	}{
		{"username", r.Username},
		{"password", r.Password},
		{"email", r.Email},
		{"firstname", r.FirstName},
		{"lastname", r.LastName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return errors.New("domain: missing required field " + f.name)
		}
	}
	return nil
}

// LibraryEntry is a liked or hidden track in a user's library. TrackID is
// the Spotify canonical id when enrichment found one, else the originating
// provider's seed ref.
type LibraryEntry struct {
	TrackID  string    `json:"track_id"`
	Title    string    `json:"track_name"`
	Artist   string    `json:"artist_name"`
	CoverURL string    `json:"album_cover,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

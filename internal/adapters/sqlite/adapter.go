// Package sqlite provides a SQLite-backed implementation of the user and
// library repository ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// Adapter implements the repository ports for SQLite.
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// CreateUser inserts a new account inside one transaction, first checking
// for username/email conflicts case-insensitively so the caller can tell
// the two apart.
func (a *Adapter) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingUsername, existingEmail string
	err = tx.QueryRowContext(ctx, `
		SELECT username, email FROM users
		WHERE LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)
	`, u.Username, u.Email).Scan(&existingUsername, &existingEmail)
	switch {
	case err == nil:
		if strings.EqualFold(existingUsername, u.Username) {
			return 0, domain.ErrUsernameTaken
		}
		return 0, domain.ErrEmailTaken
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("failed to check existing user: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (username, password, firstname, lastname, email, dob, sex, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Email, u.DOB, u.Sex, u.Country)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("transaction commit failed: %w", err)
	}
	return id, nil
}

// UserByLogin resolves an account by username or email: exact username
// first, then case-insensitive username, then case-insensitive email.
func (a *Adapter) UserByLogin(ctx context.Context, login string) (domain.User, error) {
	queries := []string{
		"SELECT id, username, password, email, firstname, lastname FROM users WHERE username = ?",
		"SELECT id, username, password, email, firstname, lastname FROM users WHERE LOWER(username) = LOWER(?)",
		"SELECT id, username, password, email, firstname, lastname FROM users WHERE LOWER(email) = LOWER(?)",
	}

	for _, q := range queries {
		var u domain.User
		err := a.db.QueryRowContext(ctx, q, login).Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName,
		)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("failed to load user: %w", err)
		}
	}

	return domain.User{}, domain.ErrNotFound
}

// SaveLiked stores a track in the user's liked songs.
func (a *Adapter) SaveLiked(ctx context.Context, userID int64, e domain.LibraryEntry) error {
	return a.saveEntry(ctx, "saved_songs", userID, e)
}

// RemoveLiked deletes a track from the user's liked songs.
func (a *Adapter) RemoveLiked(ctx context.Context, userID int64, trackID string) error {
	return a.removeEntry(ctx, "saved_songs", userID, trackID)
}

// LikedTracks lists the user's liked songs, newest first.
func (a *Adapter) LikedTracks(ctx context.Context, userID int64) ([]domain.LibraryEntry, error) {
	return a.listEntries(ctx, "saved_songs", userID)
}

// SaveHidden stores a track in the user's hidden songs.
func (a *Adapter) SaveHidden(ctx context.Context, userID int64, e domain.LibraryEntry) error {
	return a.saveEntry(ctx, "hidden_songs", userID, e)
}

// RemoveHidden deletes a track from the user's hidden songs.
func (a *Adapter) RemoveHidden(ctx context.Context, userID int64, trackID string) error {
	return a.removeEntry(ctx, "hidden_songs", userID, trackID)
}

// HiddenTracks lists the user's hidden songs, newest first.
func (a *Adapter) HiddenTracks(ctx context.Context, userID int64) ([]domain.LibraryEntry, error) {
	return a.listEntries(ctx, "hidden_songs", userID)
}

// saved_songs and hidden_songs share one shape; table is always one of the
// two constants above, never caller input.

func (a *Adapter) saveEntry(ctx context.Context, table string, userID int64, e domain.LibraryEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, track_id, track_name, artist_name, album_cover)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, track_id) DO UPDATE SET
			track_name=excluded.track_name,
			artist_name=excluded.artist_name,
			album_cover=excluded.album_cover
	`, table)
	if _, err := a.db.ExecContext(ctx, query, userID, e.TrackID, e.Title, e.Artist, e.CoverURL); err != nil {
		return fmt.Errorf("failed to save track %s: %w", e.TrackID, err)
	}
	return nil
}

func (a *Adapter) removeEntry(ctx context.Context, table string, userID int64, trackID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND track_id = ?", table)
	if _, err := a.db.ExecContext(ctx, query, userID, trackID); err != nil {
		return fmt.Errorf("failed to remove track %s: %w", trackID, err)
	}
	return nil
}

func (a *Adapter) listEntries(ctx context.Context, table string, userID int64) ([]domain.LibraryEntry, error) {
	query := fmt.Sprintf(`
		SELECT track_id, track_name, artist_name, IFNULL(album_cover, ''), saved_at
		FROM %s
		WHERE user_id = ?
		ORDER BY saved_at DESC
	`, table)

	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	entries := []domain.LibraryEntry{}
	for rows.Next() {
		var e domain.LibraryEntry
		if err := rows.Scan(&e.TrackID, &e.Title, &e.Artist, &e.CoverURL, &e.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return entries, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		dob TEXT,
		sex TEXT,
		country TEXT
	);

	CREATE TABLE IF NOT EXISTS saved_songs (
		user_id INTEGER NOT NULL,
		track_id TEXT NOT NULL,
		track_name TEXT NOT NULL,
		artist_name TEXT NOT NULL,
		album_cover TEXT,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, track_id),
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS hidden_songs (
		user_id INTEGER NOT NULL,
		track_id TEXT NOT NULL,
		track_name TEXT NOT NULL,
		artist_name TEXT NOT NULL,
		album_cover TEXT,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, track_id),
		FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}

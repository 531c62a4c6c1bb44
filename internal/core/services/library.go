package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

// Library manages a user's liked and hidden tracks.
type Library struct {
	repo   ports.LibraryRepository
	logger *log.Logger
}

// NewLibrary constructs a Library service.
func NewLibrary(repo ports.LibraryRepository, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{repo: repo, logger: logger.With("service", "library")}
}

func validateEntry(e domain.LibraryEntry) error {
	if e.TrackID == "" || e.Title == "" || e.Artist == "" {
		return errors.New("library: track id, title and artist are required")
	}
	return nil
}

// Like saves a track to the user's liked songs.
func (l *Library) Like(ctx context.Context, userID int64, e domain.LibraryEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	return l.repo.SaveLiked(ctx, userID, e)
}

// Unlike removes a track from the user's liked songs.
func (l *Library) Unlike(ctx context.Context, userID int64, trackID string) error {
	if trackID == "" {
		return errors.New("library: track id is required")
	}
	return l.repo.RemoveLiked(ctx, userID, trackID)
}

// Liked lists the user's liked songs, newest first.
func (l *Library) Liked(ctx context.Context, userID int64) ([]domain.LibraryEntry, error) {
	return l.repo.LikedTracks(ctx, userID)
}

// Hide removes a track from recommendations. A hidden track is also removed
// from the liked list so the two views never disagree.
func (l *Library) Hide(ctx context.Context, userID int64, e domain.LibraryEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	if err := l.repo.SaveHidden(ctx, userID, e); err != nil {
		return err
	}
	if err := l.repo.RemoveLiked(ctx, userID, e.TrackID); err != nil {
		return fmt.Errorf("library: unliking hidden track: %w", err)
	}
	return nil
}

// Unhide restores a hidden track.
func (l *Library) Unhide(ctx context.Context, userID int64, trackID string) error {
	if trackID == "" {
		return errors.New("library: track id is required")
	}
	return l.repo.RemoveHidden(ctx, userID, trackID)
}

// Hidden lists the user's hidden songs, newest first.
func (l *Library) Hidden(ctx context.Context, userID int64) ([]domain.LibraryEntry, error) {
	return l.repo.HiddenTracks(ctx, userID)
}

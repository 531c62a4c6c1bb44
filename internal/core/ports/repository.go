package ports

import (
	"context"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
)

// UserRepository persists TuneFuse accounts.
type UserRepository interface {
	// CreateUser inserts a new account and returns its id. Conflicting
	// username or email yields domain.ErrUsernameTaken / domain.ErrEmailTaken.
	CreateUser(ctx context.Context, u domain.User) (int64, error)
	// UserByLogin resolves an account by username or email. Lookup order:
	// exact username, case-insensitive username, case-insensitive email.
	UserByLogin(ctx context.Context, login string) (domain.User, error)
}

// LibraryRepository persists liked and hidden tracks per user.
type LibraryRepository interface {
	SaveLiked(ctx context.Context, userID int64, e domain.LibraryEntry) error
	RemoveLiked(ctx context.Context, userID int64, trackID string) error
	LikedTracks(ctx context.Context, userID int64) ([]domain.LibraryEntry, error)
	SaveHidden(ctx context.Context, userID int64, e domain.LibraryEntry) error
	RemoveHidden(ctx context.Context, userID int64, trackID string) error
	HiddenTracks(ctx context.Context, userID int64) ([]domain.LibraryEntry, error)
}

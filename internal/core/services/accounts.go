package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ewilliams-labs/tunefuse/internal/core/domain"
	"github.com/ewilliams-labs/tunefuse/internal/core/ports"
)

// Accounts handles registration and credential verification.
type Accounts struct {
	users  ports.UserRepository
	logger *log.Logger
}

// NewAccounts constructs an Accounts service.
func NewAccounts(users ports.UserRepository, logger *log.Logger) *Accounts {
	if logger == nil {
		logger = log.Default()
	}
	return &Accounts{users: users, logger: logger.With("service", "accounts")}
}

// Register validates the registration, hashes the password and creates the
// account. Conflicts surface as domain.ErrUsernameTaken / domain.ErrEmailTaken.
func (a *Accounts) Register(ctx context.Context, reg domain.Registration) (int64, error) {
	if err := reg.Validate(); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("accounts: hashing password: %w", err)
	}

	id, err := a.users.CreateUser(ctx, domain.User{
		Username:     reg.Username,
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		DOB:          reg.DOB,
		Sex:          reg.Sex,
		Country:      reg.Country,
		PasswordHash: string(hash),
	})
	if err != nil {
		return 0, err
	}

	a.logger.Info("registered user", "username", reg.Username)
	return id, nil
}

// Login verifies a username-or-email login. Unknown accounts and wrong
// passwords both map to domain.ErrInvalidCredentials so the response does
// not leak which part failed.
func (a *Accounts) Login(ctx context.Context, login, password string) (domain.User, error) {
	if login == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	u, err := a.users.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("accounts: looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		a.logger.Warn("invalid password", "login", login)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return u, nil
}

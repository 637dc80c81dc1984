// Package auth issues and validates access tokens for stored accounts.
package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/store"
)

// Accounts is the persistence surface the service needs.
type Accounts interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*store.User, error)
	UserByUsername(ctx context.Context, username string) (*store.User, error)
}

// Service authenticates users against the account store.
type Service struct {
	accounts Accounts
	issuer   *TokenIssuer
	log      logger.Logger
}

func NewService(accounts Accounts, issuer *TokenIssuer, log logger.Logger) *Service {
	return &Service{
		accounts: accounts,
		issuer:   issuer,
		log:      log.WithFields(map[string]interface{}{"component": "auth"}),
	}
}

// Login verifies credentials and returns a signed token plus the profile.
// Wrong username and wrong password return the same message.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, apperrors.NewValidationError("username and password are required")
	}

	user, err := s.accounts.UserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return "", nil, apperrors.NewAuthError("Invalid credentials")
	}
	if err != nil {
		s.log.WithError(err).Error("account lookup failed", map[string]interface{}{"username": username})
		return "", nil, apperrors.NewServerError("account lookup failed", 0)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.NewAuthError("Invalid credentials")
	}

	token, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		s.log.WithError(err).Error("token signing failed", nil)
		return "", nil, apperrors.NewServerError("could not issue token", 0)
	}

	profile := user.Profile()
	return token, &profile, nil
}

// Authenticate validates a bearer token and returns its claims. Any parse or
// signature failure collapses into a single auth error.
func (s *Service) Authenticate(token string) (*Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, apperrors.NewAuthError("Invalid or expired token")
	}
	return claims, nil
}

// Register hashes the password and creates the account.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if len(username) < 3 {
		return nil, apperrors.NewValidationError("username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email address is required")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewServerError("could not hash password", 0)
	}

	user, err := s.accounts.CreateUser(ctx, username, email, string(hash))
	if errors.Is(err, store.ErrUsernameTaken) {
		return nil, apperrors.NewValidationError("username already taken")
	}
	if err != nil {
		s.log.WithError(err).Error("account creation failed", map[string]interface{}{"username": username})
		return nil, apperrors.NewServerError("could not create account", 0)
	}

	s.log.Info("account created", map[string]interface{}{"username": username})
	profile := user.Profile()
	return &profile, nil
}

// Package auth implements login, registration, and logout against the gift
// service's auth endpoints, persisting the resulting session locally.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/session"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/transport"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// Registration policy limits.
const (
	MinUsernameLength = 3
	MinPasswordLength = 8
)

// Requester is the transport capability the service depends on.
type Requester interface {
	Do(ctx context.Context, endpoint string, opts transport.Options) ([]byte, error)
}

// Service handles authentication flows and session persistence.
type Service struct {
	exec     Requester
	sessions *session.Store
	log      logger.Logger
}

func NewService(exec Requester, sessions *session.Store, log logger.Logger) *Service {
	return &Service{
		exec:     exec,
		sessions: sessions,
		log:      log.WithFields(map[string]interface{}{"component": "auth"}),
	}
}

// Login exchanges credentials for a token and persists the session. The
// returned profile is the one reported by the server.
func (s *Service) Login(ctx context.Context, username, password string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.NewValidationError("username and password are required")
	}

	data, err := s.exec.Do(ctx, "/auth/login", transport.Options{
		Method: http.MethodPost,
		Body:   models.LoginRequest{Username: username, Password: password},
	})
	if err != nil {
		return nil, err
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.NewServerError(transport.FallbackErrorMessage, 0)
	}
	if !resp.Success || resp.AccessToken == "" {
		msg := resp.Error
		if msg == "" {
			msg = transport.FallbackErrorMessage
		}
		return nil, errors.NewAuthError(msg)
	}

	user := models.UserProfile{Username: username}
	if resp.User != nil {
		user = *resp.User
	}
	if err := s.sessions.Save(resp.AccessToken, user); err != nil {
		s.log.WithError(err).Warn("session persist failed", nil)
	}
	s.log.Info("logged in", map[string]interface{}{"username": user.Username})
	return &user, nil
}

// Register creates an account. It does not log the new user in.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateRegistration(username, email, password); err != nil {
		return err
	}

	data, err := s.exec.Do(ctx, "/auth/register", transport.Options{
		Method: http.MethodPost,
		Body:   models.RegisterRequest{Username: username, Email: email, Password: password},
	})
	if err != nil {
		return err
	}

	var resp models.RegisterResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return errors.NewServerError(transport.FallbackErrorMessage, 0)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = transport.FallbackErrorMessage
		}
		return errors.NewServerError(msg, 0)
	}
	s.log.Info("registered", map[string]interface{}{"username": username})
	return nil
}

// Logout discards the local session. It is purely local and never fails.
func (s *Service) Logout() {
	s.sessions.Clear()
	s.log.Info("logged out", nil)
}

// CurrentUser returns the locally stored profile when the session is still
// valid. An expired or corrupt session is cleared and reported as absent.
func (s *Service) CurrentUser() (*models.UserProfile, bool) {
	if !s.sessions.IsValid() {
		s.sessions.Clear()
		return nil, false
	}
	sess, ok := s.sessions.Retrieve()
	if !ok {
		return nil, false
	}
	return &sess.User, true
}

func validateRegistration(username, email, password string) error {
	if len(username) < MinUsernameLength {
		return errors.NewValidationError("username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return errors.NewValidationError("a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return errors.NewValidationError("password must be at least 8 characters")
	}
	return nil
}

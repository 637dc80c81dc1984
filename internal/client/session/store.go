// Package session holds the client's authenticated context: the bearer token,
// the user profile, and the expiry derived from the token payload.
package session

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// The two named entries the client persists. Nothing else is stored.
const (
	tokenKey = "gift_finder_token"
	userKey  = "gift_finder_user"
)

// Session is the authenticated context held by the client.
type Session struct {
	Token     string
	User      models.UserProfile
	ExpiresAt time.Time
}

// Store persists and validates the client session. Storage and decode
// failures are absorbed into "no session"; Store never panics or propagates
// them to the caller.
type Store struct {
	storage Storage
	now     func() time.Time
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		now:     time.Now,
	}
}

// Save persists the token and user, overwriting any prior session. The write
// is atomic from the caller's perspective: on any failure the prior state is
// cleared rather than left half-written.
func (s *Store) Save(token string, user models.UserProfile) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		s.Clear()
		return err
	}
	if err := s.storage.Set(tokenKey, token); err != nil {
		s.Clear()
		return err
	}
	if err := s.storage.Set(userKey, string(userJSON)); err != nil {
		s.Clear()
		return err
	}
	return nil
}

// Retrieve returns the persisted session, or false if nothing is stored or
// the stored state is unreadable.
func (s *Store) Retrieve() (*Session, bool) {
	token, err := s.storage.Get(tokenKey)
	if err != nil || token == "" {
		return nil, false
	}

	userJSON, err := s.storage.Get(userKey)
	if err != nil {
		return nil, false
	}
	var user models.UserProfile
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, false
	}

	sess := &Session{Token: token, User: user}
	if exp, ok := tokenExpiry(token); ok {
		sess.ExpiresAt = exp
	}
	return sess, true
}

// IsValid reports whether a session exists with an expiry in the future.
// It returns false, never an error, for a missing token, a token that fails
// to parse, or an expired token.
func (s *Store) IsValid() bool {
	token, err := s.storage.Get(tokenKey)
	if err != nil || token == "" {
		return false
	}
	exp, ok := tokenExpiry(token)
	if !ok {
		return false
	}
	return exp.After(s.now())
}

// Clear removes the persisted token and user.
func (s *Store) Clear() {
	// Best effort; a session that cannot be deleted still reads as whatever
	// state remains, and IsValid absorbs the rest.
	_ = s.storage.Delete(tokenKey)
	_ = s.storage.Delete(userKey)
}

// AuthHeader returns the Authorization header value for the current token,
// or "" when no valid session exists.
func (s *Store) AuthHeader() string {
	if !s.IsValid() {
		return ""
	}
	token, err := s.storage.Get(tokenKey)
	if err != nil {
		return ""
	}
	return "Bearer " + token
}

// tokenExpiry decodes the token's expiry claim without verifying the
// signature; the client has no key and only needs the exp timestamp.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

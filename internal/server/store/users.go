package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

// ErrUserNotFound is returned when a username lookup finds no row.
var ErrUserNotFound = errors.New("store: user not found")

// ErrUsernameTaken is returned when an insert violates the username or email
// uniqueness constraint.
var ErrUsernameTaken = errors.New("store: username or email already taken")

// User is a stored account row.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile converts the row to its wire representation.
func (u *User) Profile() models.UserProfile {
	return models.UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}

// CreateUser inserts an account and returns it with its assigned ID.
func (p *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	const q = `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	err := p.DB.QueryRowContext(ctx, q, username, email, passwordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// UserByUsername loads an account by its username.
func (p *Postgres) UserByUsername(ctx context.Context, username string) (*User, error) {
	const q = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`

	var user User
	err := p.DB.QueryRowContext(ctx, q, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", username, err)
	}
	return &user, nil
}

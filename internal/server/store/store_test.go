package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresWithDB(db), mock
}

func TestCreateUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("holly", "holly@example.com", "hashed", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	user, err := store.CreateUser(context.Background(), "holly", "holly@example.com", "hashed")
	require.NoError(t, err)
	assert.EqualValues(t, 7, user.ID)
	assert.Equal(t, "holly", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateUser(context.Background(), "holly", "holly@example.com", "hashed")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByUsername(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
		WithArgs("holly").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(int64(7), "holly", "holly@example.com", "hashed", created))

	user, err := store.UserByUsername(context.Background(), "holly")
	require.NoError(t, err)
	assert.Equal(t, "holly@example.com", user.Email)
	assert.Equal(t, created, user.CreatedAt)

	profile := user.Profile()
	assert.EqualValues(t, 7, profile.ID)
	assert.Equal(t, "holly", profile.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByUsername_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.UserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGiftsByInterests(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name, description, category, image_url, age_min`).
		WithArgs(pq.Array([]string{"drawing", "science"}), 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "category", "image_url", "age_min"}).
			AddRow("sketch-pad-pro", "Professional Sketch Pad", "A5 sketch pad", "art", "https://example.com/sketchpad.jpg", 8).
			AddRow("crystal-growing-kit", "Crystal Growing Kit", "", "science", "", 8))

	listings, err := store.GiftsByInterests(context.Background(), []string{"drawing", "science"}, 20)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "sketch-pad-pro", listings[0].ID)
	assert.Equal(t, 4.5, listings[0].Rating)
	assert.NotNil(t, listings[0].Prices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGiftsByInterests_NoInterests(t *testing.T) {
	store, _ := newMockStore(t)
	listings, err := store.GiftsByInterests(context.Background(), nil, 20)
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.NotNil(t, listings)
}

func TestCategories(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT name FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("art").AddRow("science").AddRow("tech"))

	categories, err := store.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"art", "science", "tech"}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

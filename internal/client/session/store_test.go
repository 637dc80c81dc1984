package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func testUser() models.UserProfile {
	return models.UserProfile{ID: 1, Username: "sam"}
}

func TestStore_SaveAndRetrieve(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	exp := time.Now().Add(time.Hour)
	token := signedToken(t, exp)

	require.NoError(t, store.Save(token, testUser()))

	sess, ok := store.Retrieve()
	require.True(t, ok)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, "sam", sess.User.Username)
	assert.WithinDuration(t, exp, sess.ExpiresAt, time.Second)
}

func TestStore_Retrieve_Absent(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	sess, ok := store.Retrieve()
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestStore_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{
			name:  "expiry in the future",
			token: signedToken(t, time.Now().Add(time.Hour)),
			valid: true,
		},
		{
			name:  "expired token",
			token: signedToken(t, time.Now().Add(-time.Hour)),
			valid: false,
		},
		{
			name:  "malformed token",
			token: "not-a-jwt",
			valid: false,
		},
		{
			name:  "empty token",
			token: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			store := NewStore(storage)
			if tt.token != "" {
				require.NoError(t, storage.Set("gift_finder_token", tt.token))
			}
			assert.Equal(t, tt.valid, store.IsValid())
		})
	}
}

func TestStore_IsValid_NoExpiryClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := NewStore(NewMemoryStorage())
	require.NoError(t, store.Save(signed, testUser()))
	assert.False(t, store.IsValid())
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour)), testUser()))

	store.Clear()

	_, ok := store.Retrieve()
	assert.False(t, ok)
	assert.False(t, store.IsValid())
	assert.Empty(t, store.AuthHeader())
}

func TestStore_AuthHeader(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(token, testUser()))

	assert.Equal(t, "Bearer "+token, store.AuthHeader())
}

func TestStore_AuthHeader_Expired(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(-time.Minute)), testUser()))

	assert.Empty(t, store.AuthHeader())
}

type failingStorage struct{}

func (failingStorage) Get(string) (string, error)  { return "", errors.New("disk gone") }
func (failingStorage) Set(string, string) error    { return errors.New("disk gone") }
func (failingStorage) Delete(string) error         { return errors.New("disk gone") }

func TestStore_StorageFailureReadsAsNoSession(t *testing.T) {
	store := NewStore(failingStorage{})

	assert.False(t, store.IsValid())
	_, ok := store.Retrieve()
	assert.False(t, ok)
	assert.Empty(t, store.AuthHeader())
	assert.NotPanics(t, func() { store.Clear() })
}

func TestStore_SaveOverwritesPriorSession(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	require.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour)), testUser()))

	next := models.UserProfile{ID: 2, Username: "alex"}
	nextToken := signedToken(t, time.Now().Add(2*time.Hour))
	require.NoError(t, store.Save(nextToken, next))

	sess, ok := store.Retrieve()
	require.True(t, ok)
	assert.Equal(t, nextToken, sess.Token)
	assert.Equal(t, "alex", sess.User.Username)
}

func TestFileStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	store := NewStore(storage)
	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(token, testUser()))

	// A fresh store over the same directory sees the persisted session.
	reopened := NewStore(storage)
	sess, ok := reopened.Retrieve()
	require.True(t, ok)
	assert.Equal(t, token, sess.Token)
	assert.True(t, reopened.IsValid())
}

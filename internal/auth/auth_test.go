package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/internal/storage"
	"github.com/mmynk/hearth/internal/storage/sqlite"
)

func newAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store, bcrypt.MinCost)
}

func TestPasswordAuthenticator(t *testing.T) {
	a := newAuthenticator(t)
	ctx := context.Background()

	user, err := a.Register(ctx, "  Alice@Example.com ", "Alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	t.Run("login is case-insensitive on email", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "ALICE@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "alice@example.com", "battery staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "bob@example.com", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, "alice@example.com", "Other", "password123")
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := a.Register(ctx, "carol@example.com", "Carol", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := a.Register(ctx, "carol", "Carol", "password123")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

// staleLookups hides existing users from GetUserByEmail, as if a concurrent
// registration committed between the lookup and the insert.
type staleLookups struct {
	storage.UserStore
}

func (staleLookups) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, nil
}

func TestPasswordAuthenticator_ConcurrentRegistration(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	_, err = NewPasswordAuthenticator(store, bcrypt.MinCost).Register(ctx, "dana@example.com", "Dana", "password123")
	require.NoError(t, err)

	a := NewPasswordAuthenticator(staleLookups{store}, bcrypt.MinCost)
	_, err = a.Register(ctx, "dana@example.com", "Dana Again", "password123")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com", DisplayName: "Alice"}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("secret", time.Hour)
		token, err := m.Generate(user)
		require.NoError(t, err)

		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "Alice", claims.DisplayName)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("secret", time.Hour).Generate(user)
		require.NoError(t, err)
		_, err = NewJWTManager("other", time.Hour).Validate(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("secret", time.Minute)
		issued := time.Now().Add(-time.Hour)
		m.now = func() time.Time { return issued }
		token, err := m.Generate(user)
		require.NoError(t, err)

		m.now = time.Now
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewJWTManager("secret", time.Hour).Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("kopi-susu")
	require.NoError(t, err)
	return NewAuthenticator("admin", hash, "test-secret", time.Hour)
}

func TestLoginAndVerify(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator(t)

	token, expires, err := a.Login("admin", "kopi-susu")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator(t)

	_, _, err := a.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = a.Login("someone", "kopi-susu")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	empty := NewAuthenticator("admin", "", "secret", time.Hour)
	_, _, err = empty.Login("admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		hash, err := HashPassword("kopi-susu")
		require.NoError(t, err)
		other := NewAuthenticator("admin", hash, "other-secret", time.Hour)
		token, _, err := other.Login("admin", "kopi-susu")
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := a.Login("admin", "kopi-susu")
		require.NoError(t, err)

		later := *a
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

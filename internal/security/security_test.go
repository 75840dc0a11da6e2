package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"coupon-manager/internal/util"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("s3cret")
	require.NoError(t, err)
	second, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "hashes are salted")
	assert.NotContains(t, first, "s3cret")
	assert.NoError(t, h.Compare(first, "s3cret"))
	assert.NoError(t, h.Compare(second, "s3cret"))

	other, err := h.Hash("different")
	require.NoError(t, err)
	assert.Error(t, h.Compare(other, "s3cret"))
	assert.Error(t, h.Compare("not-a-hash", "s3cret"))
}

func TestPasswordHasherCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)

	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasherRejectsLongPassword(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost).Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	fixed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, expiresAt, err := m.Issue("alice")
	require.NoError(t, err)
	assert.True(t, fixed.Add(time.Hour).Equal(expiresAt))
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, expiresAt.Equal(claims.ExpiresAt))
	assert.True(t, fixed.Equal(claims.IssuedAt))
	assert.NotEmpty(t, claims.ID)

	again, _, err := m.Issue("alice")
	require.NoError(t, err)
	second, err := m.Verify(again)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, second.ID, "every token has its own id")
}

func TestTokenManagerRejects(t *testing.T) {
	issuedAt := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue("alice")
	require.NoError(t, err)

	t.Run("Expired", func(t *testing.T) {
		later := NewTokenManager("secret", time.Hour)
		later.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenManager("other", time.Hour)
		other.now = m.now
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("Tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "mallory"})
		forgedStr, err := forged.SignedString([]byte("attacker"))
		require.NoError(t, err)
		forgedParts := strings.Split(forgedStr, ".")
		_, err = m.Verify(parts[0] + "." + forgedParts[1] + "." + parts[2])
		assert.Error(t, err)
	})

	t.Run("Unsigned algorithm", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		})
		noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Verify(noneStr)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assert.Error(t, err)
	})
}

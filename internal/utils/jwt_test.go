package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qshe-portal/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	cases := []model.Identity{
		{UserID: 1, Email: "admin@x.com", Role: model.RoleAdmin},
		{UserID: 42, Email: "bob@x.com", Role: model.RoleVisitor},
		{UserID: 1 << 40, Email: "", Role: model.RoleVisitor},
	}
	for _, want := range cases {
		tok, err := svc.Issue(want.UserID, want.Email, want.Role)
		require.NoError(t, err)
		got, err := svc.Verify(tok.Token)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTokenExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	svc := NewTokenService("test-secret", WithClock(clock.Now))

	tok, err := svc.Issue(7, "bob@x.com", model.RoleVisitor)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour), tok.Exp)

	clock.t = issuedAt.Add(23*time.Hour + 59*time.Minute)
	_, err = svc.Verify(tok.Token)
	assert.NoError(t, err)

	clock.t = issuedAt.Add(24*time.Hour + time.Minute)
	_, err = svc.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := NewTokenService("test-secret")
	tok, err := svc.Issue(3, "carol@x.com", model.RoleAdmin)
	require.NoError(t, err)

	raw := []byte(tok.Token)
	for i := range raw {
		flipped := make([]byte, len(raw))
		copy(flipped, raw)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		_, err := svc.Verify(string(flipped))
		assert.ErrorIsf(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	svc := NewTokenService("test-secret")

	other := NewTokenService("another-secret")
	tok, err := other.Issue(3, "carol@x.com", model.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{
		UserID: 3, Email: "carol@x.com", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	svc := NewTokenService("test-secret")
	claims := TokenClaims{
		UserID: 9, Email: "eve@x.com", Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRequiresExpiry(t *testing.T) {
	svc := NewTokenService("test-secret")
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{UserID: 9, Role: "admin"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/config"
	"github.com/iliyamo/qshe-portal/internal/model"
)

type stubVerifier map[string]model.Identity

func (s stubVerifier) Verify(raw string) (model.Identity, error) {
	id, ok := s[raw]
	if !ok {
		return model.Identity{}, errors.New("bad token")
	}
	return id, nil
}

var (
	adminID   = model.Identity{UserID: 1, Email: "admin@x.com", Role: model.RoleAdmin}
	visitorID = model.Identity{UserID: 2, Email: "bob@x.com", Role: model.RoleVisitor}
	verifier  = stubVerifier{"admin-token": adminID, "visitor-token": visitorID}
)

func newServer(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/things/:id", func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.String(http.StatusOK, "anon")
		}
		return c.String(http.StatusOK, id.Email)
	}, mw...)
	return e
}

func do(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/things/5", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := newServer(JWTAuth(verifier, zap.NewNop()))

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, "Access token required"},
		{"wrong scheme", "Basic admin-token", http.StatusUnauthorized, "Access token required"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Access token required"},
		{"unknown token", "Bearer forged", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "Bearer admin-token", http.StatusOK, "admin@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, tc.header)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestJWTAuthErrorBody(t *testing.T) {
	rec := do(newServer(JWTAuth(verifier, zap.NewNop())), "")
	assert.JSONEq(t, `{"error":"Access token required","kind":"unauthenticated"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := newServer(JWTAuth(verifier, zap.NewNop()), RequireRole(model.RoleAdmin))

	assert.Equal(t, http.StatusOK, do(e, "Bearer admin-token").Code)

	rec := do(e, "Bearer visitor-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "permission_denied")
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	rec := do(newServer(RequireRole(model.RoleAdmin, model.RoleVisitor)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLimiterAndCacheWithoutRedisPassThrough(t *testing.T) {
	rl := config.RateLimitConfig{Enabled: true, Capacity: 1}
	cc := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	e := newServer(JWTAuth(verifier, zap.NewNop()),
		NewTokenBucket(rl, nil, zap.NewNop()),
		NewRedisCache(cc, nil, zap.NewNop()))

	for i := 0; i < 3; i++ {
		rec := do(e, "Bearer visitor-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.9:route:POST /auth/login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
	SetIdentity(c, visitorID)
	assert.Equal(t, "rl:user:2", buildRateKey(cfg, c))
}

func TestCacheKeySeparatesRoles(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(id model.Identity) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/security/personnel?x=1", nil), httptest.NewRecorder())
		c.SetPath("/security/personnel")
		SetIdentity(c, id)
		return cacheKeyFrom(cfg, c)
	}
	assert.NotEqual(t, key(adminID), key(visitorID))
	assert.Equal(t, key(adminID), key(model.Identity{UserID: 9, Role: model.RoleAdmin}))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, key(adminID))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
}

func TestCaptureWriterDropsOversizedBodies(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated)
	assert.Zero(t, cw.buf.Len())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestMetricsAndLoggerPassResponsesThrough(t *testing.T) {
	e := newServer(RequestLogger(zap.NewNop()), Metrics())
	rec := do(e, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anon", rec.Body.String())
}

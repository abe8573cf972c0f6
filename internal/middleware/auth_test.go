package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudzz/marketplace-api/internal/auth"
)

const testSecret = "middleware-test-secret"

// invoke runs a request through ProviderAuth with a next handler that
// echoes the provider id the middleware stored in the context.
func invoke(t *testing.T, authorization string) (*httptest.ResponseRecorder, any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/provider/services", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured any
	next := func(c echo.Context) error {
		captured = c.Get("provider_id")
		return c.NoContent(http.StatusOK)
	}
	err := ProviderAuth(auth.NewTokenService(testSecret))(next)(c)
	require.NoError(t, err)
	return rec, captured
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestProviderAuthAcceptsValidToken(t *testing.T) {
	token, err := auth.NewTokenService(testSecret).Issue(map[string]any{"provider_id": 42})
	require.NoError(t, err)

	rec, captured := invoke(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), captured)
}

func TestProviderAuthAcceptsStringProviderID(t *testing.T) {
	token, err := auth.NewTokenService(testSecret).Issue(map[string]any{"provider_id": "42"})
	require.NoError(t, err)

	rec, captured := invoke(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), captured)
}

func TestProviderAuthRejections(t *testing.T) {
	valid, err := auth.NewTokenService(testSecret).Issue(map[string]any{"provider_id": 42})
	require.NoError(t, err)

	expired := signedToken(t, testSecret, jwt.MapClaims{
		"provider_id": 42,
		"iat":         time.Now().Add(-8 * 24 * time.Hour).Unix(),
		"exp":         time.Now().Add(-24 * time.Hour).Unix(),
	})
	wrongKey := signedToken(t, "other-secret", jwt.MapClaims{
		"provider_id": 42,
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	noProvider, err := auth.NewTokenService(testSecret).Issue(map[string]any{"role": "provider"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"lowercase scheme", "bearer " + valid},
		{"wrong scheme", "Basic " + valid},
		{"scheme only", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
		{"missing provider_id claim", "Bearer " + noProvider},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, captured := invoke(t, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, captured, "next handler must not run")
			assert.JSONEq(t, `{"message":"Access denied"}`, rec.Body.String())
		})
	}
}

func TestProviderIDClaimConversion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want uint64
		ok   bool
	}{
		{"json number", float64(7), 7, true},
		{"fractional number", 7.5, 0, false},
		{"negative number", float64(-1), 0, false},
		{"uint64", uint64(7), 7, true},
		{"int64", int64(7), 7, true},
		{"negative int64", int64(-7), 0, false},
		{"int", 7, 7, true},
		{"numeric string", "7", 7, true},
		{"junk string", "seven", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := providerIDClaim(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

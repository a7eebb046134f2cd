package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/1xev3/edev-backend/internal/auth"
)

func guardEcho(t *testing.T) (*echo.Echo, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"owner":    c.Get(OwnerKey),
			"group_id": c.Get(GroupIDKey),
		})
	}, JWTAuth(tokens))
	return e, tokens
}

func doGet(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Parallel()
	e, tokens := guardEcho(t)

	raw, err := tokens.IssueAccess("a@x.com", 2)
	require.NoError(t, err)

	rec := doGet(e, "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "a@x.com")
}

func TestJWTAuth_RejectsUniformly(t *testing.T) {
	t.Parallel()
	e, tokens := guardEcho(t)

	expiredSvc, err := auth.NewTokenService("access-secret", "refresh-secret", -time.Minute, time.Hour)
	require.NoError(t, err)
	expired, err := expiredSvc.IssueAccess("a@x.com", 0)
	require.NoError(t, err)

	refresh, err := tokens.IssueRefresh("a@x.com", 0)
	require.NoError(t, err)

	revoked, err := tokens.IssueAccess("a@x.com", 0)
	require.NoError(t, err)
	tokens.Revoke(revoked)

	cases := map[string]string{
		"missing header":         "",
		"wrong scheme":           "Basic dXNlcjpwYXNz",
		"bare token":             "garbage",
		"garbage token":          "Bearer garbage",
		"expired token":          "Bearer " + expired,
		"refresh on access path": "Bearer " + refresh,
		"revoked token":          "Bearer " + revoked,
	}

	var body string
	for name, header := range cases {
		rec := doGet(e, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		// Every failure mode must produce the same body so callers cannot
		// probe which check rejected them.
		if body == "" {
			body = rec.Body.String()
		}
		require.Equal(t, body, rec.Body.String(), name)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/utils"
)

const testSecret = "test-secret"

func doRequest(t *testing.T, mws []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u1", model.RoleUser, 5)
	require.NoError(t, err)

	rec, c := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", c.Get(CtxUserID))
	assert.Equal(t, model.RoleUser, c.Get(CtxRole))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "u1", model.RoleUser, 5)
	require.NoError(t, err)

	rec, _ := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u1", model.RoleUser, -5)
	require.NoError(t, err)

	rec, _ := doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u1", model.RoleUser, 5)
	require.NoError(t, err)

	mws := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleAdmin)}
	rec, _ := doRequest(t, mws, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := utils.NewAccessToken(testSecret, "a1", model.RoleAdmin, 5)
	require.NoError(t, err)
	rec, _ = doRequest(t, []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleAdmin)}, "Bearer "+admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swiftlogix/internal/middleware"
	"swiftlogix/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testSecret = "test-secret"
	adminID    = "6f1c7a52-2b0e-4c1e-9a53-0d6c3f1b9a11"
	customerID = "0b8f2d4e-7a61-4f0c-8e4d-5c2b1a9e7d22"
)

type RoleCheckerMock struct{ mock.Mock }

func (m *RoleCheckerMock) HasRole(ctx context.Context, userID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

func mustToken(t *testing.T, userID string) string {
	t.Helper()
	raw, err := session.NewTokenVerifier(testSecret).Sign(userID, "someone@example.com", time.Hour)
	require.NoError(t, err)
	return raw
}

func newEcho(roles *RoleCheckerMock) *echo.Echo {
	return newEchoWithLogger(roles, zap.NewNop())
}

func newEchoWithLogger(roles *RoleCheckerMock, logger *zap.Logger) *echo.Echo {
	v := session.NewTokenVerifier(testSecret)
	r := session.NewResolver(roles)

	ok := func(c echo.Context) error {
		uid, _ := c.Get(middleware.CtxUserIDKey).(string)
		isAdmin, _ := c.Get(middleware.CtxIsAdminKey).(bool)
		return c.JSON(http.StatusOK, mwOKResponse{UserID: uid, IsAdmin: isAdmin})
	}

	e := echo.New()
	e.GET("/dashboard", ok, middleware.RequireSession(v))
	e.GET("/admin", ok, middleware.RequireAdmin(v, r, logger), middleware.AdminRoleGuard())
	e.GET("/maybe", ok, middleware.LoadSession(v))
	return e
}

func do(e *echo.Echo, path, token string, html bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if html {
		req.Header.Set(echo.HeaderAccept, "text/html,application/xhtml+xml")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body mwErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRequireSession_NoSession(t *testing.T) {
	e := newEcho(new(RoleCheckerMock))

	rec := do(e, "/dashboard", "", true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, "/dashboard", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec))
}

func TestRequireSession_InvalidTokenIsNoSession(t *testing.T) {
	e := newEcho(new(RoleCheckerMock))

	rec := do(e, "/dashboard", "garbage", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_OK(t *testing.T) {
	roles := new(RoleCheckerMock)
	e := newEcho(roles)

	rec := do(e, "/dashboard", mustToken(t, customerID), false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, customerID, body.UserID)
	roles.AssertNotCalled(t, "HasRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequireSession_CookieToken(t *testing.T) {
	e := newEcho(new(RoleCheckerMock))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set(echo.HeaderAccept, "text/html")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: mustToken(t, customerID)})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_NoSession(t *testing.T) {
	roles := new(RoleCheckerMock)
	e := newEcho(roles)

	rec := do(e, "/admin", "", true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get(echo.HeaderLocation))
	roles.AssertNotCalled(t, "HasRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequireAdmin_NonAdminGoesHome(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, customerID, "admin").Return(false, nil)
	e := newEcho(roles)

	rec := do(e, "/admin", mustToken(t, customerID), true)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, "/admin", mustToken(t, customerID), false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeError(t, rec))
}

func TestRequireAdmin_AdminRenders(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, adminID, "admin").Return(true, nil)
	e := newEcho(roles)

	rec := do(e, "/admin", mustToken(t, adminID), true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, adminID, body.UserID)
	assert.True(t, body.IsAdmin)
}

func TestRequireAdmin_RoleCheckFailure(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, adminID, "admin").Return(false, errors.New("rpc timeout"))
	core, logs := observer.New(zapcore.WarnLevel)
	e := newEchoWithLogger(roles, zap.New(core))

	rec := do(e, "/admin", mustToken(t, adminID), false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	entries := logs.FilterMessage("role check failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, adminID, fields["user_id"])
	assert.Equal(t, "rpc timeout", fields["error"])
}

func TestLoadSession_Optional(t *testing.T) {
	e := newEcho(new(RoleCheckerMock))

	rec := do(e, "/maybe", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var body mwOKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.UserID)

	rec = do(e, "/maybe", mustToken(t, customerID), false)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, customerID, body.UserID)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "cookie-token"})
	assert.Empty(t, middleware.ExtractToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  abc ")
	assert.Equal(t, "abc", middleware.ExtractToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", middleware.ExtractToken(req))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(middleware.RequestLogger(zap.New(core)))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ping", fields["uri"])
	assert.EqualValues(t, 200, fields["status"])
}

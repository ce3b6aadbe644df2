package handler

import (
	"net/http"

	"swiftlogix/internal/middleware"
	"swiftlogix/internal/session"
	"swiftlogix/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return "", false
	}

	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func getSessionFromContext(c echo.Context) (*session.Session, bool) {
	s, ok := c.Get(middleware.CtxSessionKey).(*session.Session)
	return s, ok && s != nil
}

// ブラウザ単位のcookie。無ければ発行してSet-Cookieする
func visitorCookie(c echo.Context, name string, secure bool, resolve func(raw string) (string, bool)) string {
	raw := ""
	if ck, err := c.Cookie(name); err == nil {
		raw = ck.Value
	}
	id, issued := resolve(raw)
	if issued {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    id,
			Path:     "/",
			MaxAge:   visitorCookieMaxAge,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id
}

// 1年
const visitorCookieMaxAge = 365 * 24 * 60 * 60

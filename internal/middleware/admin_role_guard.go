package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdminの後ろで使う。contextのis_adminを再確認する
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(CtxUserIDKey).(string); !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			isAdmin, _ := c.Get(CtxIsAdminKey).(bool)
			if !isAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}

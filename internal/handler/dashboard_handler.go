package handler

import (
	"net/http"

	"swiftlogix/internal/middleware"
	"swiftlogix/internal/session"
	"swiftlogix/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// /dashboard（ログイン必須）
type DashboardHandler struct {
	uc       *usecase.DashboardUsecase
	resolver *session.Resolver
	logger   *zap.Logger
}

func NewDashboardHandler(uc *usecase.DashboardUsecase, resolver *session.Resolver, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, resolver: resolver, logger: logger}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, verifier *session.TokenVerifier) {
	g := e.Group("/dashboard")
	g.Use(middleware.RequireSession(verifier))

	g.GET("", h.me)
	g.GET("/orders", h.orders)
}

func (h *DashboardHandler) me(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	//管理画面へのリンクを出すかどうかだけなので、失敗はfalse扱い
	isAdmin, err := h.resolver.IsAdmin(c.Request().Context(), s.UserID)
	if err != nil {
		h.logger.Warn("role check failed", zap.String("user_id", s.UserID), zap.Error(err))
		isAdmin = false
	}
	return c.JSON(http.StatusOK, DashboardResponse{UserID: s.UserID, Email: s.Email, IsAdmin: isAdmin})
}

func (h *DashboardHandler) orders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

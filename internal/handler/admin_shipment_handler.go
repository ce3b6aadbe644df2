package handler

import (
	"net/http"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/middleware"
	"swiftlogix/internal/session"
	"swiftlogix/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ShipmentStatusUpdateRequest struct {
	Status string `json:"status"`
}

type ShipmentEventCreateRequest struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type AdminOverviewResponse struct {
	UserID   string                 `json:"user_id"`
	Email    string                 `json:"email"`
	Stats    usecase.ShipmentStats  `json:"stats"`
	Statuses []model.ShipmentStatus `json:"statuses"`
}

// /admin 配下。管理者のみ
type AdminShipmentHandler struct {
	shipments *usecase.AdminShipmentUsecase
	orders    *usecase.OrderUsecase
	logger    *zap.Logger
}

func NewAdminShipmentHandler(shipments *usecase.AdminShipmentUsecase, orders *usecase.OrderUsecase, logger *zap.Logger) *AdminShipmentHandler {
	return &AdminShipmentHandler{shipments: shipments, orders: orders, logger: logger}
}

func (h *AdminShipmentHandler) RegisterRoutes(e *echo.Echo, verifier *session.TokenVerifier, resolver *session.Resolver) {
	admin := e.Group("/admin")
	admin.Use(middleware.RequireAdmin(verifier, resolver, h.logger))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("", h.overview)
	admin.GET("/shipments", h.list)
	admin.GET("/shipments/stats", h.stats)
	admin.GET("/shipments/:id/events", h.events)
	admin.POST("/shipments/:id/events", h.appendEvent)
	admin.PUT("/shipments/:id/status", h.updateStatus)
	admin.GET("/shipments/:id/audit", h.audit)
	admin.POST("/orders", h.createOrder)
}

func (h *AdminShipmentHandler) overview(c echo.Context) error {
	s, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	stats, err := h.shipments.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AdminOverviewResponse{
		UserID:   s.UserID,
		Email:    s.Email,
		Stats:    stats,
		Statuses: model.ShipmentStatuses,
	})
}

func (h *AdminShipmentHandler) list(c echo.Context) error {
	out, err := h.shipments.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminShipmentHandler) stats(c echo.Context) error {
	out, err := h.shipments.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminShipmentHandler) events(c echo.Context) error {
	out, err := h.shipments.Events(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminShipmentHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ShipmentStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.shipments.UpdateStatus(c.Request().Context(), adminID, c.Param("id"), usecase.AdminUpdateShipmentStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminShipmentHandler) appendEvent(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ShipmentEventCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.shipments.AppendEvent(c.Request().Context(), adminID, c.Param("id"), usecase.AdminAppendEventInput{
		Status:      req.Status,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminShipmentHandler) audit(c echo.Context) error {
	out, err := h.shipments.AuditTrail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 管理者の代理Ship Now。依頼は管理者のuser idで作る
func (h *AdminShipmentHandler) createOrder(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := req.toInput()
	in.SessionID = uuid.NewString()
	in.UserID = &adminID

	out, err := h.orders.SubmitAsAdmin(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, OrderCreateResponse{
		Message:           "Order created successfully!",
		SubmitOrderOutput: out,
	})
}

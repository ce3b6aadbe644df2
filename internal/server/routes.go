package server

import (
	"swiftlogix/internal/handler"
	"swiftlogix/internal/session"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Site      *handler.SiteHandler
	Orders    *handler.OrderHandler
	Tracking  *handler.TrackingHandler
	Dashboard *handler.DashboardHandler
	Admin     *handler.AdminShipmentHandler
	Chat      *handler.ChatHandler
}

// 公開API → ログイン必須 → 管理者 の順
func RegisterRoutes(e *echo.Echo, h Handlers, verifier *session.TokenVerifier, resolver *session.Resolver) {
	h.Site.RegisterRoutes(e)
	h.Orders.RegisterRoutes(e, verifier)
	h.Tracking.RegisterRoutes(e)
	h.Chat.RegisterRoutes(e)

	h.Dashboard.RegisterRoutes(e, verifier)

	h.Admin.RegisterRoutes(e, verifier, resolver)
}

package handler

import (
	"net/http"

	"swiftlogix/internal/middleware"
	"swiftlogix/internal/session"
	"swiftlogix/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const VisitorCookie = "visitor_session_id"

// 荷物部分（見積もりと発送依頼で共通）
type PackageRequest struct {
	WeightKg      float64  `json:"weight_kg"`
	LengthCm      *float64 `json:"length_cm"`
	WidthCm       *float64 `json:"width_cm"`
	HeightCm      *float64 `json:"height_cm"`
	Method        string   `json:"shipping_method"`
	Insurance     bool     `json:"insurance"`
	DeclaredValue *float64 `json:"declared_value"`
}

type PartyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Ship Nowフォーム
type OrderCreateRequest struct {
	Origin      PartyRequest   `json:"origin"`
	Destination PartyRequest   `json:"destination"`
	Package     PackageRequest `json:"package"`
	Description string         `json:"package_description"`
}

type OrderCreateResponse struct {
	Message string `json:"message"`
	usecase.SubmitOrderOutput
}

// /quotes と /orders
type OrderHandler struct {
	uc           *usecase.OrderUsecase
	cookieSecure bool
}

func NewOrderHandler(uc *usecase.OrderUsecase, cookieSecure bool) *OrderHandler {
	return &OrderHandler{uc: uc, cookieSecure: cookieSecure}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, verifier *session.TokenVerifier) {
	e.POST("/quotes", h.quote)

	//ログインは任意。していればuser idを付ける
	g := e.Group("/orders")
	g.Use(middleware.LoadSession(verifier))
	g.POST("", h.create)
}

func (h *OrderHandler) quote(c echo.Context) error {
	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Quote(req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := req.toInput()
	in.SessionID = visitorCookie(c, VisitorCookie, h.cookieSecure, resolveVisitorID)
	if userID, ok := getUserIDFromContext(c); ok {
		in.UserID = &userID
	}

	out, err := h.uc.Submit(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, OrderCreateResponse{
		Message:           "Order placed successfully!",
		SubmitOrderOutput: out,
	})
}

func resolveVisitorID(raw string) (string, bool) {
	if id, err := uuid.Parse(raw); err == nil {
		return id.String(), false
	}
	return uuid.NewString(), true
}

func (p PackageRequest) toInput() usecase.QuoteInput {
	return usecase.QuoteInput{
		WeightKg:      p.WeightKg,
		LengthCm:      p.LengthCm,
		WidthCm:       p.WidthCm,
		HeightCm:      p.HeightCm,
		Method:        p.Method,
		Insurance:     p.Insurance,
		DeclaredValue: p.DeclaredValue,
	}
}

func (r OrderCreateRequest) toInput() usecase.SubmitOrderInput {
	return usecase.SubmitOrderInput{
		OriginName:    r.Origin.Name,
		OriginAddress: r.Origin.Address,
		OriginCity:    r.Origin.City,
		OriginCountry: r.Origin.Country,
		OriginPhone:   r.Origin.Phone,
		OriginEmail:   r.Origin.Email,

		DestinationName:    r.Destination.Name,
		DestinationAddress: r.Destination.Address,
		DestinationCity:    r.Destination.City,
		DestinationCountry: r.Destination.Country,
		DestinationPhone:   r.Destination.Phone,
		DestinationEmail:   r.Destination.Email,

		Package:     r.Package.toInput(),
		Description: r.Description,
	}
}

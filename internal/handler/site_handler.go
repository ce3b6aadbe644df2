package handler

import (
	"net/http"

	"swiftlogix/internal/domain/quote"
	"swiftlogix/internal/usecase"

	"github.com/labstack/echo/v4"
)

// サービス紹介ページの1行
type ServiceLine struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

var serviceLines = []ServiceLine{
	{
		Title:       "Air Freight",
		Description: "Fast and reliable air cargo services to any destination worldwide.",
		Features:    []string{"Express delivery options", "Temperature-controlled cargo", "Dangerous goods handling", "Real-time tracking"},
	},
	{
		Title:       "Ocean Freight",
		Description: "Cost-effective sea freight solutions for large shipments, FCL and LCL.",
		Features:    []string{"Full container loads", "Consolidation services", "Port-to-port & door-to-door", "Customs brokerage"},
	},
	{
		Title:       "Ground Transport",
		Description: "Road freight with door-to-door delivery across major routes.",
		Features:    []string{"FTL & LTL options", "Cross-border logistics", "Expedited shipping", "GPS tracking"},
	},
	{
		Title:       "Warehousing & Distribution",
		Description: "Storage facilities with inventory management and fulfillment.",
		Features:    []string{"Climate-controlled storage", "Inventory management", "Pick and pack services", "Distribution networks"},
	},
	{
		Title:       "Customs Brokerage",
		Description: "Customs clearance for smooth and compliant international trade.",
		Features:    []string{"Documentation handling", "Duty optimization", "Regulatory compliance", "Trade consulting"},
	},
	{
		Title:       "Supply Chain Solutions",
		Description: "End-to-end supply chain management to optimize operations and reduce costs.",
		Features:    []string{"Supply chain design", "Vendor management", "Analytics & reporting", "Risk management"},
	},
}

type ServicesResponse struct {
	Methods  []quote.Method `json:"methods"`
	Services []ServiceLine  `json:"services"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// /health /services /contact の公開API
type SiteHandler struct {
	contact *usecase.ContactUsecase
}

func NewSiteHandler(contact *usecase.ContactUsecase) *SiteHandler {
	return &SiteHandler{contact: contact}
}

func (h *SiteHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
	e.GET("/services", h.services)
	e.POST("/contact", h.submitContact)
}

func (h *SiteHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SiteHandler) services(c echo.Context) error {
	return c.JSON(http.StatusOK, ServicesResponse{
		Methods:  quote.Methods(),
		Services: serviceLines,
	})
}

func (h *SiteHandler) submitContact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if _, err := h.contact.Submit(c.Request().Context(), usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Message: "Message sent successfully! We'll get back to you soon."})
}

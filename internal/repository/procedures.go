package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
)

// verify_tracking_number の戻り値
type VerifyTrackingResult struct {
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	SessionToken string          `json:"session_token,omitempty"`
	Shipment     *model.Shipment `json:"shipment,omitempty"`
}

// get_shipment_events の戻り値
type ShipmentEventsResult struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Events  []model.ShipmentEvent `json:"events,omitempty"`
}

// 追跡番号で引くRPC。shipment idは外に出さずsession tokenで続きを読む
type TrackingProcedures interface {
	VerifyTrackingNumber(ctx context.Context, trackingNumber string) (VerifyTrackingResult, error)
	GetShipmentEvents(ctx context.Context, sessionToken string) (ShipmentEventsResult, error)
}

// create_shipment_from_order の引数
type CreateShipmentParams struct {
	OrderNumber        string  `json:"p_order_number"`
	OriginCity         string  `json:"p_origin_city"`
	OriginCountry      string  `json:"p_origin_country"`
	DestinationCity    string  `json:"p_destination_city"`
	DestinationCountry string  `json:"p_destination_country"`
	SenderName         string  `json:"p_sender_name"`
	RecipientName      string  `json:"p_recipient_name"`
	WeightKg           float64 `json:"p_weight_kg"`
	ShippingMethod     string  `json:"p_shipping_method"`
}

type ShipmentProvisioner interface {
	CreateShipmentFromOrder(ctx context.Context, p CreateShipmentParams) error
}

const RoleAdmin = "admin"

// has_role(user_id, role)
type RoleChecker interface {
	HasRole(ctx context.Context, userID string, role string) (bool, error)
}

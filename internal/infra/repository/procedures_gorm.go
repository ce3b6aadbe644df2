package repository

import (
	"context"
	"encoding/json"
	"fmt"

	repo "swiftlogix/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// backendのSQL関数（RPC）をgorm経由で呼ぶ
type ProceduresGorm struct {
	db *gorm.DB
}

func NewProceduresGorm(db *gorm.DB) *ProceduresGorm {
	return &ProceduresGorm{db: db}
}

func (p *ProceduresGorm) VerifyTrackingNumber(ctx context.Context, trackingNumber string) (repo.VerifyTrackingResult, error) {
	var out repo.VerifyTrackingResult
	err := p.callJSON(ctx, &out,
		"SELECT verify_tracking_number(p_tracking_number => ?)",
		trackingNumber,
	)
	if err != nil {
		return repo.VerifyTrackingResult{}, fmt.Errorf("verify_tracking_number: %w", err)
	}
	return out, nil
}

func (p *ProceduresGorm) GetShipmentEvents(ctx context.Context, sessionToken string) (repo.ShipmentEventsResult, error) {
	var out repo.ShipmentEventsResult
	err := p.callJSON(ctx, &out,
		"SELECT get_shipment_events(p_session_token => ?)",
		sessionToken,
	)
	if err != nil {
		return repo.ShipmentEventsResult{}, fmt.Errorf("get_shipment_events: %w", err)
	}
	return out, nil
}

func (p *ProceduresGorm) CreateShipmentFromOrder(ctx context.Context, in repo.CreateShipmentParams) error {
	err := p.db.WithContext(ctx).Exec(
		`SELECT create_shipment_from_order(
			p_order_number => ?,
			p_origin_city => ?,
			p_origin_country => ?,
			p_destination_city => ?,
			p_destination_country => ?,
			p_sender_name => ?,
			p_recipient_name => ?,
			p_weight_kg => ?,
			p_shipping_method => ?
		)`,
		in.OrderNumber,
		in.OriginCity,
		in.OriginCountry,
		in.DestinationCity,
		in.DestinationCountry,
		in.SenderName,
		in.RecipientName,
		in.WeightKg,
		in.ShippingMethod,
	).Error
	if err != nil {
		return fmt.Errorf("create_shipment_from_order: %w", err)
	}
	return nil
}

func (p *ProceduresGorm) HasRole(ctx context.Context, userID string, role string) (bool, error) {
	var ok bool
	row := p.db.WithContext(ctx).Raw(
		"SELECT has_role(_user_id => ?::uuid, _role => ?::app_role)",
		userID, role,
	).Row()
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("has_role: %w", err)
	}
	return ok, nil
}

// jsonbを返すRPCを1行読んでdstにデコードする
func (p *ProceduresGorm) callJSON(ctx context.Context, dst any, query string, args ...any) error {
	var raw datatypes.JSON
	row := p.db.WithContext(ctx).Raw(query, args...).Row()
	if err := row.Scan(&raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty result")
	}
	return json.Unmarshal(raw, dst)
}

var (
	_ repo.TrackingProcedures  = (*ProceduresGorm)(nil)
	_ repo.ShipmentProvisioner = (*ProceduresGorm)(nil)
	_ repo.RoleChecker         = (*ProceduresGorm)(nil)
)

package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/domain/quote"
	repo "swiftlogix/internal/repository"

	"github.com/google/uuid"
)

const (
	msgShipmentNotFound = "No shipment found with this tracking number"
	msgInvalidSession   = "Invalid or expired session"
)

// verify_tracking_number：見つかればshipmentと短命のsession tokenを返す
func (b *Backend) VerifyTrackingNumber(ctx context.Context, trackingNumber string) (repo.VerifyTrackingResult, error) {
	if err := ctx.Err(); err != nil {
		return repo.VerifyTrackingResult{}, err
	}
	number := strings.ToUpper(strings.TrimSpace(trackingNumber))

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.shipments {
		if s.TrackingNumber != number {
			continue
		}
		token := uuid.NewString()
		b.tokens[token] = trackingToken{shipmentID: s.ID, expiresAt: b.clock().Add(b.tokenTTL)}
		found := s
		return repo.VerifyTrackingResult{Success: true, SessionToken: token, Shipment: &found}, nil
	}
	return repo.VerifyTrackingResult{Success: false, Error: msgShipmentNotFound}, nil
}

// get_shipment_events：tokenが生きていればeventsを古い順で返す
func (b *Backend) GetShipmentEvents(ctx context.Context, sessionToken string) (repo.ShipmentEventsResult, error) {
	if err := ctx.Err(); err != nil {
		return repo.ShipmentEventsResult{}, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	tok, ok := b.tokens[sessionToken]
	if !ok || b.clock().After(tok.expiresAt) {
		return repo.ShipmentEventsResult{Success: false, Error: msgInvalidSession}, nil
	}
	return repo.ShipmentEventsResult{Success: true, Events: sortedEvents(b.events[tok.shipmentID])}, nil
}

// create_shipment_from_order：pendingのshipmentと最初のeventを作る
func (b *Backend) CreateShipmentFromOrder(ctx context.Context, p repo.CreateShipmentParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.txMu.Lock()
	defer b.txMu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()
	number, err := b.nextTrackingNumber(now)
	if err != nil {
		return err
	}

	days := 5
	if m, ok := quote.LookupMethod(p.ShippingMethod); ok {
		days = m.MaxDays
	}
	eta := now.Add(time.Duration(days) * 24 * time.Hour)
	weight := p.WeightKg

	s := model.Shipment{
		ID:                 uuid.NewString(),
		TrackingNumber:     number,
		Status:             model.ShipmentStatusPending,
		OriginCity:         p.OriginCity,
		OriginCountry:      p.OriginCountry,
		DestinationCity:    p.DestinationCity,
		DestinationCountry: p.DestinationCountry,
		SenderName:         nonEmpty(p.SenderName),
		RecipientName:      nonEmpty(p.RecipientName),
		WeightKg:           &weight,
		EstimatedDelivery:  &eta,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	b.shipments[s.ID] = s

	desc := "Order " + p.OrderNumber + " received"
	b.events[s.ID] = append(b.events[s.ID], model.ShipmentEvent{
		ID:          uuid.NewString(),
		ShipmentID:  s.ID,
		Status:      model.ShipmentStatusPending,
		Location:    p.OriginCity + ", " + p.OriginCountry,
		Description: &desc,
		OccurredAt:  now,
		CreatedAt:   now,
	})
	return nil
}

// has_role
func (b *Backend) HasRole(ctx context.Context, userID string, role string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.roles[userID][role], nil
}

// SWL-YYYY-MMDD-NNNN。muを持った状態で呼ぶ
func (b *Backend) nextTrackingNumber(now time.Time) (string, error) {
	prefix := "SWL-" + now.UTC().Format("2006-0102")
	for i := 0; i < 20; i++ {
		n := fmt.Sprintf("%s-%d", prefix, 1000+b.intn(9000))
		if !b.trackingNumberTaken(n) {
			return n, nil
		}
	}
	return "", fmt.Errorf("tracking number space exhausted for %s", prefix)
}

func (b *Backend) trackingNumberTaken(n string) bool {
	for _, s := range b.shipments {
		if s.TrackingNumber == n {
			return true
		}
	}
	return false
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var (
	_ repo.TrackingProcedures  = (*Backend)(nil)
	_ repo.ShipmentProvisioner = (*Backend)(nil)
	_ repo.RoleChecker         = (*Backend)(nil)
	_ repo.TransactionManager  = (*Backend)(nil)
)

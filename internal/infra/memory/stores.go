package memory

import (
	"context"
	"sort"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"github.com/google/uuid"
)

// =====================
// shipping_orders
// =====================

type orderStore struct{ b *Backend }

func (s orderStore) Create(ctx context.Context, o model.ShippingOrder) (model.ShippingOrder, error) {
	if err := ctx.Err(); err != nil {
		return model.ShippingOrder{}, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for _, existing := range s.b.orders {
		if existing.OrderNumber == o.OrderNumber {
			return model.ShippingOrder{}, repo.ErrConflict
		}
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = s.b.clock()
	s.b.orders = append(s.b.orders, o)
	return o, nil
}

func (s orderStore) ListByUserID(ctx context.Context, userID string) ([]model.ShippingOrder, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	out := []model.ShippingOrder{}
	for _, o := range s.b.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// =====================
// shipments
// =====================

type shipmentStore struct {
	b  *Backend
	tx *txState
}

func (s shipmentStore) List(ctx context.Context) ([]model.Shipment, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	out := make([]model.Shipment, 0, len(s.b.shipments))
	for _, sh := range s.b.shipments {
		out = append(out, sh)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s shipmentStore) FindByID(ctx context.Context, shipmentID string) (model.Shipment, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	sh, ok := s.b.shipments[shipmentID]
	if !ok {
		return model.Shipment{}, repo.ErrNotFound
	}
	return sh, nil
}

func (s shipmentStore) UpdateStatus(ctx context.Context, shipmentID string, status model.ShipmentStatus) error {
	return s.b.write(ctx, s.tx, func(emit func(model.ShipmentChange)) error {
		sh, ok := s.b.shipments[shipmentID]
		if !ok {
			return repo.ErrNotFound
		}
		now := s.b.clock()
		sh.Status = status
		sh.UpdatedAt = now
		if status == model.ShipmentStatusDelivered && sh.ActualDelivery == nil {
			sh.ActualDelivery = &now
		}
		s.b.shipments[shipmentID] = sh

		cp := sh
		emit(model.ShipmentChange{Table: "shipments", Type: model.ChangeUpdate, Shipment: &cp})
		return nil
	})
}

// =====================
// shipment_events
// =====================

type eventStore struct {
	b  *Backend
	tx *txState
}

func (s eventStore) Create(ctx context.Context, ev model.ShipmentEvent) (model.ShipmentEvent, error) {
	err := s.b.write(ctx, s.tx, func(emit func(model.ShipmentChange)) error {
		if _, ok := s.b.shipments[ev.ShipmentID]; !ok {
			return repo.ErrNotFound
		}
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		ev.CreatedAt = s.b.clock()
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = ev.CreatedAt
		}
		s.b.events[ev.ShipmentID] = append(s.b.events[ev.ShipmentID], ev)

		cp := ev
		emit(model.ShipmentChange{Table: "shipment_events", Type: model.ChangeInsert, Event: &cp})
		return nil
	})
	if err != nil {
		return model.ShipmentEvent{}, err
	}
	return ev, nil
}

func (s eventStore) ListByShipmentID(ctx context.Context, shipmentID string) ([]model.ShipmentEvent, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	return sortedEvents(s.b.events[shipmentID]), nil
}

func sortedEvents(in []model.ShipmentEvent) []model.ShipmentEvent {
	out := append([]model.ShipmentEvent{}, in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out
}

// =====================
// audit_logs
// =====================

type auditStore struct {
	b  *Backend
	tx *txState
}

func (s auditStore) Create(ctx context.Context, log model.AuditLog) error {
	return s.b.write(ctx, s.tx, func(func(model.ShipmentChange)) error {
		s.b.nextAuditID++
		log.ID = s.b.nextAuditID
		if log.CreatedAt.IsZero() {
			log.CreatedAt = s.b.clock()
		}
		s.b.audit = append(s.b.audit, log)
		return nil
	})
}

func (s auditStore) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	out := []model.AuditLog{}
	//新しい順
	for i := len(s.b.audit) - 1; i >= 0; i-- {
		l := s.b.audit[i]
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		out = append(out, l)
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.AuditLog{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

// =====================
// chat_messages / contact_submissions
// =====================

type chatStore struct{ b *Backend }

func (s chatStore) Create(ctx context.Context, m model.ChatMessage) (model.ChatMessage, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = s.b.clock()
	s.b.chats[m.SessionID] = append(s.b.chats[m.SessionID], m)
	return m, nil
}

func (s chatStore) ListBySessionID(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	return append([]model.ChatMessage{}, s.b.chats[sessionID]...), nil
}

type contactStore struct{ b *Backend }

func (s contactStore) Create(ctx context.Context, c model.ContactSubmission) (model.ContactSubmission, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.b.clock()
	s.b.contacts = append(s.b.contacts, c)
	return c, nil
}

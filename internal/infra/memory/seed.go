package memory

import (
	"time"

	"swiftlogix/internal/domain/model"

	"github.com/google/uuid"
)

type seedEvent struct {
	status   model.ShipmentStatus
	location string
	desc     string
	ago      time.Duration
}

type seedShipment struct {
	number        string
	status        model.ShipmentStatus
	from, fromCC  string
	to, toCC      string
	sender, recip string
	weight        float64
	age           time.Duration
	etaIn         time.Duration
	events        []seedEvent
}

var demoShipments = []seedShipment{
	{
		number: "SWL-2026-0118-7890", status: model.ShipmentStatusInTransit,
		from: "Lagos", fromCC: "Nigeria", to: "Rotterdam", toCC: "Netherlands",
		sender: "Adeyemi Textiles", recip: "Van Dijk Imports", weight: 42.5,
		age: 72 * time.Hour, etaIn: 48 * time.Hour,
		events: []seedEvent{
			{model.ShipmentStatusPending, "Lagos, Nigeria", "Order received", 72 * time.Hour},
			{model.ShipmentStatusPickedUp, "Lagos, Nigeria", "Picked up from sender", 60 * time.Hour},
			{model.ShipmentStatusInTransit, "Murtala Muhammed Airport, Lagos", "Departed origin facility", 30 * time.Hour},
		},
	},
	{
		number: "SWL-2026-0115-4521", status: model.ShipmentStatusDelivered,
		from: "Shenzhen", fromCC: "China", to: "Nairobi", toCC: "Kenya",
		sender: "Pearl River Electronics", recip: "Kamau Retail", weight: 12,
		age: 9 * 24 * time.Hour, etaIn: -2 * 24 * time.Hour,
		events: []seedEvent{
			{model.ShipmentStatusPending, "Shenzhen, China", "Order received", 9 * 24 * time.Hour},
			{model.ShipmentStatusInTransit, "Hong Kong International Airport", "In transit", 7 * 24 * time.Hour},
			{model.ShipmentStatusOutForDelivery, "Nairobi, Kenya", "Out for delivery", 3 * 24 * time.Hour},
			{model.ShipmentStatusDelivered, "Nairobi, Kenya", "Delivered to recipient", 2 * 24 * time.Hour},
		},
	},
	{
		number: "SWL-2026-0120-1003", status: model.ShipmentStatusPending,
		from: "Hamburg", fromCC: "Germany", to: "Accra", toCC: "Ghana",
		sender: "Nord Maschinenbau", recip: "Mensah Engineering", weight: 310,
		age: 6 * time.Hour, etaIn: 30 * 24 * time.Hour,
		events: []seedEvent{
			{model.ShipmentStatusPending, "Hamburg, Germany", "Order received", 6 * time.Hour},
		},
	},
}

// ローカル起動用のデモデータ
func (b *Backend) Seed() {
	b.txMu.Lock()
	defer b.txMu.Unlock()
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()
	for _, d := range demoShipments {
		if b.trackingNumberTaken(d.number) {
			continue
		}
		eta := now.Add(d.etaIn)
		weight := d.weight
		s := model.Shipment{
			ID:                 uuid.NewString(),
			TrackingNumber:     d.number,
			Status:             d.status,
			OriginCity:         d.from,
			OriginCountry:      d.fromCC,
			DestinationCity:    d.to,
			DestinationCountry: d.toCC,
			SenderName:         nonEmpty(d.sender),
			RecipientName:      nonEmpty(d.recip),
			WeightKg:           &weight,
			EstimatedDelivery:  &eta,
			CreatedAt:          now.Add(-d.age),
			UpdatedAt:          now,
		}
		if d.status == model.ShipmentStatusDelivered {
			delivered := now.Add(d.events[len(d.events)-1].ago * -1)
			s.ActualDelivery = &delivered
		}
		b.shipments[s.ID] = s

		for _, e := range d.events {
			desc := e.desc
			at := now.Add(-e.ago)
			b.events[s.ID] = append(b.events[s.ID], model.ShipmentEvent{
				ID:          uuid.NewString(),
				ShipmentID:  s.ID,
				Status:      e.status,
				Location:    e.location,
				Description: &desc,
				OccurredAt:  at,
				CreatedAt:   at,
			})
		}
	}
}

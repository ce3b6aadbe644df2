package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
)

// shipment単位のrealtime購読。使い終わったら必ずCloseする
type Subscription interface {
	Changes() <-chan model.ShipmentChange
	Close() error
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, shipmentID string) (Subscription, error)
}

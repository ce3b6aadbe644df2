package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
)

type ShipmentRepository interface {
	//管理画面の一覧（新しい順）
	List(ctx context.Context) ([]model.Shipment, error)
	FindByID(ctx context.Context, shipmentID string) (model.Shipment, error)
	UpdateStatus(ctx context.Context, shipmentID string, status model.ShipmentStatus) error
}

// 追記のみ。削除・更新はしない
type ShipmentEventRepository interface {
	Create(ctx context.Context, event model.ShipmentEvent) (model.ShipmentEvent, error)
	//occurred_atの古い順
	ListByShipmentID(ctx context.Context, shipmentID string) ([]model.ShipmentEvent, error)
}

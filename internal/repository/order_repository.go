package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
)

type ShippingOrderRepository interface {
	//発送依頼を保存する。IDと作成日時はbackendが埋める
	Create(ctx context.Context, order model.ShippingOrder) (model.ShippingOrder, error)
	//ダッシュボード用：自分の依頼を新しい順
	ListByUserID(ctx context.Context, userID string) ([]model.ShippingOrder, error)
}

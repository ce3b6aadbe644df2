package repository

import (
	"context"
	"errors"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"gorm.io/gorm"
)

type ShippingOrderGormRepository struct {
	db *gorm.DB
}

func NewShippingOrderGormRepository(db *gorm.DB) *ShippingOrderGormRepository {
	return &ShippingOrderGormRepository{db: db}
}

func (r *ShippingOrderGormRepository) Create(ctx context.Context, order model.ShippingOrder) (model.ShippingOrder, error) {
	//id / created_atはDBのdefault
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ShippingOrder{}, repo.ErrConflict
		}
		return model.ShippingOrder{}, err
	}
	return order, nil
}

func (r *ShippingOrderGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.ShippingOrder, error) {
	var items []model.ShippingOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.ShippingOrder{}, err
	}
	return items, nil
}

var _ repo.ShippingOrderRepository = (*ShippingOrderGormRepository)(nil)

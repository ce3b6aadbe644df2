package repository

import (
	"context"
	"errors"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"gorm.io/gorm"
)

type ShipmentGormRepository struct {
	db *gorm.DB
}

func NewShipmentGormRepository(db *gorm.DB) *ShipmentGormRepository {
	return &ShipmentGormRepository{db: db}
}

func (r *ShipmentGormRepository) List(ctx context.Context) ([]model.Shipment, error) {
	var items []model.Shipment
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&items).Error; err != nil {
		return []model.Shipment{}, err
	}
	return items, nil
}

func (r *ShipmentGormRepository) FindByID(ctx context.Context, shipmentID string) (model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).Where("id = ?", shipmentID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}

func (r *ShipmentGormRepository) UpdateStatus(ctx context.Context, shipmentID string, status model.ShipmentStatus) error {
	//updated_atはgormが入れる
	res := r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where("id = ?", shipmentID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type ShipmentEventGormRepository struct {
	db *gorm.DB
}

func NewShipmentEventGormRepository(db *gorm.DB) *ShipmentEventGormRepository {
	return &ShipmentEventGormRepository{db: db}
}

func (r *ShipmentEventGormRepository) Create(ctx context.Context, event model.ShipmentEvent) (model.ShipmentEvent, error) {
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return model.ShipmentEvent{}, err
	}
	return event, nil
}

func (r *ShipmentEventGormRepository) ListByShipmentID(ctx context.Context, shipmentID string) ([]model.ShipmentEvent, error) {
	var items []model.ShipmentEvent
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at asc").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.ShipmentEvent{}, err
	}
	return items, nil
}

var (
	_ repo.ShipmentRepository      = (*ShipmentGormRepository)(nil)
	_ repo.ShipmentEventRepository = (*ShipmentEventGormRepository)(nil)
)

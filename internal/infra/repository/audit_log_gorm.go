package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

// 管理画面の操作履歴（新しい順）
func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := applyAuditFilter(r.db.WithContext(ctx).Model(&model.AuditLog{}), filter)

	limit := filter.Limit
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var logs []model.AuditLog
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func applyAuditFilter(q *gorm.DB, f repo.AuditLogFilter) *gorm.DB {
	if f.ActorUserID != nil {
		q = q.Where("actor_user_id = ?", *f.ActorUserID)
	}
	if f.Action != nil {
		q = q.Where("action = ?", *f.Action)
	}
	if f.ResourceType != nil {
		q = q.Where("resource_type = ?", *f.ResourceType)
	}
	if f.ResourceID != nil {
		q = q.Where("resource_id = ?", *f.ResourceID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	return q
}

package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"gorm.io/gorm"
)

type ChatMessageGormRepository struct {
	db *gorm.DB
}

func NewChatMessageGormRepository(db *gorm.DB) *ChatMessageGormRepository {
	return &ChatMessageGormRepository{db: db}
}

func (r *ChatMessageGormRepository) Create(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return model.ChatMessage{}, err
	}
	return msg, nil
}

func (r *ChatMessageGormRepository) ListBySessionID(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	var items []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return []model.ChatMessage{}, err
	}
	return items, nil
}

type ContactGormRepository struct {
	db *gorm.DB
}

func NewContactGormRepository(db *gorm.DB) *ContactGormRepository {
	return &ContactGormRepository{db: db}
}

func (r *ContactGormRepository) Create(ctx context.Context, c model.ContactSubmission) (model.ContactSubmission, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.ContactSubmission{}, err
	}
	return c, nil
}

var (
	_ repo.ChatMessageRepository = (*ChatMessageGormRepository)(nil)
	_ repo.ContactRepository     = (*ContactGormRepository)(nil)
)

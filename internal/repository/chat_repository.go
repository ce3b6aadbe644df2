package repository

import (
	"context"

	"swiftlogix/internal/domain/model"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error)
	//created_atの古い順
	ListBySessionID(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
}

type ContactRepository interface {
	Create(ctx context.Context, c model.ContactSubmission) (model.ContactSubmission, error)
}

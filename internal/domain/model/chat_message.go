package model

import "time"

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// チャットの発言。session_id単位で追記される。
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SessionID string    `gorm:"type:varchar(64);not null;index" json:"session_id"`
	Role      ChatRole  `gorm:"type:varchar(20);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

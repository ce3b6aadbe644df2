package model

import "time"

// 配送の履歴（追記のみ）。occurred_atで並ぶ。
type ShipmentEvent struct {
	ID          string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ShipmentID  string         `gorm:"type:uuid;not null;index" json:"shipment_id"`
	Status      ShipmentStatus `gorm:"type:varchar(30);not null" json:"status"`
	Location    string         `gorm:"type:varchar(255);not null" json:"location"`
	Description *string        `gorm:"type:text" json:"description"`
	OccurredAt  time.Time      `gorm:"not null;index" json:"occurred_at"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ShipmentEvent) TableName() string { return "shipment_events" }

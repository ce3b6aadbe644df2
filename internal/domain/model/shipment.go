package model

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending        ShipmentStatus = "pending"
	ShipmentStatusProcessing     ShipmentStatus = "processing"
	ShipmentStatusPickedUp       ShipmentStatus = "picked_up"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
)

// 管理画面から設定できるステータス（表示順）
var ShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPending,
	ShipmentStatusProcessing,
	ShipmentStatusPickedUp,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
}

func (s ShipmentStatus) Valid() bool {
	for _, v := range ShipmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// 追跡番号で引ける配送
type Shipment struct {
	ID                 string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TrackingNumber     string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"tracking_number"`
	Status             ShipmentStatus `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	OriginCity         string         `gorm:"type:varchar(120);not null" json:"origin_city"`
	OriginCountry      string         `gorm:"type:varchar(120);not null" json:"origin_country"`
	DestinationCity    string         `gorm:"type:varchar(120);not null" json:"destination_city"`
	DestinationCountry string         `gorm:"type:varchar(120);not null" json:"destination_country"`
	SenderName         *string        `gorm:"type:varchar(255)" json:"sender_name"`
	RecipientName      *string        `gorm:"type:varchar(255)" json:"recipient_name"`
	WeightKg           *float64       `json:"weight_kg"`
	EstimatedDelivery  *time.Time     `json:"estimated_delivery"`
	ActualDelivery     *time.Time     `json:"actual_delivery"`
	CreatedAt          time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Shipment) TableName() string { return "shipments" }

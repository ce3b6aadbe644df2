package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 発送依頼（Ship Nowフォームから作られる）
type ShippingOrder struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_number"`

	//差出人
	OriginName    string `gorm:"type:varchar(255);not null" json:"origin_name"`
	OriginAddress string `gorm:"type:varchar(255);not null" json:"origin_address"`
	OriginCity    string `gorm:"type:varchar(120);not null" json:"origin_city"`
	OriginCountry string `gorm:"type:varchar(120);not null" json:"origin_country"`
	OriginPhone   string `gorm:"type:varchar(40);not null" json:"origin_phone"`
	OriginEmail   string `gorm:"type:varchar(255);not null" json:"origin_email"`

	//受取人
	DestinationName    string  `gorm:"type:varchar(255);not null" json:"destination_name"`
	DestinationAddress string  `gorm:"type:varchar(255);not null" json:"destination_address"`
	DestinationCity    string  `gorm:"type:varchar(120);not null" json:"destination_city"`
	DestinationCountry string  `gorm:"type:varchar(120);not null" json:"destination_country"`
	DestinationPhone   string  `gorm:"type:varchar(40);not null" json:"destination_phone"`
	DestinationEmail   *string `gorm:"type:varchar(255)" json:"destination_email"`

	//荷物（kg / cm）
	WeightKg           float64          `gorm:"not null" json:"weight_kg"`
	LengthCm           *float64         `json:"length_cm"`
	WidthCm            *float64         `json:"width_cm"`
	HeightCm           *float64         `json:"height_cm"`
	PackageDescription *string          `gorm:"type:text" json:"package_description"`
	DeclaredValue      *decimal.Decimal `gorm:"type:numeric(12,2)" json:"declared_value"`

	ShippingMethod    string          `gorm:"type:varchar(20);not null" json:"shipping_method"`
	InsuranceIncluded bool            `gorm:"not null;default:false" json:"insurance_included"`
	QuotedPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quoted_price"`

	//ブラウザ単位の訪問者トークン
	SessionID string `gorm:"type:varchar(64);not null" json:"-"`
	//ログインしていない場合はnil
	UserID *string `gorm:"type:uuid;index" json:"user_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ShippingOrder) TableName() string { return "shipping_orders" }

package model

import "time"

// お問い合わせフォーム
type ContactSubmission struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Company   *string   `gorm:"type:varchar(255)" json:"company"`
	Phone     *string   `gorm:"type:varchar(40)" json:"phone"`
	Service   *string   `gorm:"type:varchar(60)" json:"service"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }

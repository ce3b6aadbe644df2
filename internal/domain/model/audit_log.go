package model

import "time"

// 管理者が何をしたか
type AuditAction string

const (
	//配送ステータスを直接更新した操作。
	AuditActionUpdateShipmentStatus AuditAction = "UPDATE_SHIPMENT_STATUS"
	//追跡イベントを追加した操作。
	AuditActionAppendShipmentEvent AuditAction = "APPEND_SHIPMENT_EVENT"
	//管理者が代理で発送依頼を作った操作。
	AuditActionCreateOrder AuditAction = "CREATE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceShipment AuditResourceType = "shipment"
	AuditResourceOrder    AuditResourceType = "shipping_order"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者（authのuser id）
	ActorUserID string `gorm:"type:uuid;not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID（uuid）
	ResourceID string `gorm:"type:varchar(64);not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

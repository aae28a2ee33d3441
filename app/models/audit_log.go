package models

import "time"

// AuditLog records one ledger-affecting change. Entries are append-only and
// written in the same transaction as the change they describe.
type AuditLog struct {
	ID        string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Entity    string      `json:"entity" gorm:"not null;index"`
	EntityID  string      `json:"entity_id" gorm:"not null;index"`
	Action    AuditAction `json:"action" gorm:"not null;type:varchar(10)"`
	Details   string      `json:"details" gorm:"type:jsonb"` // JSON payload describing the change
	ActorID   string      `json:"actor_id" gorm:"not null;index"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

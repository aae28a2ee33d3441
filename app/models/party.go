package models

import "time"

// Party represents a customer or vendor the company trades with.
type Party struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name      string     `json:"name" gorm:"not null;index" validate:"required"`
	Kind      PartyKind  `json:"kind" gorm:"not null;type:varchar(20)" validate:"required"`
	GSTIN     string     `json:"gstin,omitempty" gorm:"type:varchar(20)"`
	Address   string     `json:"address,omitempty"`
	Phone     string     `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Email     string     `json:"email,omitempty"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GatePass records material crossing the gate: INWARD for receipts against a
// purchase order, OUTWARD for dispatches consuming the received balance.
type GatePass struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	PassNumber  string          `json:"pass_number" gorm:"not null;uniqueIndex" validate:"required"`
	Type        GatePassType    `json:"type" gorm:"not null;index;type:varchar(10)" validate:"required"`
	PartyID     string          `json:"party_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	POID        *string         `json:"po_id,omitempty" gorm:"index;type:uuid"`
	ItemDesc    string          `json:"item_desc" gorm:"not null" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"not null;type:numeric(12,3)" validate:"required"`
	PassDate    time.Time       `json:"pass_date" gorm:"not null;index" validate:"required"`
	VehicleNo   string          `json:"vehicle_no,omitempty" gorm:"type:varchar(20)"`
	ChallanNo   string          `json:"challan_no,omitempty"`
	Remarks     string          `json:"remarks,omitempty"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Party *Party         `json:"party,omitempty" gorm:"foreignKey:PartyID;references:ID"`
	PO    *PurchaseOrder `json:"po,omitempty" gorm:"foreignKey:POID;references:ID"`
}

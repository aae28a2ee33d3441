package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a single payment applied to an invoice. Payments are
// created exactly once per successful match and never edited afterwards.
type Payment struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceID   string          `json:"invoice_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" gorm:"not null;type:numeric(14,2)" validate:"required"`
	PaymentDate time.Time       `json:"payment_date" gorm:"not null;index" validate:"required"`
	Mode        PaymentMode     `json:"mode" gorm:"not null;type:varchar(10)" validate:"required"`
	Reference   string          `json:"reference,omitempty" gorm:"index"`
	Status      PaymentStatus   `json:"status" gorm:"not null;default:'RECEIVED';type:varchar(20)"`
	Remarks     string          `json:"remarks,omitempty"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`

	Invoice *Invoice `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
}

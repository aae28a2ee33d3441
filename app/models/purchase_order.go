package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder tracks an order placed by a customer and the quantity
// received against it so far. Receipt follows the running-balance pattern:
// validate against BalanceQty, increment ReceivedQty, recompute Status.
type PurchaseOrder struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	PONumber    string          `json:"po_number" gorm:"not null;uniqueIndex" validate:"required"`
	PartyID     string          `json:"party_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PODate      time.Time       `json:"po_date" gorm:"not null" validate:"required"`
	Description string          `json:"description,omitempty"`
	TotalQty    decimal.Decimal `json:"total_qty" gorm:"not null;type:numeric(12,3)" validate:"required"`
	ReceivedQty decimal.Decimal `json:"received_qty" gorm:"type:numeric(12,3);default:0"`
	BalanceQty  decimal.Decimal `json:"balance_qty" gorm:"type:numeric(12,3);default:0"`
	UnitRate    decimal.Decimal `json:"unit_rate" gorm:"type:numeric(14,2);default:0"`
	Status      POStatus        `json:"status" gorm:"not null;default:'OPEN';index;type:varchar(10)"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Party *Party `json:"party,omitempty" gorm:"foreignKey:PartyID;references:ID"`
}

// AfterReceipt returns the received quantity, balance and status the PO must
// carry once qty has been received against it.
func (po *PurchaseOrder) AfterReceipt(qty decimal.Decimal) (received, balance decimal.Decimal, status POStatus) {
	received = po.ReceivedQty.Add(qty)
	balance = po.TotalQty.Sub(received)
	switch {
	case balance.Sign() <= 0:
		status = POClosed
	case received.Sign() > 0:
		status = POPartial
	default:
		status = POOpen
	}
	return received, balance, status
}

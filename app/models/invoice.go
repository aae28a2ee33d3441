package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a sales invoice raised against a party.
type Invoice struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceNumber string          `json:"invoice_number" gorm:"not null;uniqueIndex" validate:"required"`
	PartyID       string          `json:"party_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	PONumber      string          `json:"po_number,omitempty"`
	InvoiceDate   time.Time       `json:"invoice_date" gorm:"not null;index" validate:"required"`
	DueDate       *time.Time      `json:"due_date,omitempty" gorm:"type:date"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"not null;type:numeric(14,2)" validate:"required"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"type:numeric(14,2);default:0"`
	BalanceDue    decimal.Decimal `json:"balance_due" gorm:"type:numeric(14,2);default:0"`
	Status        InvoiceStatus   `json:"status" gorm:"not null;default:'DRAFT';index;type:varchar(20)"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Party    *Party     `json:"party,omitempty" gorm:"foreignKey:PartyID;references:ID"`
	Payments []*Payment `json:"payments,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
}

// AfterPayment returns the paid amount, balance due and status the invoice
// must carry once amount has been applied. Every ledger mutation, automatic
// or manual, goes through this rule so paid/balance/status never drift apart.
func (inv *Invoice) AfterPayment(amount decimal.Decimal) (paid, balance decimal.Decimal, status InvoiceStatus) {
	paid = inv.PaidAmount.Add(amount)
	balance = inv.TotalAmount.Sub(paid)
	status = inv.Status
	if balance.Sign() <= 0 {
		status = InvoicePaid
	} else if paid.Sign() > 0 {
		status = InvoicePartiallyPaid
	}
	return paid, balance, status
}

// IsSettled returns true once nothing remains due on the invoice.
func (inv *Invoice) IsSettled() bool {
	return inv.BalanceDue.Sign() <= 0
}

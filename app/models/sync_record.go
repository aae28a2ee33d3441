package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSyncRecord is the persisted receipt for one row of the external
// bank payment feed. One record is created per ingested row regardless of
// match outcome, so the table doubles as the reconciliation audit trail.
//
// Status rules: MATCHED records carry both InvoiceID and PaymentID;
// UNMATCHED and IGNORED records carry neither; ERROR records hold the raw
// values of rows that failed normalization.
type PaymentSyncRecord struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	InvoiceNumber string          `json:"invoice_number" gorm:"index"` // as received, not validated
	NetAmount     decimal.Decimal `json:"net_amount" gorm:"type:numeric(14,2);default:0"`
	GrossAmount   decimal.Decimal `json:"gross_amount" gorm:"type:numeric(14,2);default:0"`
	DiffPercent   decimal.Decimal `json:"diff_percent" gorm:"type:numeric(7,4);default:0"`
	UTRNumber     string          `json:"utr_number" gorm:"index"`
	UTRTotal      decimal.Decimal `json:"utr_total" gorm:"type:numeric(14,2);default:0"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Division      string          `json:"division,omitempty"`
	PONumber      string          `json:"po_number,omitempty"`
	Confidence    string          `json:"confidence,omitempty"`
	MailLink      string          `json:"mail_link,omitempty"`
	Status        SyncStatus      `json:"status" gorm:"not null;default:'UNMATCHED';index;type:varchar(20)"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	InvoiceID     *string         `json:"invoice_id,omitempty" gorm:"index;type:uuid"`
	PaymentID     *string         `json:"payment_id,omitempty" gorm:"index;type:uuid"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	Invoice *Invoice `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID;references:ID"`
	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:PaymentID;references:ID"`
}

// IsResolved reports whether the record has left the review queue.
func (r *PaymentSyncRecord) IsResolved() bool {
	return r.Status == SyncMatched || r.Status == SyncIgnored
}

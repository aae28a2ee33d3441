package paymentsync

import (
	"errors"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/shopspring/decimal"
)

var (
	ErrSyncRecordNotFound = errors.New("sync record not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrAlreadyMatched     = errors.New("sync record already matched")
	ErrInvalidAmount      = errors.New("sync record has no positive net amount")
)

// PaymentApplication carries everything the store needs to apply one payment
// to an invoice: the invoice update, the payment row, the sync record flip to
// MATCHED and the audit entry all commit in a single transaction.
type PaymentApplication struct {
	InvoiceID    string
	SyncRecordID string
	Amount       decimal.Decimal
	PaymentDate  time.Time
	UTR          string
	Remarks      string
	Actor        string
	PriorStatus  models.SyncStatus
}

// Store is the persistence boundary of the matching engine. The production
// implementation lives in app/database; tests supply an in-memory fake.
type Store interface {
	// FindInvoiceByNumber looks up an invoice by number, case-insensitively.
	// Returns ErrInvoiceNotFound when no invoice carries the number.
	FindInvoiceByNumber(number string) (*models.Invoice, error)

	// GetInvoiceByID returns ErrInvoiceNotFound when the id is unknown.
	GetInvoiceByID(id string) (*models.Invoice, error)

	// SearchInvoices matches query as a case-insensitive substring of the
	// invoice number or the party name.
	SearchInvoices(query string, limit int) ([]*models.Invoice, error)

	// CreateSyncRecord persists a new sync record and fills in its ID.
	CreateSyncRecord(rec *models.PaymentSyncRecord) error

	// GetSyncRecord returns ErrSyncRecordNotFound when the id is unknown.
	GetSyncRecord(id string) (*models.PaymentSyncRecord, error)

	// MarkIgnored sets the record's status to IGNORED and writes the audit
	// entry for the dismissal.
	MarkIgnored(id, actor string) error

	// HasDuplicatePayment reports whether a payment with the same invoice,
	// bank reference and amount already exists.
	HasDuplicatePayment(invoiceID, utr string, amount decimal.Decimal) (bool, error)

	// ApplyPayment runs the ledger update rule transactionally and returns
	// the id of the payment row it created.
	ApplyPayment(app PaymentApplication) (string, error)
}

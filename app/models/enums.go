package models

// InvoiceStatus defines the lifecycle states of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceSent          InvoiceStatus = "SENT"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

// PaymentMode defines how a payment was made.
type PaymentMode string

const (
	ModeNEFT   PaymentMode = "NEFT"
	ModeRTGS   PaymentMode = "RTGS"
	ModeCheque PaymentMode = "CHEQUE"
	ModeUPI    PaymentMode = "UPI"
	ModeCash   PaymentMode = "CASH"
)

// PaymentStatus defines the status of a payment.
type PaymentStatus string

const (
	PaymentReceived PaymentStatus = "RECEIVED"
)

// SyncStatus defines the reconciliation state of a payment sync record.
type SyncStatus string

const (
	SyncMatched   SyncStatus = "MATCHED"
	SyncUnmatched SyncStatus = "UNMATCHED"
	SyncError     SyncStatus = "ERROR"
	SyncIgnored   SyncStatus = "IGNORED"
)

// POStatus defines the fulfilment state of a purchase order.
type POStatus string

const (
	POOpen    POStatus = "OPEN"
	POPartial POStatus = "PARTIAL"
	POClosed  POStatus = "CLOSED"
)

// GatePassType distinguishes material receipt from dispatch.
type GatePassType string

const (
	GatePassInward  GatePassType = "INWARD"
	GatePassOutward GatePassType = "OUTWARD"
)

// PartyKind distinguishes customers from vendors.
type PartyKind string

const (
	PartyCustomer PartyKind = "CUSTOMER"
	PartyVendor   PartyKind = "VENDOR"
)

// AuditAction defines the kind of change an audit log entry records.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
)

// Sentinel actor identifiers used when a mutation was not performed by an
// interactive session.
const (
	ActorSystemSync   = "SYSTEM_SYNC"
	ActorAPIKeyUser   = "API_KEY_USER"
	ActorManualUpload = "MANUAL_UPLOAD"
)

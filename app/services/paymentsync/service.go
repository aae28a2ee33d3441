package paymentsync

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
)

// Service is the payment reconciliation engine. It matches incoming bank
// feed records to invoices by invoice number and applies matched payments to
// the invoice ledger. Both ingestion paths (feed endpoint and bulk upload)
// and the manual resolution workflow go through this service, so ledger
// effects are identical regardless of how a record arrived.
type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// ProcessBatch runs each record of the batch through the matching engine.
// Records are processed sequentially in input order so that two records for
// the same invoice compose deterministically. A failure on one record is
// counted and logged but never aborts the rest of the batch.
func (s *Service) ProcessBatch(records []PaymentRecord, actor string) BatchResult {
	result := BatchResult{Details: make([]RecordOutcome, 0, len(records))}

	for i, rec := range records {
		outcome := s.processRecord(rec, actor)
		switch outcome.Status {
		case "matched":
			result.Matched++
		case "unmatched":
			result.Unmatched++
		default:
			result.Errors++
			log.Printf("payment-sync: record %d (invoice %q, utr %q): %s",
				i, rec.InvoiceNumber, rec.UTRNumber, outcome.Message)
		}
		result.Details = append(result.Details, outcome)
	}

	log.Printf("payment-sync: batch complete: %d matched, %d unmatched, %d errors (actor %s)",
		result.Matched, result.Unmatched, result.Errors, actor)
	return result
}

// processRecord handles a single feed record end to end. The sync record is
// persisted before any ledger mutation so the table keeps a receipt for
// every row the feed ever delivered, whatever happens downstream.
func (s *Service) processRecord(rec PaymentRecord, actor string) RecordOutcome {
	outcome := RecordOutcome{
		InvoiceNumber: strings.TrimSpace(rec.InvoiceNumber),
		UTRNumber:     rec.UTRNumber,
	}

	number, date, err := rec.normalize()
	if err != nil {
		// Rows that fail normalization are stored in ERROR status so the
		// audit trail covers everything the feed sent.
		sync := rec.toSyncRecord(models.SyncError, nil)
		sync.ErrorMessage = err.Error()
		if cerr := s.store.CreateSyncRecord(sync); cerr != nil {
			log.Printf("payment-sync: persist error record: %v", cerr)
		} else {
			outcome.SyncRecordID = sync.ID
		}
		outcome.Status = "error"
		outcome.Message = err.Error()
		return outcome
	}

	invoice, err := s.store.FindInvoiceByNumber(number)
	if err != nil && err != ErrInvoiceNotFound {
		outcome.Status = "error"
		outcome.Message = fmt.Sprintf("invoice lookup: %v", err)
		return outcome
	}

	sync := rec.toSyncRecord(models.SyncUnmatched, &date)
	if cerr := s.store.CreateSyncRecord(sync); cerr != nil {
		outcome.Status = "error"
		outcome.Message = fmt.Sprintf("persist sync record: %v", cerr)
		return outcome
	}
	outcome.SyncRecordID = sync.ID

	if invoice == nil || err == ErrInvoiceNotFound {
		outcome.Status = "unmatched"
		outcome.Message = fmt.Sprintf("no invoice found for %q", number)
		return outcome
	}

	// At-least-once upstream delivery: an identical repeat must not hit the
	// ledger twice. The fresh sync record above stays as the auditable
	// second receipt and the operator can force it through manual match.
	dup, derr := s.store.HasDuplicatePayment(invoice.ID, rec.UTRNumber, rec.NetAmount)
	if derr != nil {
		outcome.Status = "error"
		outcome.Message = fmt.Sprintf("duplicate check: %v", derr)
		return outcome
	}
	if dup {
		outcome.Status = "unmatched"
		outcome.Message = fmt.Sprintf("duplicate of existing payment (UTR %s), left unmatched for review", rec.UTRNumber)
		return outcome
	}

	_, err = s.store.ApplyPayment(PaymentApplication{
		InvoiceID:    invoice.ID,
		SyncRecordID: sync.ID,
		Amount:       rec.NetAmount,
		PaymentDate:  date,
		UTR:          rec.UTRNumber,
		Remarks:      fmt.Sprintf("Auto-synced, UTR: %s", rec.UTRNumber),
		Actor:        actor,
		PriorStatus:  models.SyncUnmatched,
	})
	if err != nil {
		outcome.Status = "error"
		outcome.Message = fmt.Sprintf("apply payment: %v", err)
		return outcome
	}

	outcome.Status = "matched"
	return outcome
}

// ManualMatch binds an unmatched sync record to the chosen invoice and
// applies its payment through the same ledger update rule the engine uses.
func (s *Service) ManualMatch(syncID, invoiceID, actor string) error {
	rec, err := s.store.GetSyncRecord(syncID)
	if err != nil {
		return err
	}
	if rec.Status == models.SyncMatched {
		return ErrAlreadyMatched
	}

	invoice, err := s.store.GetInvoiceByID(invoiceID)
	if err != nil {
		return err
	}

	if rec.NetAmount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	date := time.Now()
	if rec.PaymentDate != nil {
		date = *rec.PaymentDate
	}

	_, err = s.store.ApplyPayment(PaymentApplication{
		InvoiceID:    invoice.ID,
		SyncRecordID: rec.ID,
		Amount:       rec.NetAmount,
		PaymentDate:  date,
		UTR:          rec.UTRNumber,
		Remarks:      fmt.Sprintf("Manually matched, UTR: %s", rec.UTRNumber),
		Actor:        actor,
		PriorStatus:  rec.Status,
	})
	return err
}

// Ignore dismisses a sync record from the review queue. Records that were
// already matched cannot be ignored.
func (s *Service) Ignore(syncID, actor string) error {
	rec, err := s.store.GetSyncRecord(syncID)
	if err != nil {
		return err
	}
	if rec.Status == models.SyncMatched {
		return ErrAlreadyMatched
	}
	return s.store.MarkIgnored(rec.ID, actor)
}

// SearchInvoices finds manual-match candidates. Queries under two characters
// return nothing to keep the search bounded.
func (s *Service) SearchInvoices(query string) ([]*models.Invoice, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []*models.Invoice{}, nil
	}
	return s.store.SearchInvoices(query, 20)
}

// toSyncRecord copies the feed row into a persistable sync record.
func (r PaymentRecord) toSyncRecord(status models.SyncStatus, date *time.Time) *models.PaymentSyncRecord {
	return &models.PaymentSyncRecord{
		InvoiceNumber: strings.TrimSpace(r.InvoiceNumber),
		NetAmount:     r.NetAmount,
		GrossAmount:   r.GrossAmount,
		DiffPercent:   r.DiffPercent,
		UTRNumber:     r.UTRNumber,
		UTRTotal:      r.UTRTotal,
		PaymentDate:   date,
		Division:      r.Division,
		PONumber:      r.PONumber,
		Confidence:    r.Confidence,
		MailLink:      r.MailLink,
		Status:        status,
	}
}

package database

import (
	"database/sql"
	"fmt"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/YashwanthPb/vyaparforge-sub001/app/services/paymentsync"
	"github.com/shopspring/decimal"
)

// SyncStore is the Postgres-backed persistence layer of the payment
// reconciliation engine.
type SyncStore struct {
	DB *sql.DB
}

func NewSyncStore(db *sql.DB) *SyncStore {
	return &SyncStore{DB: db}
}

// FindInvoiceByNumber matches the invoice number case-insensitively. The
// schema keeps LOWER(invoice_number) unique, but the ordering still makes
// the pick deterministic against legacy rows predating the index.
func (s *SyncStore) FindInvoiceByNumber(number string) (*models.Invoice, error) {
	query := `SELECT id, invoice_number, party_id, total_amount, paid_amount, balance_due, status
			  FROM invoices
			  WHERE LOWER(invoice_number) = LOWER($1) AND deleted_at IS NULL
			  ORDER BY created_at, id
			  LIMIT 1`
	return s.scanInvoice(s.DB.QueryRow(query, number))
}

func (s *SyncStore) GetInvoiceByID(id string) (*models.Invoice, error) {
	query := `SELECT id, invoice_number, party_id, total_amount, paid_amount, balance_due, status
			  FROM invoices WHERE id = $1 AND deleted_at IS NULL`
	return s.scanInvoice(s.DB.QueryRow(query, id))
}

func (s *SyncStore) scanInvoice(row *sql.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var status string
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PartyID,
		&inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &status)
	if err == sql.ErrNoRows {
		return nil, paymentsync.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatus(status)
	return inv, nil
}

func (s *SyncStore) SearchInvoices(query string, limit int) ([]*models.Invoice, error) {
	q := `SELECT i.id, i.invoice_number, i.party_id, i.total_amount, i.paid_amount, i.balance_due, i.status, p.name
		  FROM invoices i
		  JOIN parties p ON i.party_id = p.id
		  WHERE i.deleted_at IS NULL AND (i.invoice_number ILIKE $1 OR p.name ILIKE $1)
		  ORDER BY i.invoice_date DESC, i.id
		  LIMIT $2`

	rows, err := s.DB.Query(q, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv := &models.Invoice{Party: &models.Party{}}
		var status string
		err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PartyID,
			&inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &status, &inv.Party.Name)
		if err != nil {
			return nil, err
		}
		inv.Status = models.InvoiceStatus(status)
		inv.Party.ID = inv.PartyID
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *SyncStore) CreateSyncRecord(rec *models.PaymentSyncRecord) error {
	query := `INSERT INTO payment_sync_records
			  (invoice_number, net_amount, gross_amount, diff_percent, utr_number, utr_total,
			   payment_date, division, po_number, confidence, mail_link, status, error_message)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id, created_at, updated_at`
	err := s.DB.QueryRow(query,
		rec.InvoiceNumber, rec.NetAmount, rec.GrossAmount, rec.DiffPercent,
		rec.UTRNumber, rec.UTRTotal, rec.PaymentDate, rec.Division, rec.PONumber,
		rec.Confidence, rec.MailLink, string(rec.Status), rec.ErrorMessage,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sync record: %v", err)
	}
	return nil
}

func (s *SyncStore) GetSyncRecord(id string) (*models.PaymentSyncRecord, error) {
	query := `SELECT id, invoice_number, net_amount, gross_amount, diff_percent, utr_number, utr_total,
			  payment_date, division, po_number, confidence, mail_link, status, error_message,
			  invoice_id, payment_id, created_at, updated_at
			  FROM payment_sync_records WHERE id = $1`

	rec := &models.PaymentSyncRecord{}
	var status string
	err := s.DB.QueryRow(query, id).Scan(
		&rec.ID, &rec.InvoiceNumber, &rec.NetAmount, &rec.GrossAmount, &rec.DiffPercent,
		&rec.UTRNumber, &rec.UTRTotal, &rec.PaymentDate, &rec.Division, &rec.PONumber,
		&rec.Confidence, &rec.MailLink, &status, &rec.ErrorMessage,
		&rec.InvoiceID, &rec.PaymentID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, paymentsync.ErrSyncRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Status = models.SyncStatus(status)
	return rec, nil
}

func (s *SyncStore) MarkIgnored(id, actor string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var prior string
	err = tx.QueryRow(`SELECT status FROM payment_sync_records WHERE id = $1 FOR UPDATE`, id).Scan(&prior)
	if err == sql.ErrNoRows {
		return paymentsync.ErrSyncRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load sync record: %v", err)
	}
	// Re-checked under the row lock: a match committed since the caller's
	// read must not be dismissed.
	if prior == string(models.SyncMatched) {
		return paymentsync.ErrAlreadyMatched
	}

	_, err = tx.Exec(`UPDATE payment_sync_records SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(models.SyncIgnored), id)
	if err != nil {
		return fmt.Errorf("failed to ignore sync record: %v", err)
	}

	details := map[string]interface{}{"prior_status": prior, "new_status": models.SyncIgnored}
	if err := InsertAuditLog(tx, "payment_sync_record", id, models.AuditUpdate, details, actor); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SyncStore) HasDuplicatePayment(invoiceID, utr string, amount decimal.Decimal) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(`SELECT EXISTS (
			SELECT 1 FROM payments WHERE invoice_id = $1 AND reference = $2 AND amount = $3
		)`, invoiceID, utr, amount).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ApplyPayment is the ledger update rule. The invoice row is locked and
// re-read so concurrent matches against the same invoice serialize; the
// invoice update, payment insert, sync record flip to MATCHED and audit
// entry commit atomically or not at all.
func (s *SyncStore) ApplyPayment(app paymentsync.PaymentApplication) (string, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	inv := &models.Invoice{}
	var status string
	err = tx.QueryRow(`SELECT id, invoice_number, total_amount, paid_amount, balance_due, status
					   FROM invoices WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, app.InvoiceID).
		Scan(&inv.ID, &inv.InvoiceNumber, &inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &status)
	if err == sql.ErrNoRows {
		return "", paymentsync.ErrInvoiceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to lock invoice: %v", err)
	}
	inv.Status = models.InvoiceStatus(status)

	newPaid, newBalance, newStatus := inv.AfterPayment(app.Amount)

	var paymentID string
	err = tx.QueryRow(`INSERT INTO payments (invoice_id, amount, payment_date, mode, reference, status, remarks)
					   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		inv.ID, app.Amount, app.PaymentDate, string(models.ModeNEFT), app.UTR,
		string(models.PaymentReceived), app.Remarks,
	).Scan(&paymentID)
	if err != nil {
		return "", fmt.Errorf("failed to insert payment: %v", err)
	}

	_, err = tx.Exec(`UPDATE invoices SET paid_amount = $1, balance_due = $2, status = $3, updated_at = NOW() WHERE id = $4`,
		newPaid, newBalance, string(newStatus), inv.ID)
	if err != nil {
		return "", fmt.Errorf("failed to update invoice ledger: %v", err)
	}

	// The status guard is authoritative here, not in the service pre-check:
	// a concurrent match that committed after the caller read the record
	// makes this update touch zero rows, and the whole transaction rolls
	// back without a second payment.
	res, err := tx.Exec(`UPDATE payment_sync_records
					  SET status = $1, invoice_id = $2, payment_id = $3, updated_at = NOW()
					  WHERE id = $4 AND status <> $1`,
		string(models.SyncMatched), inv.ID, paymentID, app.SyncRecordID)
	if err != nil {
		return "", fmt.Errorf("failed to update sync record: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", paymentsync.ErrAlreadyMatched
	}

	details := map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"payment_id":     paymentID,
		"sync_record_id": app.SyncRecordID,
		"amount":         app.Amount,
		"utr":            app.UTR,
		"prior_status":   app.PriorStatus,
		"new_paid":       newPaid,
		"new_balance":    newBalance,
		"new_status":     newStatus,
	}
	if err := InsertAuditLog(tx, "invoice", inv.ID, models.AuditUpdate, details, app.Actor); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return paymentID, nil
}

// SyncRecordFilters narrows the reconciliation dashboard listing.
type SyncRecordFilters struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// ListSyncRecords returns sync records newest first for the reconciliation
// dashboard, with matched invoice numbers joined in where present.
func ListSyncRecords(db *sql.DB, f SyncRecordFilters) ([]*models.PaymentSyncRecord, error) {
	query := `SELECT r.id, r.invoice_number, r.net_amount, r.gross_amount, r.diff_percent,
			  r.utr_number, r.utr_total, r.payment_date, r.division, r.po_number,
			  r.confidence, r.mail_link, r.status, r.error_message, r.invoice_id, r.payment_id,
			  r.created_at, r.updated_at
			  FROM payment_sync_records r
			  WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if f.Status != "" {
		query += fmt.Sprintf(" AND r.status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (r.invoice_number ILIKE $%d OR r.utr_number ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}

	query += " ORDER BY r.created_at DESC, r.id"
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, f.Offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.PaymentSyncRecord
	for rows.Next() {
		rec := &models.PaymentSyncRecord{}
		var status string
		err := rows.Scan(
			&rec.ID, &rec.InvoiceNumber, &rec.NetAmount, &rec.GrossAmount, &rec.DiffPercent,
			&rec.UTRNumber, &rec.UTRTotal, &rec.PaymentDate, &rec.Division, &rec.PONumber,
			&rec.Confidence, &rec.MailLink, &status, &rec.ErrorMessage, &rec.InvoiceID, &rec.PaymentID,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Status = models.SyncStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

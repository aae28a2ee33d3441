package database

import (
	"database/sql"
	"fmt"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
)

// RecordPayment applies a manually entered payment (cheque, UPI, cash) to an
// invoice. The invoice row is locked and re-read inside the transaction so a
// concurrent reconciliation match cannot lose this update; the ledger rule
// in models.Invoice.AfterPayment keeps paid/balance/status consistent.
func RecordPayment(db *sql.DB, p *models.Payment, actor string) error {
	if p.Amount.Sign() <= 0 {
		return fmt.Errorf("payment amount must be positive")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	inv := &models.Invoice{}
	var status string
	err = tx.QueryRow(`SELECT id, invoice_number, total_amount, paid_amount, balance_due, status
					   FROM invoices WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, p.InvoiceID).
		Scan(&inv.ID, &inv.InvoiceNumber, &inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &status)
	if err != nil {
		return fmt.Errorf("failed to load invoice: %v", err)
	}
	inv.Status = models.InvoiceStatus(status)

	newPaid, newBalance, newStatus := inv.AfterPayment(p.Amount)

	queryPayment := `INSERT INTO payments (invoice_id, amount, payment_date, mode, reference, status, remarks)
					 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err = tx.QueryRow(queryPayment,
		p.InvoiceID, p.Amount, p.PaymentDate, string(p.Mode), p.Reference,
		string(models.PaymentReceived), p.Remarks,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %v", err)
	}
	p.Status = models.PaymentReceived

	_, err = tx.Exec(`UPDATE invoices SET paid_amount = $1, balance_due = $2, status = $3, updated_at = NOW() WHERE id = $4`,
		newPaid, newBalance, string(newStatus), inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice ledger: %v", err)
	}

	details := map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"payment_id":     p.ID,
		"amount":         p.Amount,
		"mode":           p.Mode,
		"new_paid":       newPaid,
		"new_balance":    newBalance,
		"new_status":     newStatus,
	}
	if err := InsertAuditLog(tx, "invoice", inv.ID, models.AuditUpdate, details, actor); err != nil {
		return err
	}

	return tx.Commit()
}

// ListPaymentsByInvoice returns an invoice's payments oldest first.
func ListPaymentsByInvoice(db *sql.DB, invoiceID string) ([]*models.Payment, error) {
	query := `SELECT id, invoice_id, amount, payment_date, mode, reference, status, remarks, created_at
			  FROM payments WHERE invoice_id = $1 ORDER BY payment_date, created_at`

	rows, err := db.Query(query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var mode, status string
		err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &mode,
			&p.Reference, &status, &p.Remarks, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.Mode = models.PaymentMode(mode)
		p.Status = models.PaymentStatus(status)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// PaymentFilters represents filtering options for the global payment listing.
type PaymentFilters struct {
	Mode      string
	Reference string
	DateFrom  string
	DateTo    string
	Limit     int
	Offset    int
}

// ListPayments returns payments across invoices, newest first, with the
// invoice number joined in for display.
func ListPayments(db *sql.DB, f PaymentFilters) ([]*models.Payment, error) {
	query := `SELECT p.id, p.invoice_id, p.amount, p.payment_date, p.mode, p.reference, p.status, p.remarks, p.created_at,
			  i.invoice_number
			  FROM payments p
			  JOIN invoices i ON p.invoice_id = i.id
			  WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if f.Mode != "" {
		query += fmt.Sprintf(" AND p.mode = $%d", argIndex)
		args = append(args, f.Mode)
		argIndex++
	}
	if f.Reference != "" {
		query += fmt.Sprintf(" AND p.reference ILIKE $%d", argIndex)
		args = append(args, "%"+f.Reference+"%")
		argIndex++
	}
	if f.DateFrom != "" {
		query += fmt.Sprintf(" AND p.payment_date >= $%d", argIndex)
		args = append(args, f.DateFrom)
		argIndex++
	}
	if f.DateTo != "" {
		query += fmt.Sprintf(" AND p.payment_date <= $%d", argIndex)
		args = append(args, f.DateTo)
		argIndex++
	}

	query += " ORDER BY p.payment_date DESC, p.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{Invoice: &models.Invoice{}}
		var mode, status string
		err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaymentDate, &mode,
			&p.Reference, &status, &p.Remarks, &p.CreatedAt, &p.Invoice.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		p.Mode = models.PaymentMode(mode)
		p.Status = models.PaymentStatus(status)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

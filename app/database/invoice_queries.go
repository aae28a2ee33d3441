package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
)

// InvoiceFilters represents filtering options for the invoice listing.
type InvoiceFilters struct {
	Search    string
	Status    string
	PartyID   string
	DateFrom  string
	DateTo    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

func CreateInvoice(db *sql.DB, inv *models.Invoice, actor string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	inv.BalanceDue = inv.TotalAmount.Sub(inv.PaidAmount)
	query := `INSERT INTO invoices (invoice_number, party_id, po_number, invoice_date, due_date, total_amount, paid_amount, balance_due, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		inv.InvoiceNumber, inv.PartyID, inv.PONumber, inv.InvoiceDate, inv.DueDate,
		inv.TotalAmount, inv.PaidAmount, inv.BalanceDue, string(inv.Status), inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %v", err)
	}

	details := map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"total_amount":   inv.TotalAmount,
		"status":         inv.Status,
	}
	if err := InsertAuditLog(tx, "invoice", inv.ID, models.AuditCreate, details, actor); err != nil {
		return err
	}

	return tx.Commit()
}

func GetInvoiceByID(db *sql.DB, id string) (*models.Invoice, error) {
	inv := &models.Invoice{Party: &models.Party{}}
	var status string
	query := `SELECT i.id, i.invoice_number, i.party_id, i.po_number, i.invoice_date, i.due_date,
			  i.total_amount, i.paid_amount, i.balance_due, i.status, i.notes, i.created_at, i.updated_at,
			  p.id, p.name, p.kind
			  FROM invoices i
			  JOIN parties p ON i.party_id = p.id
			  WHERE i.id = $1 AND i.deleted_at IS NULL`

	var kind string
	err := db.QueryRow(query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.PartyID, &inv.PONumber, &inv.InvoiceDate, &inv.DueDate,
		&inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		&inv.Party.ID, &inv.Party.Name, &kind,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatus(status)
	inv.Party.Kind = models.PartyKind(kind)
	return inv, nil
}

// ListInvoices returns invoices with party names, applying filters and
// sorting. The WHERE clause is built incrementally the same way throughout
// the query layer.
func ListInvoices(db *sql.DB, f InvoiceFilters) ([]*models.Invoice, error) {
	query := `SELECT i.id, i.invoice_number, i.party_id, i.po_number, i.invoice_date, i.due_date,
			  i.total_amount, i.paid_amount, i.balance_due, i.status, i.created_at, i.updated_at,
			  p.name
			  FROM invoices i
			  JOIN parties p ON i.party_id = p.id
			  WHERE i.deleted_at IS NULL`

	var args []interface{}
	argIndex := 1

	if f.Search != "" {
		query += fmt.Sprintf(" AND (i.invoice_number ILIKE $%d OR p.name ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND i.status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if f.PartyID != "" {
		query += fmt.Sprintf(" AND i.party_id = $%d", argIndex)
		args = append(args, f.PartyID)
		argIndex++
	}
	if f.DateFrom != "" {
		query += fmt.Sprintf(" AND i.invoice_date >= $%d", argIndex)
		args = append(args, f.DateFrom)
		argIndex++
	}
	if f.DateTo != "" {
		query += fmt.Sprintf(" AND i.invoice_date <= $%d", argIndex)
		args = append(args, f.DateTo)
		argIndex++
	}

	sortBy := "i.invoice_date"
	switch f.SortBy {
	case "invoice_number":
		sortBy = "i.invoice_number"
	case "total_amount":
		sortBy = "i.total_amount"
	case "balance_due":
		sortBy = "i.balance_due"
	case "status":
		sortBy = "i.status"
	}
	sortOrder := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, i.id", sortBy, sortOrder)

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv := &models.Invoice{Party: &models.Party{}}
		var status string
		err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.PartyID, &inv.PONumber, &inv.InvoiceDate, &inv.DueDate,
			&inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &status, &inv.CreatedAt, &inv.UpdatedAt,
			&inv.Party.Name,
		)
		if err != nil {
			return nil, err
		}
		inv.Status = models.InvoiceStatus(status)
		inv.Party.ID = inv.PartyID
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateInvoice edits header fields of a draft/sent invoice. Ledger fields
// (paid_amount, balance_due) are never touched here; only the payment paths
// may move them.
func UpdateInvoice(db *sql.DB, inv *models.Invoice, actor string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE invoices
			  SET invoice_number = $1, party_id = $2, po_number = $3, invoice_date = $4,
			      due_date = $5, total_amount = $6, balance_due = $6 - paid_amount,
			      status = $7, notes = $8, updated_at = NOW()
			  WHERE id = $9 AND deleted_at IS NULL`
	res, err := tx.Exec(query,
		inv.InvoiceNumber, inv.PartyID, inv.PONumber, inv.InvoiceDate, inv.DueDate,
		inv.TotalAmount, string(inv.Status), inv.Notes, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	details := map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"total_amount":   inv.TotalAmount,
		"status":         inv.Status,
	}
	if err := InsertAuditLog(tx, "invoice", inv.ID, models.AuditUpdate, details, actor); err != nil {
		return err
	}

	return tx.Commit()
}

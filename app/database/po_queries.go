package database

import (
	"database/sql"
	"fmt"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/shopspring/decimal"
)

func CreatePurchaseOrder(db *sql.DB, po *models.PurchaseOrder, actor string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	po.BalanceQty = po.TotalQty.Sub(po.ReceivedQty)
	query := `INSERT INTO purchase_orders (po_number, party_id, po_date, description, total_qty, received_qty, balance_qty, unit_rate, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		po.PONumber, po.PartyID, po.PODate, po.Description,
		po.TotalQty, po.ReceivedQty, po.BalanceQty, po.UnitRate, string(po.Status),
	).Scan(&po.ID, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert purchase order: %v", err)
	}

	details := map[string]interface{}{"po_number": po.PONumber, "total_qty": po.TotalQty}
	if err := InsertAuditLog(tx, "purchase_order", po.ID, models.AuditCreate, details, actor); err != nil {
		return err
	}

	return tx.Commit()
}

func GetPurchaseOrderByID(db *sql.DB, id string) (*models.PurchaseOrder, error) {
	po := &models.PurchaseOrder{Party: &models.Party{}}
	var status string
	query := `SELECT po.id, po.po_number, po.party_id, po.po_date, po.description,
			  po.total_qty, po.received_qty, po.balance_qty, po.unit_rate, po.status,
			  po.created_at, po.updated_at, p.name
			  FROM purchase_orders po
			  JOIN parties p ON po.party_id = p.id
			  WHERE po.id = $1 AND po.deleted_at IS NULL`
	err := db.QueryRow(query, id).Scan(
		&po.ID, &po.PONumber, &po.PartyID, &po.PODate, &po.Description,
		&po.TotalQty, &po.ReceivedQty, &po.BalanceQty, &po.UnitRate, &status,
		&po.CreatedAt, &po.UpdatedAt, &po.Party.Name,
	)
	if err != nil {
		return nil, err
	}
	po.Status = models.POStatus(status)
	po.Party.ID = po.PartyID
	return po, nil
}

func ListPurchaseOrders(db *sql.DB, statusFilter, search string) ([]*models.PurchaseOrder, error) {
	query := `SELECT po.id, po.po_number, po.party_id, po.po_date, po.description,
			  po.total_qty, po.received_qty, po.balance_qty, po.unit_rate, po.status,
			  po.created_at, po.updated_at, p.name
			  FROM purchase_orders po
			  JOIN parties p ON po.party_id = p.id
			  WHERE po.deleted_at IS NULL`

	var args []interface{}
	argIndex := 1

	if statusFilter != "" {
		query += fmt.Sprintf(" AND po.status = $%d", argIndex)
		args = append(args, statusFilter)
		argIndex++
	}
	if search != "" {
		query += fmt.Sprintf(" AND (po.po_number ILIKE $%d OR p.name ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}
	query += " ORDER BY po.po_date DESC, po.id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.PurchaseOrder
	for rows.Next() {
		po := &models.PurchaseOrder{Party: &models.Party{}}
		var status string
		err := rows.Scan(
			&po.ID, &po.PONumber, &po.PartyID, &po.PODate, &po.Description,
			&po.TotalQty, &po.ReceivedQty, &po.BalanceQty, &po.UnitRate, &status,
			&po.CreatedAt, &po.UpdatedAt, &po.Party.Name,
		)
		if err != nil {
			return nil, err
		}
		po.Status = models.POStatus(status)
		po.Party.ID = po.PartyID
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

// ReceiveAgainstPO validates a receipt quantity against the PO's running
// balance, increments received_qty and recomputes the status, all inside
// one transaction with the row locked.
func ReceiveAgainstPO(tx *sql.Tx, poID string, qty decimal.Decimal, actor string) error {
	if qty.Sign() <= 0 {
		return fmt.Errorf("receipt quantity must be positive")
	}

	po := &models.PurchaseOrder{}
	var status string
	err := tx.QueryRow(`SELECT id, po_number, total_qty, received_qty, balance_qty, status
						FROM purchase_orders WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, poID).
		Scan(&po.ID, &po.PONumber, &po.TotalQty, &po.ReceivedQty, &po.BalanceQty, &status)
	if err != nil {
		return fmt.Errorf("failed to load purchase order: %v", err)
	}
	po.Status = models.POStatus(status)

	if qty.GreaterThan(po.BalanceQty) {
		return fmt.Errorf("receipt quantity %s exceeds PO balance %s", qty, po.BalanceQty)
	}

	newReceived, newBalance, newStatus := po.AfterReceipt(qty)
	_, err = tx.Exec(`UPDATE purchase_orders SET received_qty = $1, balance_qty = $2, status = $3, updated_at = NOW() WHERE id = $4`,
		newReceived, newBalance, string(newStatus), po.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order: %v", err)
	}

	details := map[string]interface{}{
		"po_number":    po.PONumber,
		"received_qty": qty,
		"new_balance":  newBalance,
		"new_status":   newStatus,
	}
	return InsertAuditLog(tx, "purchase_order", po.ID, models.AuditUpdate, details, actor)
}

package database

import (
	"database/sql"
	"fmt"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/shopspring/decimal"
)

// CreateGatePass records material crossing the gate. Inward passes linked to
// a purchase order also advance that PO's received quantity; outward passes
// against a PO may not dispatch more than has been received so far. Both
// checks run in the same transaction as the insert.
func CreateGatePass(db *sql.DB, gp *models.GatePass, actor string) error {
	if gp.Quantity.Sign() <= 0 {
		return fmt.Errorf("gate pass quantity must be positive")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	switch gp.Type {
	case models.GatePassInward:
		if gp.POID != nil {
			if err := ReceiveAgainstPO(tx, *gp.POID, gp.Quantity, actor); err != nil {
				return err
			}
		}
	case models.GatePassOutward:
		if gp.POID != nil {
			if err := checkDispatchBalance(tx, *gp.POID, gp); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown gate pass type %q", gp.Type)
	}

	query := `INSERT INTO gate_passes (pass_number, type, party_id, po_id, item_desc, quantity, pass_date, vehicle_no, challan_no, remarks)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query,
		gp.PassNumber, string(gp.Type), gp.PartyID, gp.POID, gp.ItemDesc,
		gp.Quantity, gp.PassDate, gp.VehicleNo, gp.ChallanNo, gp.Remarks,
	).Scan(&gp.ID, &gp.CreatedAt, &gp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert gate pass: %v", err)
	}

	details := map[string]interface{}{
		"pass_number": gp.PassNumber,
		"type":        gp.Type,
		"quantity":    gp.Quantity,
	}
	if err := InsertAuditLog(tx, "gate_pass", gp.ID, models.AuditCreate, details, actor); err != nil {
		return err
	}

	return tx.Commit()
}

// checkDispatchBalance rejects an outward pass that would dispatch more than
// the quantity received against the PO minus what already went out.
func checkDispatchBalance(tx *sql.Tx, poID string, gp *models.GatePass) error {
	var received, dispatched decimal.Decimal
	err := tx.QueryRow(`SELECT po.received_qty,
						COALESCE((SELECT SUM(g.quantity) FROM gate_passes g
								  WHERE g.po_id = po.id AND g.type = 'OUTWARD' AND g.deleted_at IS NULL), 0)
						FROM purchase_orders po WHERE po.id = $1 AND po.deleted_at IS NULL FOR UPDATE`, poID).
		Scan(&received, &dispatched)
	if err != nil {
		return fmt.Errorf("failed to load dispatch balance: %v", err)
	}

	available := received.Sub(dispatched)
	if gp.Quantity.GreaterThan(available) {
		return fmt.Errorf("dispatch quantity %s exceeds available balance %s", gp.Quantity, available)
	}
	return nil
}

func GetGatePassByID(db *sql.DB, id string) (*models.GatePass, error) {
	gp := &models.GatePass{Party: &models.Party{}}
	var gpType string
	query := `SELECT g.id, g.pass_number, g.type, g.party_id, g.po_id, g.item_desc, g.quantity,
			  g.pass_date, g.vehicle_no, g.challan_no, g.remarks, g.created_at, g.updated_at, p.name
			  FROM gate_passes g
			  JOIN parties p ON g.party_id = p.id
			  WHERE g.id = $1 AND g.deleted_at IS NULL`
	err := db.QueryRow(query, id).Scan(
		&gp.ID, &gp.PassNumber, &gpType, &gp.PartyID, &gp.POID, &gp.ItemDesc, &gp.Quantity,
		&gp.PassDate, &gp.VehicleNo, &gp.ChallanNo, &gp.Remarks, &gp.CreatedAt, &gp.UpdatedAt, &gp.Party.Name,
	)
	if err != nil {
		return nil, err
	}
	gp.Type = models.GatePassType(gpType)
	gp.Party.ID = gp.PartyID
	return gp, nil
}

// GatePassFilters represents filtering options for the gate pass listing.
type GatePassFilters struct {
	Type     string
	PartyID  string
	DateFrom string
	DateTo   string
	Search   string
	Limit    int
	Offset   int
}

func ListGatePasses(db *sql.DB, f GatePassFilters) ([]*models.GatePass, error) {
	query := `SELECT g.id, g.pass_number, g.type, g.party_id, g.po_id, g.item_desc, g.quantity,
			  g.pass_date, g.vehicle_no, g.challan_no, g.remarks, g.created_at, g.updated_at, p.name
			  FROM gate_passes g
			  JOIN parties p ON g.party_id = p.id
			  WHERE g.deleted_at IS NULL`

	var args []interface{}
	argIndex := 1

	if f.Type != "" {
		query += fmt.Sprintf(" AND g.type = $%d", argIndex)
		args = append(args, f.Type)
		argIndex++
	}
	if f.PartyID != "" {
		query += fmt.Sprintf(" AND g.party_id = $%d", argIndex)
		args = append(args, f.PartyID)
		argIndex++
	}
	if f.DateFrom != "" {
		query += fmt.Sprintf(" AND g.pass_date >= $%d", argIndex)
		args = append(args, f.DateFrom)
		argIndex++
	}
	if f.DateTo != "" {
		query += fmt.Sprintf(" AND g.pass_date <= $%d", argIndex)
		args = append(args, f.DateTo)
		argIndex++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (g.pass_number ILIKE $%d OR g.item_desc ILIKE $%d OR p.name ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}

	query += " ORDER BY g.pass_date DESC, g.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passes []*models.GatePass
	for rows.Next() {
		gp := &models.GatePass{Party: &models.Party{}}
		var gpType string
		err := rows.Scan(
			&gp.ID, &gp.PassNumber, &gpType, &gp.PartyID, &gp.POID, &gp.ItemDesc, &gp.Quantity,
			&gp.PassDate, &gp.VehicleNo, &gp.ChallanNo, &gp.Remarks, &gp.CreatedAt, &gp.UpdatedAt, &gp.Party.Name,
		)
		if err != nil {
			return nil, err
		}
		gp.Type = models.GatePassType(gpType)
		gp.Party.ID = gp.PartyID
		passes = append(passes, gp)
	}
	return passes, rows.Err()
}

// NextPassNumber generates the next number in a series, e.g. GP-IN-0042.
// The number comes from the highest existing one, soft-deleted passes
// included, so a deleted pass never frees its number for reuse.
func NextPassNumber(db *sql.DB, gpType models.GatePassType) (string, error) {
	prefix := "GP-IN-"
	if gpType == models.GatePassOutward {
		prefix = "GP-OUT-"
	}
	var last int
	err := db.QueryRow(`SELECT COALESCE(MAX(CAST(SUBSTRING(pass_number FROM '[0-9]+$') AS INT)), 0)
						FROM gate_passes WHERE type = $1`, string(gpType)).Scan(&last)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, last+1), nil
}

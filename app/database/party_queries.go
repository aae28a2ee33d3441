package database

import (
	"database/sql"
	"fmt"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
)

func CreateParty(db *sql.DB, p *models.Party) error {
	query := `INSERT INTO parties (name, kind, gstin, address, phone, email, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, true)
			  RETURNING id, created_at, updated_at`
	err := db.QueryRow(query, p.Name, string(p.Kind), p.GSTIN, p.Address, p.Phone, p.Email).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert party: %v", err)
	}
	return nil
}

func GetPartyByID(db *sql.DB, id string) (*models.Party, error) {
	p := &models.Party{}
	var kind string
	query := `SELECT id, name, kind, gstin, address, phone, email, is_active, created_at, updated_at
			  FROM parties WHERE id = $1 AND deleted_at IS NULL`
	err := db.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &kind, &p.GSTIN, &p.Address, &p.Phone, &p.Email,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Kind = models.PartyKind(kind)
	return p, nil
}

func ListParties(db *sql.DB, kind, search string) ([]*models.Party, error) {
	query := `SELECT id, name, kind, gstin, address, phone, email, is_active, created_at, updated_at
			  FROM parties WHERE deleted_at IS NULL AND is_active = true`

	var args []interface{}
	argIndex := 1

	if kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", argIndex)
		args = append(args, kind)
		argIndex++
	}
	if search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}
	query += " ORDER BY name"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []*models.Party
	for rows.Next() {
		p := &models.Party{}
		var k string
		err := rows.Scan(&p.ID, &p.Name, &k, &p.GSTIN, &p.Address, &p.Phone, &p.Email,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		p.Kind = models.PartyKind(k)
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func UpdateParty(db *sql.DB, p *models.Party) error {
	query := `UPDATE parties SET name = $1, kind = $2, gstin = $3, address = $4, phone = $5, email = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted_at IS NULL`
	res, err := db.Exec(query, p.Name, string(p.Kind), p.GSTIN, p.Address, p.Phone, p.Email, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update party: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateParty soft-deletes a party so historical documents keep joining.
func DeactivateParty(db *sql.DB, id string) error {
	res, err := db.Exec(`UPDATE parties SET is_active = false, deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

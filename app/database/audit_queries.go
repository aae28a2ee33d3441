package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
)

// execer lets audit writes ride an open transaction or a bare connection.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// InsertAuditLog appends one audit entry. Details is marshalled to JSON;
// callers pass a map or struct describing what changed.
func InsertAuditLog(e execer, entity, entityID string, action models.AuditAction, details interface{}, actor string) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %v", err)
	}
	query := `INSERT INTO audit_logs (entity, entity_id, action, details, actor_id)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err = e.Exec(query, entity, entityID, string(action), payload, actor)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %v", err)
	}
	return nil
}

// AuditFilters narrows the audit listing.
type AuditFilters struct {
	Entity   string
	EntityID string
	Actor    string
	Limit    int
	Offset   int
}

// ListAuditLogs returns audit entries newest first.
func ListAuditLogs(db *sql.DB, f AuditFilters) ([]*models.AuditLog, error) {
	query := `SELECT id, entity, entity_id, action, details, actor_id, created_at FROM audit_logs WHERE 1=1`
	var args []interface{}
	argIndex := 1

	if f.Entity != "" {
		query += fmt.Sprintf(" AND entity = $%d", argIndex)
		args = append(args, f.Entity)
		argIndex++
	}
	if f.EntityID != "" {
		query += fmt.Sprintf(" AND entity_id = $%d", argIndex)
		args = append(args, f.EntityID)
		argIndex++
	}
	if f.Actor != "" {
		query += fmt.Sprintf(" AND actor_id = $%d", argIndex)
		args = append(args, f.Actor)
		argIndex++
	}

	query += " ORDER BY created_at DESC"
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

	var logs []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var action string
		if err := rows.Scan(&entry.ID, &entry.Entity, &entry.EntityID, &action,
			&entry.Details, &entry.ActorID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Action = models.AuditAction(action)
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

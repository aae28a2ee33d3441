package services

import (
	"database/sql"
	"log"
)

// ReportSyncBacklog logs how many bank feed rows are still waiting for manual
// review so stale reconciliation queues show up in the morning logs.
func ReportSyncBacklog(db *sql.DB) error {
	var unmatched, errored, stale int
	err := db.QueryRow(`SELECT COUNT(*) FILTER (WHERE status = 'UNMATCHED'),
						COUNT(*) FILTER (WHERE status = 'ERROR'),
						COUNT(*) FILTER (WHERE status IN ('UNMATCHED', 'ERROR') AND created_at < NOW() - INTERVAL '3 days')
						FROM payment_sync_records`).
		Scan(&unmatched, &errored, &stale)
	if err != nil {
		return err
	}

	if unmatched == 0 && errored == 0 {
		log.Println("Sync backlog: clear")
		return nil
	}

	log.Printf("Sync backlog: %d unmatched, %d errored (%d older than 3 days)", unmatched, errored, stale)
	return nil
}

package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	if err := addInvoiceNumberUniqueIndex(db); err != nil {
		return err
	}
	if err := addSyncErrorMessageColumn(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Invoice numbers must be unique case-insensitively so reconciliation lookup
// never has to pick between candidates.
func addInvoiceNumberUniqueIndex(db *sql.DB) error {
	query := `CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number_lower
			  ON invoices (LOWER(invoice_number)) WHERE deleted_at IS NULL`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to create unique invoice number index: %v", err)
		return err
	}
	return nil
}

func addSyncErrorMessageColumn(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'payment_sync_records'
				AND column_name = 'error_message'
			) THEN
				ALTER TABLE payment_sync_records ADD COLUMN error_message TEXT NOT NULL DEFAULT '';
			END IF;
		END $$;
	`
	if _, err := db.Exec(query); err != nil {
		log.Printf("Failed to run migration for error_message column: %v", err)
		return err
	}
	return nil
}

package database

import (
	"database/sql"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/shopspring/decimal"
)

// DashboardStats carries the headline numbers for the landing dashboard.
type DashboardStats struct {
	TotalInvoices       int             `json:"total_invoices"`
	OpenInvoices        int             `json:"open_invoices"`
	OverdueInvoices     int             `json:"overdue_invoices"`
	TotalReceivable     decimal.Decimal `json:"total_receivable"`
	ReceivedThisMonth   decimal.Decimal `json:"received_this_month"`
	OpenPurchaseOrders  int             `json:"open_purchase_orders"`
	UnmatchedSyncCount  int             `json:"unmatched_sync_count"`
	ErrorSyncCount      int             `json:"error_sync_count"`
	GatePassesThisMonth int             `json:"gate_passes_this_month"`
}

// GetDashboardStats returns statistics for the dashboard landing page.
func GetDashboardStats(db *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}

	// 1. Invoice counts
	err := db.QueryRow(`SELECT COUNT(*),
						COUNT(*) FILTER (WHERE status IN ('SENT', 'PARTIALLY_PAID')),
						COUNT(*) FILTER (WHERE status IN ('SENT', 'PARTIALLY_PAID') AND due_date < CURRENT_DATE)
						FROM invoices WHERE deleted_at IS NULL`).
		Scan(&stats.TotalInvoices, &stats.OpenInvoices, &stats.OverdueInvoices)
	if err != nil {
		return nil, err
	}

	// 2. Receivables
	err = db.QueryRow(`SELECT COALESCE(SUM(balance_due), 0) FROM invoices
					   WHERE deleted_at IS NULL AND status IN ('SENT', 'PARTIALLY_PAID')`).
		Scan(&stats.TotalReceivable)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM payments
					   WHERE payment_date >= date_trunc('month', CURRENT_DATE)`).
		Scan(&stats.ReceivedThisMonth)
	if err != nil {
		return nil, err
	}

	// 3. Purchase orders and gate movement
	err = db.QueryRow(`SELECT COUNT(*) FROM purchase_orders
					   WHERE deleted_at IS NULL AND status IN ('OPEN', 'PARTIAL')`).
		Scan(&stats.OpenPurchaseOrders)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM gate_passes
					   WHERE deleted_at IS NULL AND pass_date >= date_trunc('month', CURRENT_DATE)`).
		Scan(&stats.GatePassesThisMonth)
	if err != nil {
		return nil, err
	}

	// 4. Reconciliation queue
	err = db.QueryRow(`SELECT COUNT(*) FILTER (WHERE status = 'UNMATCHED'),
					   COUNT(*) FILTER (WHERE status = 'ERROR')
					   FROM payment_sync_records`).
		Scan(&stats.UnmatchedSyncCount, &stats.ErrorSyncCount)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetRecentActivity returns the latest audit entries for the dashboard feed.
func GetRecentActivity(db *sql.DB, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 10
	}
	return ListAuditLogs(db, AuditFilters{Limit: limit})
}

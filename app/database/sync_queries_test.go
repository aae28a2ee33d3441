package database

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/YashwanthPb/vyaparforge-sub001/app/services/paymentsync"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithMock(t *testing.T) (*SyncStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewSyncStore(db), mock, db
}

func testApplication() paymentsync.PaymentApplication {
	return paymentsync.PaymentApplication{
		InvoiceID:    "inv-1",
		SyncRecordID: "sync-1",
		Amount:       decimal.RequireFromString("1000.00"),
		UTR:          "UTR1",
		Remarks:      "Auto-synced, UTR: UTR1",
		Actor:        "SYSTEM_SYNC",
	}
}

func expectInvoiceLock(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{"id", "invoice_number", "total_amount", "paid_amount", "balance_due", "status"}).
		AddRow("inv-1", "INV-1", "2000.00", "0", "2000.00", "SENT")
	mock.ExpectQuery(`SELECT id, invoice_number, total_amount, paid_amount, balance_due, status\s+FROM invoices WHERE id = \$1 AND deleted_at IS NULL FOR UPDATE`).
		WithArgs("inv-1").
		WillReturnRows(rows)
}

func TestApplyPaymentCommitsWholeLedgerUpdate(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	expectInvoiceLock(mock)
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pay-1"))
	mock.ExpectExec(`UPDATE invoices SET paid_amount = \$1, balance_due = \$2, status = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payment_sync_records\s+SET status = \$1, invoice_id = \$2, payment_id = \$3, updated_at = NOW\(\)\s+WHERE id = \$4 AND status <> \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	paymentID, err := store.ApplyPayment(testApplication())
	require.NoError(t, err)
	assert.Equal(t, "pay-1", paymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentRollsBackWhenRecordAlreadyMatched(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	// A concurrent match committed after the caller's status check: the
	// guarded sync-record update touches zero rows and nothing else may land.
	mock.ExpectBegin()
	expectInvoiceLock(mock)
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("pay-2"))
	mock.ExpectExec(`UPDATE invoices SET paid_amount`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payment_sync_records\s+SET status = \$1, invoice_id = \$2, payment_id = \$3, updated_at = NOW\(\)\s+WHERE id = \$4 AND status <> \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.ApplyPayment(testApplication())
	assert.ErrorIs(t, err, paymentsync.ErrAlreadyMatched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkIgnoredRejectsMatchedRecordUnderLock(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM payment_sync_records WHERE id = \$1 FOR UPDATE`).
		WithArgs("sync-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("MATCHED"))
	mock.ExpectRollback()

	err := store.MarkIgnored("sync-1", "user-1")
	assert.ErrorIs(t, err, paymentsync.ErrAlreadyMatched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkIgnoredDismissesUnmatchedRecord(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM payment_sync_records WHERE id = \$1 FOR UPDATE`).
		WithArgs("sync-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("UNMATCHED"))
	mock.ExpectExec(`UPDATE payment_sync_records SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("IGNORED", "sync-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.MarkIgnored("sync-1", "user-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

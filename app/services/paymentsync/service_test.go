package paymentsync

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayment struct {
	ID        string
	InvoiceID string
	UTR       string
	Amount    decimal.Decimal
}

// fakeStore is an in-memory Store with the same semantics as the Postgres
// implementation, minus locking.
type fakeStore struct {
	invoices    map[string]*models.Invoice
	syncRecords map[string]*models.PaymentSyncRecord
	payments    []fakePayment
	ignored     []string
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices:    make(map[string]*models.Invoice),
		syncRecords: make(map[string]*models.PaymentSyncRecord),
	}
}

func (f *fakeStore) addInvoice(number, total string) *models.Invoice {
	f.nextID++
	inv := &models.Invoice{
		ID:            fmt.Sprintf("inv-%d", f.nextID),
		InvoiceNumber: number,
		TotalAmount:   decimal.RequireFromString(total),
		PaidAmount:    decimal.Zero,
		BalanceDue:    decimal.RequireFromString(total),
		Status:        models.InvoiceSent,
	}
	f.invoices[inv.ID] = inv
	return inv
}

func (f *fakeStore) FindInvoiceByNumber(number string) (*models.Invoice, error) {
	for _, inv := range f.invoices {
		if strings.EqualFold(inv.InvoiceNumber, number) {
			return inv, nil
		}
	}
	return nil, ErrInvoiceNotFound
}

func (f *fakeStore) GetInvoiceByID(id string) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

func (f *fakeStore) SearchInvoices(query string, limit int) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, inv := range f.invoices {
		if strings.Contains(strings.ToLower(inv.InvoiceNumber), strings.ToLower(query)) {
			out = append(out, inv)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSyncRecord(rec *models.PaymentSyncRecord) error {
	f.nextID++
	rec.ID = fmt.Sprintf("sync-%d", f.nextID)
	rec.CreatedAt = time.Now()
	f.syncRecords[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetSyncRecord(id string) (*models.PaymentSyncRecord, error) {
	rec, ok := f.syncRecords[id]
	if !ok {
		return nil, ErrSyncRecordNotFound
	}
	return rec, nil
}

func (f *fakeStore) MarkIgnored(id, actor string) error {
	rec, ok := f.syncRecords[id]
	if !ok {
		return ErrSyncRecordNotFound
	}
	if rec.Status == models.SyncMatched {
		return ErrAlreadyMatched
	}
	rec.Status = models.SyncIgnored
	f.ignored = append(f.ignored, id)
	return nil
}

func (f *fakeStore) HasDuplicatePayment(invoiceID, utr string, amount decimal.Decimal) (bool, error) {
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID && p.UTR == utr && p.Amount.Equal(amount) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ApplyPayment(app PaymentApplication) (string, error) {
	inv, ok := f.invoices[app.InvoiceID]
	if !ok {
		return "", ErrInvoiceNotFound
	}
	// Same guard the Postgres store enforces inside its transaction.
	if rec, ok := f.syncRecords[app.SyncRecordID]; ok && rec.Status == models.SyncMatched {
		return "", ErrAlreadyMatched
	}

	inv.PaidAmount, inv.BalanceDue, inv.Status = inv.AfterPayment(app.Amount)

	f.nextID++
	paymentID := fmt.Sprintf("pay-%d", f.nextID)
	f.payments = append(f.payments, fakePayment{
		ID:        paymentID,
		InvoiceID: inv.ID,
		UTR:       app.UTR,
		Amount:    app.Amount,
	})

	if rec, ok := f.syncRecords[app.SyncRecordID]; ok {
		rec.Status = models.SyncMatched
		rec.InvoiceID = &inv.ID
		rec.PaymentID = &paymentID
	}
	return paymentID, nil
}

func feedRecord(number, amount, utr string) PaymentRecord {
	return PaymentRecord{
		InvoiceNumber: number,
		NetAmount:     decimal.RequireFromString(amount),
		UTRNumber:     utr,
		Date:          "2026-08-14 10:32:00",
	}
}

func TestProcessBatchAppliesMatchedPayment(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-2026-001", "10000.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("INV-2026-001", "4000.00", "UTR001"),
	}, models.ActorSystemSync)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 0, result.Unmatched)
	assert.Equal(t, 0, result.Errors)

	assert.True(t, inv.PaidAmount.Equal(decimal.RequireFromString("4000")))
	assert.True(t, inv.BalanceDue.Equal(decimal.RequireFromString("6000")))
	assert.Equal(t, models.InvoicePartiallyPaid, inv.Status)

	require.Len(t, result.Details, 1)
	rec, err := store.GetSyncRecord(result.Details[0].SyncRecordID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncMatched, rec.Status)
	require.NotNil(t, rec.InvoiceID)
	require.NotNil(t, rec.PaymentID)
	assert.Equal(t, inv.ID, *rec.InvoiceID)
}

func TestProcessBatchMatchesCaseInsensitively(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-2026-001", "5000.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("inv-2026-001", "5000.00", "UTR002"),
	}, models.ActorSystemSync)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.True(t, inv.BalanceDue.IsZero())
}

func TestProcessBatchExactInstallmentsSettle(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-2026-002", "99999.99")
	svc := New(store)

	var records []PaymentRecord
	for i := 0; i < 3; i++ {
		records = append(records, feedRecord("INV-2026-002", "33333.33", fmt.Sprintf("UTR%03d", i)))
	}
	result := svc.ProcessBatch(records, models.ActorSystemSync)

	assert.Equal(t, 3, result.Matched)
	assert.True(t, inv.PaidAmount.Equal(decimal.RequireFromString("99999.99")))
	assert.True(t, inv.BalanceDue.IsZero())
	assert.Equal(t, models.InvoicePaid, inv.Status)
}

func TestProcessBatchUnknownInvoiceLeftUnmatched(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("INV-DOES-NOT-EXIST", "1200.00", "UTR003"),
	}, models.ActorSystemSync)

	assert.Equal(t, 1, result.Unmatched)
	assert.Empty(t, store.payments)

	require.Len(t, result.Details, 1)
	rec, err := store.GetSyncRecord(result.Details[0].SyncRecordID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncUnmatched, rec.Status)
	assert.Nil(t, rec.InvoiceID)
	assert.Nil(t, rec.PaymentID)
}

func TestProcessBatchBadRowDoesNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	invA := store.addInvoice("INV-A", "1000.00")
	invB := store.addInvoice("INV-B", "2000.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("INV-A", "1000.00", "UTR010"),
		{InvoiceNumber: "  ", NetAmount: decimal.RequireFromString("500.00"), UTRNumber: "UTR011", Date: "2026-08-14"},
		feedRecord("INV-B", "2000.00", "UTR012"),
	}, models.ActorSystemSync)

	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, models.InvoicePaid, invA.Status)
	assert.Equal(t, models.InvoicePaid, invB.Status)

	// The bad row still leaves an ERROR receipt in the sync table.
	var errored *models.PaymentSyncRecord
	for _, rec := range store.syncRecords {
		if rec.Status == models.SyncError {
			errored = rec
		}
	}
	require.NotNil(t, errored)
	assert.Contains(t, errored.ErrorMessage, "missing invoice number")
}

func TestProcessBatchUnparseableDateIsError(t *testing.T) {
	store := newFakeStore()
	store.addInvoice("INV-C", "1000.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		{InvoiceNumber: "INV-C", NetAmount: decimal.RequireFromString("1000.00"), UTRNumber: "UTR020", Date: "14/08/2026"},
	}, models.ActorSystemSync)

	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, store.payments)
}

func TestProcessBatchDuplicateDeliveryNotReapplied(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-D", "3000.00")
	svc := New(store)

	rec := feedRecord("INV-D", "1500.00", "UTR030")
	first := svc.ProcessBatch([]PaymentRecord{rec}, models.ActorSystemSync)
	second := svc.ProcessBatch([]PaymentRecord{rec}, models.ActorSystemSync)

	assert.Equal(t, 1, first.Matched)
	assert.Equal(t, 1, second.Unmatched)
	assert.Contains(t, second.Details[0].Message, "duplicate")

	// Ledger hit exactly once, but both deliveries left sync records.
	assert.Len(t, store.payments, 1)
	assert.True(t, inv.PaidAmount.Equal(decimal.RequireFromString("1500")))
	assert.Len(t, store.syncRecords, 2)
}

func TestManualMatchAppliesPayment(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-E", "800.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("TYPO-INV-E", "800.00", "UTR040"),
	}, models.ActorSystemSync)
	require.Equal(t, 1, result.Unmatched)
	syncID := result.Details[0].SyncRecordID

	err := svc.ManualMatch(syncID, inv.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.InvoicePaid, inv.Status)
	rec, _ := store.GetSyncRecord(syncID)
	assert.Equal(t, models.SyncMatched, rec.Status)
}

func TestManualMatchRejectsMatchedRecord(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-F", "100.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("INV-F", "100.00", "UTR050"),
	}, models.ActorSystemSync)
	require.Equal(t, 1, result.Matched)

	err := svc.ManualMatch(result.Details[0].SyncRecordID, inv.ID, "user-1")
	assert.ErrorIs(t, err, ErrAlreadyMatched)
}

func TestManualMatchUnknownRecordAndInvoice(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-G", "100.00")
	svc := New(store)

	err := svc.ManualMatch("sync-missing", inv.ID, "user-1")
	assert.ErrorIs(t, err, ErrSyncRecordNotFound)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("NOPE", "100.00", "UTR060"),
	}, models.ActorSystemSync)
	err = svc.ManualMatch(result.Details[0].SyncRecordID, "inv-missing", "user-1")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestManualMatchRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	inv := store.addInvoice("INV-H", "100.00")
	svc := New(store)

	sync := &models.PaymentSyncRecord{
		InvoiceNumber: "INV-H",
		NetAmount:     decimal.Zero,
		Status:        models.SyncUnmatched,
	}
	require.NoError(t, store.CreateSyncRecord(sync))

	err := svc.ManualMatch(sync.ID, inv.ID, "user-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// staleReadStore hands back the snapshot a concurrent caller would have read
// before another match committed, so the service-level status check passes and
// only the store's transactional guard stands between the record and a second
// payment.
type staleReadStore struct {
	*fakeStore
	snapshot *models.PaymentSyncRecord
}

func (s *staleReadStore) GetSyncRecord(id string) (*models.PaymentSyncRecord, error) {
	if s.snapshot != nil && s.snapshot.ID == id {
		stale := *s.snapshot
		return &stale, nil
	}
	return s.fakeStore.GetSyncRecord(id)
}

func TestManualMatchStaleStatusReadAppliesOnce(t *testing.T) {
	inner := newFakeStore()
	inv := inner.addInvoice("INV-RACE", "2000.00")
	store := &staleReadStore{fakeStore: inner}
	svc := New(store)

	result := New(inner).ProcessBatch([]PaymentRecord{
		feedRecord("TYPO-INV-RACE", "1000.00", "UTR090"),
	}, models.ActorSystemSync)
	require.Equal(t, 1, result.Unmatched)
	syncID := result.Details[0].SyncRecordID

	rec, err := inner.GetSyncRecord(syncID)
	require.NoError(t, err)
	stale := *rec
	store.snapshot = &stale

	require.NoError(t, svc.ManualMatch(syncID, inv.ID, "user-1"))

	// The second caller read the record before the first commit, so its
	// pre-check sees UNMATCHED; the payment must still be applied once.
	err = svc.ManualMatch(syncID, inv.ID, "user-2")
	assert.ErrorIs(t, err, ErrAlreadyMatched)

	assert.Len(t, inner.payments, 1)
	assert.True(t, inv.PaidAmount.Equal(decimal.RequireFromString("1000")))
	assert.True(t, inv.BalanceDue.Equal(decimal.RequireFromString("1000")))

	// Same stale read on the ignore path must not dismiss a matched record.
	err = svc.Ignore(syncID, "user-2")
	assert.ErrorIs(t, err, ErrAlreadyMatched)
}

func TestIgnoreDismissesUnmatchedRecord(t *testing.T) {
	store := newFakeStore()
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("NOBODY", "50.00", "UTR070"),
	}, models.ActorSystemSync)
	syncID := result.Details[0].SyncRecordID

	require.NoError(t, svc.Ignore(syncID, "user-1"))
	rec, _ := store.GetSyncRecord(syncID)
	assert.Equal(t, models.SyncIgnored, rec.Status)
}

func TestIgnoreRejectsMatchedRecord(t *testing.T) {
	store := newFakeStore()
	store.addInvoice("INV-I", "50.00")
	svc := New(store)

	result := svc.ProcessBatch([]PaymentRecord{
		feedRecord("INV-I", "50.00", "UTR080"),
	}, models.ActorSystemSync)
	require.Equal(t, 1, result.Matched)

	err := svc.Ignore(result.Details[0].SyncRecordID, "user-1")
	assert.ErrorIs(t, err, ErrAlreadyMatched)
}

func TestSearchInvoicesShortQueryReturnsNothing(t *testing.T) {
	store := newFakeStore()
	store.addInvoice("INV-J", "50.00")
	svc := New(store)

	out, err := svc.SearchInvoices(" a ")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = svc.SearchInvoices("inv")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

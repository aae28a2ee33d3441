package paymentsync

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/config"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	syncsvc "github.com/YashwanthPb/vyaparforge-sub001/app/services/paymentsync"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore counts writes so tests can assert rejected requests never touch
// persistence.
type stubStore struct {
	invoices    map[string]*models.Invoice
	syncCreates int
	applied     int
}

func (s *stubStore) FindInvoiceByNumber(number string) (*models.Invoice, error) {
	for _, inv := range s.invoices {
		if strings.EqualFold(inv.InvoiceNumber, number) {
			return inv, nil
		}
	}
	return nil, syncsvc.ErrInvoiceNotFound
}

func (s *stubStore) GetInvoiceByID(id string) (*models.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, syncsvc.ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *stubStore) SearchInvoices(query string, limit int) ([]*models.Invoice, error) {
	return nil, nil
}

func (s *stubStore) CreateSyncRecord(rec *models.PaymentSyncRecord) error {
	s.syncCreates++
	rec.ID = "sync-1"
	rec.CreatedAt = time.Now()
	return nil
}

func (s *stubStore) GetSyncRecord(id string) (*models.PaymentSyncRecord, error) {
	return nil, syncsvc.ErrSyncRecordNotFound
}

func (s *stubStore) MarkIgnored(id, actor string) error { return nil }

func (s *stubStore) HasDuplicatePayment(invoiceID, utr string, amount decimal.Decimal) (bool, error) {
	return false, nil
}

func (s *stubStore) ApplyPayment(app syncsvc.PaymentApplication) (string, error) {
	s.applied++
	return "pay-1", nil
}

func feedApp(store *stubStore) *fiber.App {
	svc := syncsvc.New(store)
	app := fiber.New()
	app.Post("/api/payment-sync/feed", func(c *fiber.Ctx) error {
		return FeedAPI(c, svc)
	})
	return app
}

func postFeed(t *testing.T, app *fiber.App, apiKey, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/payment-sync/feed", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestFeedAPIRejectsBadKey(t *testing.T) {
	config.AppConfig = &config.Config{SyncAPIKey: "topsecret"}
	store := &stubStore{invoices: map[string]*models.Invoice{}}
	app := feedApp(store)

	for _, key := range []string{"", "wrong-key"} {
		status, body := postFeed(t, app, key, `[{"invoiceNumber":"INV-1","netAmount":100,"date":"2026-08-14"}]`)
		assert.Equal(t, 401, status)
		assert.Equal(t, "Unauthorized", body["error"])
	}

	// Rejected requests must leave no trace in the sync table.
	assert.Equal(t, 0, store.syncCreates)
	assert.Equal(t, 0, store.applied)
}

func TestFeedAPIRejectsWhenKeyUnconfigured(t *testing.T) {
	config.AppConfig = &config.Config{SyncAPIKey: ""}
	store := &stubStore{invoices: map[string]*models.Invoice{}}
	app := feedApp(store)

	status, _ := postFeed(t, app, "anything", `[]`)
	assert.Equal(t, 401, status)
	assert.Equal(t, 0, store.syncCreates)
}

func TestFeedAPIRejectsNonArrayBody(t *testing.T) {
	config.AppConfig = &config.Config{SyncAPIKey: "topsecret"}
	store := &stubStore{invoices: map[string]*models.Invoice{}}
	app := feedApp(store)

	for _, payload := range []string{`{"invoiceNumber":"INV-1"}`, `null`, `"INV-1"`} {
		status, body := postFeed(t, app, "topsecret", payload)
		assert.Equal(t, 400, status, payload)
		assert.Contains(t, body["error"], "expected array", payload)
	}
	assert.Equal(t, 0, store.syncCreates)

	// An empty array is a valid, if pointless, batch.
	status, _ := postFeed(t, app, "topsecret", `[]`)
	assert.Equal(t, 200, status)
}

func TestFeedAPIProcessesBatch(t *testing.T) {
	config.AppConfig = &config.Config{SyncAPIKey: "topsecret"}
	store := &stubStore{invoices: map[string]*models.Invoice{
		"inv-1": {
			ID:            "inv-1",
			InvoiceNumber: "INV-2026-001",
			TotalAmount:   decimal.RequireFromString("5000"),
			Status:        models.InvoiceSent,
		},
	}}
	app := feedApp(store)

	status, body := postFeed(t, app, "topsecret", `[
		{"invoiceNumber":"INV-2026-001","netAmount":5000,"utrNumber":"UTR1","date":"2026-08-14 09:00:00"},
		{"invoiceNumber":"INV-UNKNOWN","netAmount":250,"utrNumber":"UTR2","date":"2026-08-14"}
	]`)

	assert.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["matched"])
	assert.Equal(t, float64(1), body["unmatched"])
	assert.Equal(t, float64(0), body["errors"])
	assert.Equal(t, 2, store.syncCreates)
	assert.Equal(t, 1, store.applied)
}

func TestRowsToRecordsMapsByHeader(t *testing.T) {
	rows := [][]string{
		{"Date", "Invoice Number", "Net Amount", "UTR Number", "Gross Amount", "Confidence"},
		{"2026-08-14", "INV-1", "1,23,456.78", "UTR9", "1,25,000.00", "high"},
		{"2026-08-15", "INV-2", "", "UTR10"},
	}

	records, err := rowsToRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "INV-1", records[0].InvoiceNumber)
	assert.True(t, records[0].NetAmount.Equal(decimal.RequireFromString("123456.78")))
	assert.True(t, records[0].GrossAmount.Equal(decimal.RequireFromString("125000")))
	assert.Equal(t, "high", records[0].Confidence)

	// Short rows fall back to zero values.
	assert.True(t, records[1].NetAmount.IsZero())
	assert.Equal(t, "UTR10", records[1].UTRNumber)
}

func TestRowsToRecordsRequiresInvoiceColumn(t *testing.T) {
	rows := [][]string{
		{"Date", "Net Amount"},
		{"2026-08-14", "100"},
	}
	_, err := rowsToRecords(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invoice Number")
}

package paymentsync

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one row of the external bank payment feed, as delivered
// by the scheduler POST or extracted from a bulk spreadsheet upload.
type PaymentRecord struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	UTRNumber     string          `json:"utrNumber"`
	UTRTotal      decimal.Decimal `json:"utrTotal"`
	Date          string          `json:"date"`
	Division      string          `json:"division"`
	PONumber      string          `json:"poNumber"`
	GrossAmount   decimal.Decimal `json:"grossAmount"`
	DiffPercent   decimal.Decimal `json:"diffPercent"`
	Confidence    string          `json:"confidence"`
	MailLink      string          `json:"mailLink"`
}

// RecordOutcome reports what happened to one record of a batch.
type RecordOutcome struct {
	InvoiceNumber string `json:"invoiceNumber"`
	UTRNumber     string `json:"utrNumber"`
	Status        string `json:"status"` // matched | unmatched | error
	Message       string `json:"message,omitempty"`
	SyncRecordID  string `json:"syncRecordId,omitempty"`
}

// BatchResult summarizes one ProcessBatch call.
type BatchResult struct {
	Matched   int             `json:"matched"`
	Unmatched int             `json:"unmatched"`
	Errors    int             `json:"errors"`
	Details   []RecordOutcome `json:"details"`
}

// Feed dates arrive either with a time component or as a bare date.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// parseFeedDate tries each accepted layout in order.
func parseFeedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// normalize validates one feed record, returning the trimmed invoice number
// and the parsed payment date.
func (r PaymentRecord) normalize() (string, time.Time, error) {
	number := strings.TrimSpace(r.InvoiceNumber)
	if number == "" {
		return "", time.Time{}, fmt.Errorf("missing invoice number")
	}
	date, err := parseFeedDate(r.Date)
	if err != nil {
		return number, time.Time{}, err
	}
	return number, date, nil
}

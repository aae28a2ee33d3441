package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func invoiceWith(total, paid string, status InvoiceStatus) *Invoice {
	return &Invoice{
		TotalAmount: decimal.RequireFromString(total),
		PaidAmount:  decimal.RequireFromString(paid),
		BalanceDue:  decimal.RequireFromString(total).Sub(decimal.RequireFromString(paid)),
		Status:      status,
	}
}

func TestAfterPaymentPartial(t *testing.T) {
	inv := invoiceWith("10000.00", "0", InvoiceSent)

	paid, balance, status := inv.AfterPayment(decimal.RequireFromString("2500.50"))

	assert.True(t, paid.Equal(decimal.RequireFromString("2500.50")))
	assert.True(t, balance.Equal(decimal.RequireFromString("7499.50")))
	assert.Equal(t, InvoicePartiallyPaid, status)
}

func TestAfterPaymentExactSettlement(t *testing.T) {
	inv := invoiceWith("10000.00", "7499.50", InvoicePartiallyPaid)

	paid, balance, status := inv.AfterPayment(decimal.RequireFromString("2500.50"))

	assert.True(t, paid.Equal(decimal.RequireFromString("10000")))
	assert.True(t, balance.IsZero())
	assert.Equal(t, InvoicePaid, status)
}

func TestAfterPaymentOverpayment(t *testing.T) {
	inv := invoiceWith("1000.00", "900.00", InvoicePartiallyPaid)

	paid, balance, status := inv.AfterPayment(decimal.RequireFromString("200.00"))

	assert.True(t, paid.Equal(decimal.RequireFromString("1100")))
	assert.True(t, balance.Equal(decimal.RequireFromString("-100")))
	assert.Equal(t, InvoicePaid, status)
}

func TestAfterPaymentNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style amounts must settle exactly.
	inv := invoiceWith("0.30", "0", InvoiceSent)

	inv.PaidAmount, inv.BalanceDue, inv.Status = inv.AfterPayment(decimal.RequireFromString("0.10"))
	inv.PaidAmount, inv.BalanceDue, inv.Status = inv.AfterPayment(decimal.RequireFromString("0.20"))

	assert.True(t, inv.BalanceDue.IsZero())
	assert.Equal(t, InvoicePaid, inv.Status)
}

func TestAfterReceiptTransitions(t *testing.T) {
	po := &PurchaseOrder{
		TotalQty:    decimal.RequireFromString("100"),
		ReceivedQty: decimal.Zero,
		Status:      POOpen,
	}

	received, balance, status := po.AfterReceipt(decimal.RequireFromString("40"))
	assert.True(t, received.Equal(decimal.RequireFromString("40")))
	assert.True(t, balance.Equal(decimal.RequireFromString("60")))
	assert.Equal(t, POPartial, status)

	po.ReceivedQty = received
	received, balance, status = po.AfterReceipt(decimal.RequireFromString("60"))
	assert.True(t, received.Equal(decimal.RequireFromString("100")))
	assert.True(t, balance.IsZero())
	assert.Equal(t, POClosed, status)
}

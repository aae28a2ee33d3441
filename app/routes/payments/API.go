package payments

import (
	"database/sql"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RecordPaymentAPI applies a manually entered payment to an invoice. It goes
// through the same ledger update rule as reconciliation, so invoice
// paid/balance/status stay consistent whichever path moved them.
func RecordPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req struct {
		InvoiceID   string          `json:"invoice_id"`
		Amount      decimal.Decimal `json:"amount"`
		PaymentDate time.Time       `json:"payment_date"`
		Mode        string          `json:"mode"`
		Reference   string          `json:"reference"`
		Remarks     string          `json:"remarks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.InvoiceID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "invoice_id is required"})
	}
	if req.Amount.Sign() <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amount must be positive"})
	}

	mode := models.PaymentMode(req.Mode)
	switch mode {
	case models.ModeNEFT, models.ModeRTGS, models.ModeCheque, models.ModeUPI, models.ModeCash:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment mode"})
	}

	p := &models.Payment{
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Mode:        mode,
		Reference:   req.Reference,
		Remarks:     req.Remarks,
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}

	actor := c.Locals("user_id").(string)
	if err := database.RecordPayment(db, p, actor); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": p})
}

// GetPaymentsAPI returns the global payment listing with filters.
func GetPaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.PaymentFilters{
		Mode:      c.Query("mode"),
		Reference: c.Query("reference"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}

	payments, err := database.ListPayments(db, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	return c.JSON(fiber.Map{"success": true, "data": payments})
}

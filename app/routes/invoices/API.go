package invoices

import (
	"database/sql"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type invoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number"`
	PartyID       string          `json:"party_id"`
	PONumber      string          `json:"po_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
}

// CreateInvoiceAPI creates an invoice in DRAFT or SENT status. Paid amount
// always starts at zero; only the payment paths may move it.
func CreateInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	var req invoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.InvoiceNumber == "" || req.PartyID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "invoice_number and party_id are required"})
	}
	if req.TotalAmount.Sign() <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "total_amount must be positive"})
	}

	status := models.InvoiceDraft
	if req.Status == string(models.InvoiceSent) {
		status = models.InvoiceSent
	}

	inv := &models.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		PartyID:       req.PartyID,
		PONumber:      req.PONumber,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    decimal.Zero,
		Status:        status,
		Notes:         req.Notes,
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = time.Now()
	}

	actor := c.Locals("user_id").(string)
	if err := database.CreateInvoice(db, inv, actor); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create invoice"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": inv})
}

// GetInvoicesAPI returns the filtered, sorted invoice listing.
func GetInvoicesAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.InvoiceFilters{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		PartyID:   c.Query("party_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}

	invoices, err := database.ListInvoices(db, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch invoices"})
	}
	return c.JSON(fiber.Map{"success": true, "data": invoices})
}

// GetInvoiceByIDAPI returns one invoice with its payment history.
func GetInvoiceByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	inv, err := database.GetInvoiceByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch invoice"})
	}

	payments, err := database.ListPaymentsByInvoice(db, inv.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	inv.Payments = payments

	return c.JSON(fiber.Map{"success": true, "data": inv})
}

// UpdateInvoiceAPI edits invoice header fields. Cancelled and paid invoices
// stay frozen.
func UpdateInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	existing, err := database.GetInvoiceByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch invoice"})
	}
	if existing.Status == models.InvoicePaid || existing.Status == models.InvoiceCancelled {
		return c.Status(409).JSON(fiber.Map{"error": "Paid or cancelled invoices cannot be edited"})
	}

	var req invoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	existing.InvoiceNumber = req.InvoiceNumber
	existing.PartyID = req.PartyID
	existing.PONumber = req.PONumber
	existing.InvoiceDate = req.InvoiceDate
	existing.DueDate = req.DueDate
	existing.TotalAmount = req.TotalAmount
	existing.Notes = req.Notes
	if req.Status != "" {
		existing.Status = models.InvoiceStatus(req.Status)
	}

	actor := c.Locals("user_id").(string)
	if err := database.UpdateInvoice(db, existing, actor); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update invoice"})
	}

	return c.JSON(fiber.Map{"success": true, "data": existing})
}

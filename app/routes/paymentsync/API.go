package paymentsync

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/YashwanthPb/vyaparforge-sub001/app/config"
	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	syncsvc "github.com/YashwanthPb/vyaparforge-sub001/app/services/paymentsync"
	"github.com/gofiber/fiber/v2"
)

// FeedAPI ingests a batch of payment records pushed by the external
// scheduler. Authentication is a shared-secret x-api-key header; the body
// must be a JSON array of payment records.
func FeedAPI(c *fiber.Ctx, svc *syncsvc.Service) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("payment-sync: feed endpoint panic: %v", r)
			err = c.Status(500).JSON(fiber.Map{
				"error":   "Internal Server Error",
				"message": fmt.Sprint(r),
			})
		}
	}()

	key := c.Get("x-api-key")
	secret := config.GetSyncAPIKey()
	if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var records []syncsvc.PaymentRecord
	if jsonErr := json.Unmarshal(c.Body(), &records); jsonErr != nil || records == nil {
		// records == nil catches a literal null body, which unmarshals
		// without error but is not an array.
		return c.Status(400).JSON(fiber.Map{"error": "Invalid body, expected array of payment records"})
	}

	result := svc.ProcessBatch(records, models.ActorSystemSync)
	return c.JSON(fiber.Map{
		"matched":   result.Matched,
		"unmatched": result.Unmatched,
		"errors":    result.Errors,
		"details":   result.Details,
	})
}

// ManualMatchAPI binds an unmatched sync record to the invoice the operator
// chose.
func ManualMatchAPI(c *fiber.Ctx, svc *syncsvc.Service) error {
	syncID := c.Params("id")

	var req struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.InvoiceID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "invoice_id is required"})
	}

	actor := c.Locals("user_id").(string)
	if err := svc.ManualMatch(syncID, req.InvoiceID, actor); err != nil {
		return syncErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Payment matched successfully"})
}

// IgnoreAPI dismisses a sync record from the review queue.
func IgnoreAPI(c *fiber.Ctx, svc *syncsvc.Service) error {
	syncID := c.Params("id")

	actor := c.Locals("user_id").(string)
	if err := svc.Ignore(syncID, actor); err != nil {
		return syncErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Record ignored"})
}

// SearchInvoicesAPI returns manual-match candidate invoices.
func SearchInvoicesAPI(c *fiber.Ctx, svc *syncsvc.Service) error {
	invoices, err := svc.SearchInvoices(c.Query("q"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search invoices"})
	}
	return c.JSON(fiber.Map{"success": true, "data": invoices})
}

// ListSyncRecordsAPI backs the reconciliation dashboard table.
func ListSyncRecordsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.SyncRecordFilters{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	records, err := database.ListSyncRecords(db, filters)
	if err != nil {
		log.Printf("payment-sync: list records: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sync records"})
	}
	return c.JSON(fiber.Map{"success": true, "data": records})
}

// syncErrorResponse maps service errors onto operator-facing responses.
// Manual actions get precise messages since an operator actively chose them.
func syncErrorResponse(c *fiber.Ctx, err error) error {
	switch err {
	case syncsvc.ErrSyncRecordNotFound, syncsvc.ErrInvoiceNotFound:
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case syncsvc.ErrAlreadyMatched:
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case syncsvc.ErrInvalidAmount:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("payment-sync: manual action failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to complete action"})
	}
}

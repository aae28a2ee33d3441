package purchaseorders

import (
	"database/sql"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func CreatePurchaseOrderAPI(c *fiber.Ctx, db *sql.DB) error {
	var req struct {
		PONumber    string          `json:"po_number"`
		PartyID     string          `json:"party_id"`
		PODate      time.Time       `json:"po_date"`
		Description string          `json:"description"`
		TotalQty    decimal.Decimal `json:"total_qty"`
		UnitRate    decimal.Decimal `json:"unit_rate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.PONumber == "" || req.PartyID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "po_number and party_id are required"})
	}
	if req.TotalQty.Sign() <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "total_qty must be positive"})
	}

	po := &models.PurchaseOrder{
		PONumber:    req.PONumber,
		PartyID:     req.PartyID,
		PODate:      req.PODate,
		Description: req.Description,
		TotalQty:    req.TotalQty,
		ReceivedQty: decimal.Zero,
		UnitRate:    req.UnitRate,
		Status:      models.POOpen,
	}
	if po.PODate.IsZero() {
		po.PODate = time.Now()
	}

	actor := c.Locals("user_id").(string)
	if err := database.CreatePurchaseOrder(db, po, actor); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create purchase order"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": po})
}

func GetPurchaseOrdersAPI(c *fiber.Ctx, db *sql.DB) error {
	orders, err := database.ListPurchaseOrders(db, c.Query("status"), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch purchase orders"})
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

func GetPurchaseOrderByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	po, err := database.GetPurchaseOrderByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Purchase order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch purchase order"})
	}
	return c.JSON(fiber.Map{"success": true, "data": po})
}

// ReceiveAPI records quantity received against a PO outside the gate pass
// flow (e.g. direct courier receipt).
func ReceiveAPI(c *fiber.Ctx, db *sql.DB) error {
	var req struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	tx, err := db.Begin()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to start transaction"})
	}
	defer tx.Rollback()

	actor := c.Locals("user_id").(string)
	if err := database.ReceiveAgainstPO(tx, c.Params("id"), req.Quantity, actor); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if err := tx.Commit(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record receipt"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Receipt recorded"})
}

package gatepasses

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func CreateGatePassAPI(c *fiber.Ctx, db *sql.DB) error {
	var req struct {
		Type      string          `json:"type"`
		PartyID   string          `json:"party_id"`
		POID      *string         `json:"po_id"`
		ItemDesc  string          `json:"item_desc"`
		Quantity  decimal.Decimal `json:"quantity"`
		PassDate  time.Time       `json:"pass_date"`
		VehicleNo string          `json:"vehicle_no"`
		ChallanNo string          `json:"challan_no"`
		Remarks   string          `json:"remarks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	gpType := models.GatePassType(strings.ToUpper(req.Type))
	if gpType != models.GatePassInward && gpType != models.GatePassOutward {
		return c.Status(400).JSON(fiber.Map{"error": "type must be INWARD or OUTWARD"})
	}
	if req.PartyID == "" || req.ItemDesc == "" {
		return c.Status(400).JSON(fiber.Map{"error": "party_id and item_desc are required"})
	}
	if req.Quantity.Sign() <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "quantity must be positive"})
	}

	passNumber, err := database.NextPassNumber(db, gpType)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to allocate pass number"})
	}

	gp := &models.GatePass{
		PassNumber: passNumber,
		Type:       gpType,
		PartyID:    req.PartyID,
		POID:       req.POID,
		ItemDesc:   req.ItemDesc,
		Quantity:   req.Quantity,
		PassDate:   req.PassDate,
		VehicleNo:  req.VehicleNo,
		ChallanNo:  req.ChallanNo,
		Remarks:    req.Remarks,
	}
	if gp.PassDate.IsZero() {
		gp.PassDate = time.Now()
	}

	actor := c.Locals("user_id").(string)
	if err := database.CreateGatePass(db, gp, actor); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": gp})
}

func GetGatePassesAPI(c *fiber.Ctx, db *sql.DB) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	passes, err := database.ListGatePasses(db, database.GatePassFilters{
		Type:     strings.ToUpper(c.Query("type")),
		PartyID:  c.Query("party_id"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gate passes"})
	}
	return c.JSON(fiber.Map{"success": true, "data": passes})
}

func GetGatePassByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	gp, err := database.GetGatePassByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Gate pass not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gate pass"})
	}
	return c.JSON(fiber.Map{"success": true, "data": gp})
}

package parties

import (
	"database/sql"
	"strings"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/gofiber/fiber/v2"
)

type partyRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (r *partyRequest) validate() (models.PartyKind, string) {
	if strings.TrimSpace(r.Name) == "" {
		return "", "name is required"
	}
	kind := models.PartyKind(strings.ToUpper(r.Kind))
	switch kind {
	case models.PartyCustomer, models.PartyVendor:
		return kind, ""
	}
	return "", "kind must be CUSTOMER or VENDOR"
}

func CreatePartyAPI(c *fiber.Ctx, db *sql.DB) error {
	var req partyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	kind, msg := req.validate()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	p := &models.Party{
		Name:    strings.TrimSpace(req.Name),
		Kind:    kind,
		GSTIN:   req.GSTIN,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := database.CreateParty(db, p); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create party"})
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": p})
}

func GetPartiesAPI(c *fiber.Ctx, db *sql.DB) error {
	parties, err := database.ListParties(db, strings.ToUpper(c.Query("kind")), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch parties"})
	}
	return c.JSON(fiber.Map{"success": true, "data": parties})
}

func GetPartyByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	p, err := database.GetPartyByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Party not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch party"})
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

func UpdatePartyAPI(c *fiber.Ctx, db *sql.DB) error {
	var req partyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	kind, msg := req.validate()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	p := &models.Party{
		ID:      c.Params("id"),
		Name:    strings.TrimSpace(req.Name),
		Kind:    kind,
		GSTIN:   req.GSTIN,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := database.UpdateParty(db, p); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Party not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update party"})
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

func DeactivatePartyAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateParty(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Party not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate party"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Party deactivated"})
}

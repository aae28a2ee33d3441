package gatepasses

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/gofiber/fiber/v2"
)

// ExportCSVAPI streams the filtered gate pass register as a CSV download.
func ExportCSVAPI(c *fiber.Ctx, db *sql.DB) error {
	passes, err := database.ListGatePasses(db, database.GatePassFilters{
		Type:     strings.ToUpper(c.Query("type")),
		PartyID:  c.Query("party_id"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gate passes"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Pass Number", "Type", "Party", "Item", "Quantity", "Date", "Vehicle No", "Challan No", "Remarks"}
	if err := w.Write(header); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}
	for _, gp := range passes {
		row := []string{
			gp.PassNumber,
			string(gp.Type),
			gp.Party.Name,
			gp.ItemDesc,
			gp.Quantity.String(),
			gp.PassDate.Format("2006-01-02"),
			gp.VehicleNo,
			gp.ChallanNo,
			gp.Remarks,
		}
		if err := w.Write(row); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}

	filename := fmt.Sprintf("gate-passes-%s.csv", time.Now().Format("20060102"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

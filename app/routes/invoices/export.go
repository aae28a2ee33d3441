package invoices

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"Invoice Number", "Party", "PO Number", "Invoice Date", "Due Date",
	"Total Amount", "Paid Amount", "Balance Due", "Status",
}

func exportRows(db *sql.DB, c *fiber.Ctx) ([]*models.Invoice, error) {
	filters := database.InvoiceFilters{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		PartyID:  c.Query("party_id"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	return database.ListInvoices(db, filters)
}

func rowValues(inv *models.Invoice) []string {
	due := ""
	if inv.DueDate != nil {
		due = inv.DueDate.Format("2006-01-02")
	}
	return []string{
		inv.InvoiceNumber,
		inv.Party.Name,
		inv.PONumber,
		inv.InvoiceDate.Format("2006-01-02"),
		due,
		inv.TotalAmount.StringFixed(2),
		inv.PaidAmount.StringFixed(2),
		inv.BalanceDue.StringFixed(2),
		string(inv.Status),
	}
}

// ExportCSVAPI streams the current invoice listing as a CSV download.
func ExportCSVAPI(c *fiber.Ctx, db *sql.DB) error {
	invoices, err := exportRows(db, c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch invoices"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}
	for _, inv := range invoices {
		if err := w.Write(rowValues(inv)); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write CSV"})
	}

	filename := fmt.Sprintf("invoices-%s.csv", time.Now().Format("20060102"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// ExportExcelAPI streams the current invoice listing as an xlsx download.
func ExportExcelAPI(c *fiber.Ctx, db *sql.DB) error {
	invoices, err := exportRows(db, c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch invoices"})
	}

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	for i, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(sheet, cell, name); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to build Excel file"})
		}
	}
	for r, inv := range invoices {
		for col, val := range rowValues(inv) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := wb.SetCellValue(sheet, cell, val); err != nil {
				return c.Status(500).JSON(fiber.Map{"error": "Failed to build Excel file"})
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build Excel file"})
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

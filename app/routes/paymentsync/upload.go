package paymentsync

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	syncsvc "github.com/YashwanthPb/vyaparforge-sub001/app/services/paymentsync"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Expected spreadsheet column headers. Matching is exact on the trimmed
// header text; columns may appear in any order and extra columns are ignored.
const (
	colInvoiceNumber = "Invoice Number"
	colNetAmount     = "Net Amount"
	colUTRNumber     = "UTR Number"
	colUTRTotal      = "UTR Total"
	colDate          = "Date"
	colDivision      = "Division"
	colPONumber      = "PO Number"
	colGrossAmount   = "Gross Amount"
	colDiffPercent   = "Diff % (Gross - Net)"
	colConfidence    = "Confidence"
	colMailLink      = "Mail Link"
)

// UploadAPI ingests a manually uploaded spreadsheet of payment records. The
// rows are fed through the same engine entry point the feed endpoint uses,
// so both paths produce identical ledger effects.
func UploadAPI(c *fiber.Ctx, svc *syncsvc.Service) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "No file uploaded"})
	}

	rows, err := readSheetRows(fileHeader)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if len(rows) < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "File has no data rows"})
	}

	records, err := rowsToRecords(rows)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	result := svc.ProcessBatch(records, models.ActorManualUpload)
	log.Printf("payment-sync: upload %q processed %d rows", fileHeader.Filename, len(records))

	return c.JSON(fiber.Map{
		"success":   true,
		"matched":   result.Matched,
		"unmatched": result.Unmatched,
		"errors":    result.Errors,
		"details":   result.Details,
	})
}

// readSheetRows loads the uploaded file into rows of cells. Excel files are
// read from their first sheet; CSV files are read whole.
func readSheetRows(fh *multipart.FileHeader) ([][]string, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file")
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".xlsx":
		wb, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read Excel file")
		}
		defer wb.Close()
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		rows, err := wb.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read Excel rows")
		}
		return rows, nil
	case ".csv":
		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1
		var rows [][]string
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read CSV file")
			}
			rows = append(rows, row)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type, expected .xlsx or .csv")
	}
}

// rowsToRecords maps header-addressed cells into payment records. Missing
// numeric cells default to zero and missing text cells to empty strings, so
// a sparse sheet still ingests.
func rowsToRecords(rows [][]string) ([]syncsvc.PaymentRecord, error) {
	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	if _, ok := header[colInvoiceNumber]; !ok {
		return nil, fmt.Errorf("missing required column %q", colInvoiceNumber)
	}

	cell := func(row []string, col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	amount := func(row []string, col string) decimal.Decimal {
		s := cell(row, col)
		if s == "" {
			return decimal.Zero
		}
		// Sheets often carry thousands separators.
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
		if err != nil {
			return decimal.Zero
		}
		return d
	}

	records := make([]syncsvc.PaymentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		records = append(records, syncsvc.PaymentRecord{
			InvoiceNumber: cell(row, colInvoiceNumber),
			NetAmount:     amount(row, colNetAmount),
			UTRNumber:     cell(row, colUTRNumber),
			UTRTotal:      amount(row, colUTRTotal),
			Date:          cell(row, colDate),
			Division:      cell(row, colDivision),
			PONumber:      cell(row, colPONumber),
			GrossAmount:   amount(row, colGrossAmount),
			DiffPercent:   amount(row, colDiffPercent),
			Confidence:    cell(row, colConfidence),
			MailLink:      cell(row, colMailLink),
		})
	}
	return records, nil
}

package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// InvoiceData is the in-memory order summary the printable invoice consumes.
type InvoiceData struct {
	InvoiceNumber string
	CustomerName  string
	TableNumber   *int
	Lines         models.SnapshotLines
	Total         float64
	Date          time.Time
}

// BuildInvoicePDF renders an 80mm ticket-style invoice.
func BuildInvoicePDF(data InvoiceData) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: 80, Ht: 200},
	})
	pdf.SetMargins(4, 6, 4)
	pdf.SetAutoPageBreak(true, 6)
	pdf.AddPage()

	pdf.SetFont("Courier", "B", 12)
	pdf.CellFormat(0, 6, "La Selecta", "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(0, 4, "Factura "+data.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, data.Date.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")

	if data.TableNumber != nil {
		pdf.CellFormat(0, 4, fmt.Sprintf("Mesa %d", *data.TableNumber), "", 1, "C", false, 0, "")
	}
	if data.CustomerName != "" {
		pdf.CellFormat(0, 4, "Cliente: "+data.CustomerName, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Courier", "", 8)
	line := func(left, right string) {
		pdf.CellFormat(48, 4, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(24, 4, right, "", 1, "R", false, 0, "")
	}

	line("----------------------", "----------")
	for _, item := range data.Lines {
		line(fmt.Sprintf("%dx %s", item.Quantity, item.Name), utils.FormatCurrency(item.Subtotal))
		if item.Note != "" {
			pdf.CellFormat(0, 4, "  "+item.Note, "", 1, "L", false, 0, "")
		}
		if item.Extra != 0 {
			pdf.CellFormat(0, 4, fmt.Sprintf("  extra %s c/u", utils.FormatCurrency(item.Extra)), "", 1, "L", false, 0, "")
		}
	}
	line("----------------------", "----------")

	pdf.SetFont("Courier", "B", 10)
	line("TOTAL", utils.FormatCurrency(data.Total))

	pdf.Ln(4)
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(0, 4, "Gracias por su visita", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

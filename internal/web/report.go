package web

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/sirupsen/logrus"
)

// ReportGenerator genera el listado de clientes en PDF
type ReportGenerator struct {
	logger *logrus.Logger
}

// NewReportGenerator crea una nueva instancia del generador
func NewReportGenerator(logger *logrus.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger: logger,
	}
}

// CustomerListPDF genera un PDF A4 apaisado con una fila por cliente
func (r *ReportGenerator) CustomerListPDF(customers []models.Customer, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Customers", true)
	pdf.AddPage()

	// Header con color de fondo
	pdf.SetFillColor(47, 93, 58)
	pdf.Rect(0, 0, 297, 30, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(277, 12, "Pinewood Customer Store")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(277, 8, fmt.Sprintf("Customers: %d    Generated: %s", len(customers), generatedAt.UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(8)

	// Tabla
	pdf.SetY(40)
	pdf.SetFillColor(236, 240, 241)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetDrawColor(189, 195, 199)
	pdf.SetFont("Arial", "B", 10)

	colWidths := []float64{15, 50, 50, 80, 52, 20}
	colHeaders := []string{"ID", "First Name", "Last Name", "Email", "Phone Number", "Age"}
	for i, header := range colHeaders {
		pdf.CellFormat(colWidths[i], 10, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	rowHeight := 8.0

	for i, c := range customers {
		// Alternar colores de fila
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.CellFormat(colWidths[0], rowHeight, strconv.Itoa(c.ID), "1", 0, "R", true, 0, "")
		pdf.CellFormat(colWidths[1], rowHeight, tr(c.FirstName), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[2], rowHeight, tr(c.LastName), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[3], rowHeight, tr(c.Email), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[4], rowHeight, tr(c.PhoneNumber), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[5], rowHeight, strconv.Itoa(c.Age), "1", 0, "R", true, 0, "")
		pdf.Ln(rowHeight)
	}

	if len(customers) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(267, rowHeight, "No customers yet.", "1", 0, "C", false, 0, "")
		pdf.Ln(rowHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"customers": len(customers),
		"pdf_size":  buf.Len(),
	}).Info("Customer report generated")

	return buf.Bytes(), nil
}

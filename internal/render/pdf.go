// Package render turns a resolved invoice record into a PDF document.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

// ErrIncompleteRecord indicates the renderer was invoked with a record
// missing a required field. The resolver prevents this for callers that
// go through it; hitting this error means an integration bug.
var ErrIncompleteRecord = errors.New("incomplete invoice record")

// PDFRenderer renders invoices as single-page A4 PDF documents.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces the PDF bytes for a record. Rendering is a
// deterministic function of the record: the document creation date is
// pinned to the issue date, so the same record always yields the same
// bytes.
func (r *PDFRenderer) Render(rec invoice.Record) ([]byte, error) {
	if err := checkComplete(rec); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(rec.IssueDate)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(0, 14, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Header: number, date, currency
	headerRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "", 0, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	headerRow("Invoice Number:", rec.Number)
	headerRow("Issue Date:", rec.IssueDateString())
	headerRow("Currency:", invoice.Currency)
	pdf.Ln(6)

	// Contractor block
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "From:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, rec.ContractorName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Tax ID: "+rec.ContractorTaxID, "", 1, "L", false, 0, "")
	if rec.ContractorTaxStatus != "" {
		pdf.CellFormat(0, 6, "Tax Status: "+rec.ContractorTaxStatus, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Client block
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, rec.ClientName, "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 6, rec.ClientAddress, "", "L", false)
	pdf.CellFormat(0, 6, "Tax ID: "+rec.ClientTaxID, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Services table
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Services", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(224, 224, 224)
	pdf.CellFormat(130, 10, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 10, "Amount ("+invoice.Currency+")", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	description := rec.ServiceDescription + "\n" + rec.ServicePeriod
	y := pdf.GetY()
	pdf.MultiCell(130, 7, description, "1", "L", false)
	rowHeight := pdf.GetY() - y
	pdf.SetXY(150, y)
	pdf.CellFormat(40, rowHeight, rec.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(2)

	// Total
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 10, "Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 10, rec.AmountUSD(), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Remittance instructions
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Remittance Instructions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Account Holder: "+rec.AccountHolder, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Payment Tag: "+rec.PaymentTag, "", 1, "L", false, 0, "")
	if rec.AdditionalPaymentInfo != "" {
		pdf.MultiCell(0, 6, rec.AdditionalPaymentInfo, "", "L", false)
	}
	pdf.Ln(8)

	// Disclaimer
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.SetDrawColor(204, 204, 204)
	pdf.MultiCell(0, 6, rec.Disclaimer, "1", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func checkComplete(rec invoice.Record) error {
	required := []struct {
		name  string
		value string
	}{
		{"number", rec.Number},
		{"servicePeriod", rec.ServicePeriod},
		{"contractorName", rec.ContractorName},
		{"contractorTaxId", rec.ContractorTaxID},
		{"clientName", rec.ClientName},
		{"clientAddress", rec.ClientAddress},
		{"clientTaxId", rec.ClientTaxID},
		{"paymentTag", rec.PaymentTag},
		{"serviceDescription", rec.ServiceDescription},
		{"disclaimer", rec.Disclaimer},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", ErrIncompleteRecord, f.name)
		}
	}
	if rec.IssueDate.IsZero() {
		return fmt.Errorf("%w: missing issueDate", ErrIncompleteRecord)
	}
	if !rec.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrIncompleteRecord)
	}
	return nil
}

package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

func completeRecord(t *testing.T) invoice.Record {
	t.Helper()
	amount, err := decimal.NewFromString("500")
	if err != nil {
		t.Fatalf("failed to parse amount: %v", err)
	}
	return invoice.Record{
		Number:             "0003",
		IssueDate:          time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		ServicePeriod:      "Services provided during January 2025",
		Amount:             amount,
		ContractorName:     "Maria Gomez",
		ContractorTaxID:    "20-12345678-9",
		ClientName:         "Rexo, Inc.",
		ClientAddress:      "251 Little Falls Drive, Wilmington, Delaware 19808",
		ClientTaxID:        "33-2631448",
		PaymentTag:         "$mariag",
		AccountHolder:      "Maria Gomez",
		ServiceDescription: "Contractor services - Software Engineer",
		Disclaimer:         invoice.Disclaimer,
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	doc, err := NewPDFRenderer().Render(completeRecord(t))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if len(doc) < 500 {
		t.Errorf("suspiciously small document: %d bytes", len(doc))
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := NewPDFRenderer()
	rec := completeRecord(t)

	first, err := r.Render(rec)
	if err != nil {
		t.Fatalf("first Render failed: %v", err)
	}
	second, err := r.Render(rec)
	if err != nil {
		t.Fatalf("second Render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same record produced different documents")
	}
}

func TestRender_IncompleteRecord(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*invoice.Record)
		field  string
	}{
		{"no number", func(r *invoice.Record) { r.Number = "" }, "number"},
		{"no contractor", func(r *invoice.Record) { r.ContractorName = "" }, "contractorName"},
		{"no client address", func(r *invoice.Record) { r.ClientAddress = "" }, "clientAddress"},
		{"no payment tag", func(r *invoice.Record) { r.PaymentTag = "" }, "paymentTag"},
		{"no disclaimer", func(r *invoice.Record) { r.Disclaimer = "" }, "disclaimer"},
		{"zero issue date", func(r *invoice.Record) { r.IssueDate = time.Time{} }, "issueDate"},
		{"zero amount", func(r *invoice.Record) { r.Amount = decimal.Zero }, "amount"},
	}

	r := NewPDFRenderer()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := completeRecord(t)
			tc.mutate(&rec)

			_, err := r.Render(rec)
			if !errors.Is(err, ErrIncompleteRecord) {
				t.Fatalf("got %v, want ErrIncompleteRecord", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not name field %q", err, tc.field)
			}
		})
	}
}

package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return New(filepath.Join(dir, "invoice_data.json"), logger)
}

func sampleTemplate() invoice.Template {
	return invoice.Template{
		ContractorName:     "Maria Gomez",
		ContractorTaxID:    "20-12345678-9",
		ClientName:         "Rexo, Inc.",
		ClientAddress:      "251 Little Falls Drive, Wilmington, Delaware 19808",
		ClientTaxID:        "33-2631448",
		PaymentTag:         "$mariag",
		AccountHolder:      "Maria Gomez",
		ServiceDescription: "Contractor services - Software Engineer",
	}
}

func TestLoad_NotOnboarded(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.Load()
	if !errors.Is(err, ErrNotOnboarded) {
		t.Fatalf("expected ErrNotOnboarded, got %v", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st := setupTestStore(t)

	states := []State{
		{LastInvoiceNumber: 0, Templates: map[string]invoice.Template{}},
		{LastInvoiceNumber: 7, Templates: map[string]invoice.Template{"rexo": sampleTemplate()}},
		{LastInvoiceNumber: 10023, Templates: map[string]invoice.Template{
			"rexo": sampleTemplate(),
			"acme": {ContractorName: "Other", ClientName: "Acme Corp"},
		}},
	}

	for _, want := range states {
		if err := st.Save(want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := st.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
		}
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	st := setupTestStore(t)
	if err := st.Save(State{LastInvoiceNumber: 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(st.Path()))
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoad_IgnoresUnknownFields(t *testing.T) {
	st := setupTestStore(t)
	doc := `{"last_invoice_number": 4, "templates": {}, "schema_version": 2}`
	if err := os.WriteFile(st.Path(), []byte(doc), 0644); err != nil {
		t.Fatalf("failed to seed state file: %v", err)
	}

	s, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.LastInvoiceNumber != 4 {
		t.Errorf("LastInvoiceNumber = %d, want 4", s.LastInvoiceNumber)
	}
}

func TestTemplate_NotFound(t *testing.T) {
	s := State{Templates: map[string]invoice.Template{"rexo": sampleTemplate()}}
	_, err := s.Template("acme")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestPutTemplate_Overwrites(t *testing.T) {
	var s State
	s.PutTemplate("rexo", invoice.Template{ContractorName: "First"})
	s.PutTemplate("rexo", invoice.Template{ContractorName: "Second"})

	got, err := s.Template("rexo")
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}
	if got.ContractorName != "Second" {
		t.Errorf("ContractorName = %q, want last write to win", got.ContractorName)
	}
}

func TestTemplateSummaries_Sorted(t *testing.T) {
	var s State
	s.PutTemplate("zeta", invoice.Template{ContractorName: "Z", ClientName: "Zeta LLC"})
	s.PutTemplate("acme", invoice.Template{ContractorName: "A", ClientName: "Acme Corp"})
	s.PutTemplate("rexo", sampleTemplate())

	summaries := s.TemplateSummaries()
	wantOrder := []string{"acme", "rexo", "zeta"}
	if len(summaries) != len(wantOrder) {
		t.Fatalf("got %d summaries, want %d", len(summaries), len(wantOrder))
	}
	for i, name := range wantOrder {
		if summaries[i].Name != name {
			t.Errorf("summaries[%d].Name = %q, want %q", i, summaries[i].Name, name)
		}
	}
	if summaries[0].ClientName != "Acme Corp" {
		t.Errorf("summary ClientName = %q, want %q", summaries[0].ClientName, "Acme Corp")
	}
}

func TestNextNumber(t *testing.T) {
	s := State{LastInvoiceNumber: 2}

	number, updated := s.NextNumber()
	if number != "0003" {
		t.Errorf("number = %q, want %q", number, "0003")
	}
	if updated.LastInvoiceNumber != 3 {
		t.Errorf("updated counter = %d, want 3", updated.LastInvoiceNumber)
	}
	if s.LastInvoiceNumber != 2 {
		t.Errorf("original state mutated: counter = %d", s.LastInvoiceNumber)
	}
}

func TestNextNumber_WideNumbers(t *testing.T) {
	s := State{LastInvoiceNumber: 10022}
	number, _ := s.NextNumber()
	if number != "10023" {
		t.Errorf("number = %q, want %q (no truncation)", number, "10023")
	}
}

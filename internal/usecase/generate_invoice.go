package usecase

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/contractor-tools/invoicegen/internal/store"
	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

// StateStore is the persistence interface the services depend on.
type StateStore interface {
	Load() (store.State, error)
	Save(store.State) error
}

// Renderer produces the document bytes for a resolved invoice record.
type Renderer interface {
	Render(invoice.Record) ([]byte, error)
}

// GenerateParams carries everything one generation call needs.
type GenerateParams struct {
	TemplateName   string
	Overrides      invoice.Overrides
	Amount         string
	ServicePeriod  string
	IssueDate      string
	OutputPath     string
	SaveTemplateAs string
}

// GenerateResult reports the outcome of a successful generation.
type GenerateResult struct {
	Number     string
	OutputPath string
}

// GenerateInvoiceService resolves, numbers, persists and renders one invoice.
type GenerateInvoiceService struct {
	store    StateStore
	renderer Renderer
	logger   *slog.Logger
}

// NewGenerateInvoiceService creates a GenerateInvoiceService.
func NewGenerateInvoiceService(st StateStore, renderer Renderer, logger *slog.Logger) *GenerateInvoiceService {
	return &GenerateInvoiceService{
		store:    st,
		renderer: renderer,
		logger:   logger.With("component", "generate_invoice"),
	}
}

// Execute runs one generation: load state, fetch the template if one is
// named, resolve and validate the record, allocate the next number,
// render, persist the advanced counter, and write the document. The
// counter is only persisted after the record has validated and
// rendered, so neither a rejected call nor a render failure consumes a
// number.
func (s *GenerateInvoiceService) Execute(params GenerateParams) (GenerateResult, error) {
	state, err := s.store.Load()
	if err != nil {
		return GenerateResult{}, err
	}

	var tmpl *invoice.Template
	if params.TemplateName != "" {
		t, err := state.Template(params.TemplateName)
		if err != nil {
			return GenerateResult{}, err
		}
		tmpl = &t
	}

	record, err := invoice.Resolve(tmpl, params.Overrides, invoice.Invocation{
		Amount:        params.Amount,
		ServicePeriod: params.ServicePeriod,
		IssueDate:     params.IssueDate,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	number, updated := state.NextNumber()
	record.Number = number

	if params.SaveTemplateAs != "" {
		updated.PutTemplate(params.SaveTemplateAs, templateFromRecord(record))
	}

	document, err := s.renderer.Render(record)
	if err != nil {
		return GenerateResult{}, err
	}

	if err := s.store.Save(updated); err != nil {
		return GenerateResult{}, err
	}
	if err := os.WriteFile(params.OutputPath, document, 0644); err != nil {
		return GenerateResult{}, fmt.Errorf("failed to write invoice document %s: %w", params.OutputPath, err)
	}

	s.logger.Info("invoice generated",
		"number", number,
		"template", params.TemplateName,
		"output", params.OutputPath,
	)

	return GenerateResult{Number: number, OutputPath: params.OutputPath}, nil
}

// templateFromRecord captures the reusable fields of a generated invoice
// so they can be saved as a template for the next month.
func templateFromRecord(rec invoice.Record) invoice.Template {
	return invoice.Template{
		ContractorName:        rec.ContractorName,
		ContractorTaxID:       rec.ContractorTaxID,
		ContractorTaxStatus:   rec.ContractorTaxStatus,
		ClientName:            rec.ClientName,
		ClientAddress:         rec.ClientAddress,
		ClientTaxID:           rec.ClientTaxID,
		PaymentTag:            rec.PaymentTag,
		AccountHolder:         rec.AccountHolder,
		AdditionalPaymentInfo: rec.AdditionalPaymentInfo,
		ServiceDescription:    rec.ServiceDescription,
	}
}

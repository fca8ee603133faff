package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates the amount did not parse as a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDate indicates the issue date is not a valid YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid issue date")
)

// MissingFieldError indicates a field required by the renderer was empty
// after the template and overrides were merged.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Invocation holds the per-call variables that are always supplied
// explicitly and never come from a template.
type Invocation struct {
	Amount        string
	ServicePeriod string
	IssueDate     string
}

// Resolve merges an optional template with explicit overrides and the
// invocation variables into a complete Record. Template values are
// defaults; overrides replace them field by field; invocation variables
// are applied last, unconditionally. Validation runs in a fixed order
// and the first failure wins; no partial record is ever returned. The
// invoice number is assigned by the caller after a successful resolve,
// so a failed resolve never consumes a number.
func Resolve(tmpl *Template, ov Overrides, inv Invocation) (Record, error) {
	var fields Template
	if tmpl != nil {
		fields = *tmpl
	}
	apply(&fields.ContractorName, ov.ContractorName)
	apply(&fields.ContractorTaxID, ov.ContractorTaxID)
	apply(&fields.ContractorTaxStatus, ov.ContractorTaxStatus)
	apply(&fields.ClientName, ov.ClientName)
	apply(&fields.ClientAddress, ov.ClientAddress)
	apply(&fields.ClientTaxID, ov.ClientTaxID)
	apply(&fields.PaymentTag, ov.PaymentTag)
	apply(&fields.AccountHolder, ov.AccountHolder)
	apply(&fields.AdditionalPaymentInfo, ov.AdditionalPaymentInfo)
	apply(&fields.ServiceDescription, ov.ServiceDescription)

	amount, err := decimal.NewFromString(strings.TrimSpace(inv.Amount))
	if err != nil || !amount.IsPositive() {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidAmount, inv.Amount)
	}

	issueDate, err := time.Parse("2006-01-02", inv.IssueDate)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidDate, inv.IssueDate)
	}

	if strings.TrimSpace(inv.ServicePeriod) == "" {
		return Record{}, &MissingFieldError{Field: "servicePeriod"}
	}

	required := []struct {
		name  string
		value string
	}{
		{"contractorName", fields.ContractorName},
		{"contractorTaxId", fields.ContractorTaxID},
		{"clientName", fields.ClientName},
		{"clientAddress", fields.ClientAddress},
		{"clientTaxId", fields.ClientTaxID},
		{"paymentTag", fields.PaymentTag},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return Record{}, &MissingFieldError{Field: f.name}
		}
	}

	if fields.ServiceDescription == "" {
		fields.ServiceDescription = DefaultServiceDescription
	}
	if fields.AccountHolder == "" {
		fields.AccountHolder = fields.ContractorName
	}

	return Record{
		IssueDate:             issueDate,
		ServicePeriod:         inv.ServicePeriod,
		Amount:                amount,
		ContractorName:        fields.ContractorName,
		ContractorTaxID:       fields.ContractorTaxID,
		ContractorTaxStatus:   fields.ContractorTaxStatus,
		ClientName:            fields.ClientName,
		ClientAddress:         fields.ClientAddress,
		ClientTaxID:           fields.ClientTaxID,
		PaymentTag:            fields.PaymentTag,
		AccountHolder:         fields.AccountHolder,
		AdditionalPaymentInfo: fields.AdditionalPaymentInfo,
		ServiceDescription:    fields.ServiceDescription,
		Disclaimer:            Disclaimer,
	}, nil
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

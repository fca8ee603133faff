package invoice

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is fixed for every invoice this tool produces.
const Currency = "USD"

// Disclaimer is the jurisdictional note printed on every invoice.
const Disclaimer = "Note: Services performed outside the U.S.; no U.S. withholding applies."

// DefaultServiceDescription is used when neither the template nor the
// caller supplies a service description.
const DefaultServiceDescription = "Contractor services - Software Engineer"

// Template is a named, reusable bundle of the recurring invoice fields:
// who bills, who gets billed, and how payment is remitted. Invocation
// variables (amount, service period, issue date) are never templated.
type Template struct {
	ContractorName        string `json:"contractor_name"`
	ContractorTaxID       string `json:"contractor_tax_id"`
	ContractorTaxStatus   string `json:"contractor_tax_status"`
	ClientName            string `json:"client_name"`
	ClientAddress         string `json:"client_address"`
	ClientTaxID           string `json:"client_tax_id"`
	PaymentTag            string `json:"payment_tag"`
	AccountHolder         string `json:"account_holder"`
	AdditionalPaymentInfo string `json:"additional_payment_info"`
	ServiceDescription    string `json:"service_description"`
}

// Overrides carries per-invocation values for template fields. A nil
// pointer means the flag was not supplied; a non-nil pointer to an empty
// string means the caller explicitly cleared the field, which makes it
// fail required-field validation rather than fall back to the template.
type Overrides struct {
	ContractorName        *string
	ContractorTaxID       *string
	ContractorTaxStatus   *string
	ClientName            *string
	ClientAddress         *string
	ClientTaxID           *string
	PaymentTag            *string
	AccountHolder         *string
	AdditionalPaymentInfo *string
	ServiceDescription    *string
}

// Record is the fully resolved invoice handed to the renderer. It is
// built once per invocation and never persisted.
type Record struct {
	Number                string
	IssueDate             time.Time
	ServicePeriod         string
	Amount                decimal.Decimal
	ContractorName        string
	ContractorTaxID       string
	ContractorTaxStatus   string
	ClientName            string
	ClientAddress         string
	ClientTaxID           string
	PaymentTag            string
	AccountHolder         string
	AdditionalPaymentInfo string
	ServiceDescription    string
	Disclaimer            string
}

// AmountUSD formats the amount with two decimal places and the currency
// code, e.g. "500.00 USD".
func (r Record) AmountUSD() string {
	return r.Amount.StringFixed(2) + " " + Currency
}

// IssueDateString returns the issue date in ISO form (YYYY-MM-DD).
func (r Record) IssueDateString() string {
	return r.IssueDate.Format("2006-01-02")
}

// FormatNumber renders an invoice number zero-padded to four digits.
// Larger numbers keep their full width.
func FormatNumber(n int) string {
	return fmt.Sprintf("%04d", n)
}

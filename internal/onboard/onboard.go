// Package onboard sets up the initial persisted state for a new user:
// the starting invoice number and the first client template.
package onboard

import (
	"strings"

	"github.com/contractor-tools/invoicegen/internal/store"
	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

// Defaults for the fixed client this tool was set up for. The
// interactive flow offers them as prompt defaults; scripted onboarding
// may pass anything.
const (
	DefaultTemplateName  = "rexo"
	DefaultClientName    = "Rexo, Inc."
	DefaultClientAddress = "251 Little Falls Drive, Wilmington, New Castle County, Delaware 19808"
	DefaultClientTaxID   = "33-2631448"
)

// Answers is the collected onboarding input. BuildState is a pure
// function of it, which keeps the interaction loop a thin adapter.
type Answers struct {
	StartNumber         int
	TemplateName        string
	ContractorName      string
	ContractorTaxID     string
	ContractorTaxStatus string
	ClientName          string
	ClientAddress       string
	ClientTaxID         string
	AccountHolder       string
	PaymentTag          string
	ServiceDescription  string
}

// BuildState turns the answers into the initial persisted state. The
// counter is stored one below the requested starting number because
// allocation increments before use. The payment tag gets a "$" prefix
// if missing, and the account holder defaults to the contractor name.
func BuildState(a Answers) store.State {
	name := a.TemplateName
	if name == "" {
		name = DefaultTemplateName
	}

	tag := strings.TrimSpace(a.PaymentTag)
	if tag != "" && !strings.HasPrefix(tag, "$") {
		tag = "$" + tag
	}

	holder := a.AccountHolder
	if holder == "" {
		holder = a.ContractorName
	}

	description := a.ServiceDescription
	if description == "" {
		description = invoice.DefaultServiceDescription
	}

	state := store.State{LastInvoiceNumber: a.StartNumber - 1}
	state.PutTemplate(name, invoice.Template{
		ContractorName:      a.ContractorName,
		ContractorTaxID:     a.ContractorTaxID,
		ContractorTaxStatus: a.ContractorTaxStatus,
		ClientName:          a.ClientName,
		ClientAddress:       a.ClientAddress,
		ClientTaxID:         a.ClientTaxID,
		PaymentTag:          tag,
		AccountHolder:       holder,
		ServiceDescription:  description,
	})
	return state
}

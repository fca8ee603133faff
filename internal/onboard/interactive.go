package onboard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/contractor-tools/invoicegen/internal/store"
	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

// ErrCancelled indicates the user declined to overwrite existing state.
var ErrCancelled = errors.New("onboarding cancelled")

// StateStore is the persistence dependency of the interactive flow.
type StateStore interface {
	Load() (store.State, error)
	Save(store.State) error
}

// RunInteractive walks the user through onboarding and saves the
// resulting initial state. If a state file already exists, the user is
// asked to confirm the overwrite, since it resets the invoice counter.
// An exhausted input reader aborts the flow with an error rather than
// re-prompting.
func RunInteractive(in io.Reader, out io.Writer, st StateStore) error {
	r := bufio.NewReader(in)

	fmt.Fprintln(out, "=== Invoice Generator - Onboarding ===")
	fmt.Fprintln(out)

	if _, err := st.Load(); err == nil {
		fmt.Fprint(out, "Existing invoice data found. Overwrite it? This resets the invoice counter. (yes/no): ")
		answer, err := readLine(r)
		if err != nil {
			return err
		}
		answer = strings.ToLower(answer)
		if answer != "yes" && answer != "y" {
			return ErrCancelled
		}
	} else if !errors.Is(err, store.ErrNotOnboarded) {
		return err
	}

	a := Answers{}

	for {
		fmt.Fprint(out, "First invoice number (e.g. 1 for 0001): ")
		line, err := readLine(r)
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 0 {
			fmt.Fprintln(out, "Please enter a non-negative whole number.")
			continue
		}
		a.StartNumber = n
		break
	}

	var err error
	if a.ContractorName, err = askRequired(r, out, "Your full name"); err != nil {
		return err
	}
	if a.ContractorTaxID, err = askRequired(r, out, "Your tax ID"); err != nil {
		return err
	}
	if a.ContractorTaxStatus, err = ask(r, out, "Your tax status (optional)", ""); err != nil {
		return err
	}

	if a.ClientName, err = ask(r, out, "Client name", DefaultClientName); err != nil {
		return err
	}
	if a.ClientAddress, err = ask(r, out, "Client address", DefaultClientAddress); err != nil {
		return err
	}
	if a.ClientTaxID, err = ask(r, out, "Client tax ID", DefaultClientTaxID); err != nil {
		return err
	}

	if a.AccountHolder, err = ask(r, out, "Account holder name", a.ContractorName); err != nil {
		return err
	}
	if a.PaymentTag, err = askRequired(r, out, "Payment tag (e.g. $username)"); err != nil {
		return err
	}
	if a.ServiceDescription, err = ask(r, out, "Service description", invoice.DefaultServiceDescription); err != nil {
		return err
	}
	if a.TemplateName, err = ask(r, out, "Template name", DefaultTemplateName); err != nil {
		return err
	}

	state := BuildState(a)
	if err := st.Save(state); err != nil {
		return err
	}

	next, _ := state.NextNumber()
	fmt.Fprintf(out, "\nTemplate %q created. Next invoice will be #%s.\n", a.TemplateName, next)
	return nil
}

func ask(r *bufio.Reader, out io.Writer, prompt, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(out, "%s [%s]: ", prompt, fallback)
	} else {
		fmt.Fprintf(out, "%s: ", prompt)
	}
	answer, err := readLine(r)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

func askRequired(r *bufio.Reader, out io.Writer, prompt string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", prompt)
		answer, err := readLine(r)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(out, "This field is required.")
	}
}

// readLine reads one line of input. A final line without a trailing
// newline is still accepted; once the reader is exhausted it reports
// the read error so prompt loops terminate instead of spinning.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

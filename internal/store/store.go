package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/contractor-tools/invoicegen/pkg/invoice"
)

const filePerm = 0644

var (
	// ErrNotOnboarded indicates no state file exists yet; the user must
	// run onboarding before generating invoices or listing templates.
	ErrNotOnboarded = errors.New("no invoice data found, run onboarding first")
	// ErrTemplateNotFound indicates the named template is not in the store.
	ErrTemplateNotFound = errors.New("template not found")
)

// State is the single persisted document: the last issued invoice number
// and the saved templates. Unknown fields in the file are ignored on
// load so newer versions of the file stay readable.
type State struct {
	LastInvoiceNumber int                         `json:"last_invoice_number"`
	Templates         map[string]invoice.Template `json:"templates"`
}

// TemplateSummary is the listing view of a saved template.
type TemplateSummary struct {
	Name           string
	ContractorName string
	ClientName     string
}

// Template returns the named template by value, so callers can never
// mutate the stored copy.
func (s State) Template(name string) (invoice.Template, error) {
	t, ok := s.Templates[name]
	if !ok {
		return invoice.Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return t, nil
}

// PutTemplate inserts or overwrites the named template. Last write wins.
func (s *State) PutTemplate(name string, t invoice.Template) {
	if s.Templates == nil {
		s.Templates = make(map[string]invoice.Template)
	}
	s.Templates[name] = t
}

// TemplateSummaries lists all templates sorted by name.
func (s State) TemplateSummaries() []TemplateSummary {
	names := make([]string, 0, len(s.Templates))
	for name := range s.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]TemplateSummary, 0, len(names))
	for _, name := range names {
		t := s.Templates[name]
		summaries = append(summaries, TemplateSummary{
			Name:           name,
			ContractorName: t.ContractorName,
			ClientName:     t.ClientName,
		})
	}
	return summaries
}

// NextNumber returns the formatted number for the next invoice and a
// copy of the state with the counter advanced. It does not persist;
// the caller saves the returned state once the invoice is committed,
// so a failure before that point never burns a number.
func (s State) NextNumber() (string, State) {
	next := s.LastInvoiceNumber + 1
	updated := s
	updated.LastInvoiceNumber = next
	return invoice.FormatNumber(next), updated
}

// Store persists the State document to a single JSON file.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a Store backed by the file at path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With("component", "store"),
	}
}

// Path returns the location of the backing file.
func (st *Store) Path() string {
	return st.path
}

// Load reads the state document. A missing file means the user has not
// onboarded yet.
func (st *Store) Load() (State, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, ErrNotOnboarded
		}
		return State{}, fmt.Errorf("failed to read state file %s: %w", st.path, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("failed to parse state file %s: %w", st.path, err)
	}
	return s, nil
}

// Save writes the full document atomically: marshal to a uniquely named
// temp file in the same directory, then rename over the target. A crash
// mid-write leaves the previous file intact; a subsequent Load never
// observes a truncated document.
func (st *Store) Save(s State) error {
	if s.Templates == nil {
		s.Templates = make(map[string]invoice.Template)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := st.path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace state file %s: %w", st.path, err)
	}

	st.logger.Debug("state saved", "path", st.path, "last_invoice_number", s.LastInvoiceNumber, "templates", len(s.Templates))
	return nil
}

package usecase

import (
	"github.com/contractor-tools/invoicegen/internal/store"
)

// ListTemplatesService lists the saved templates without mutating state.
type ListTemplatesService struct {
	store StateStore
}

// NewListTemplatesService creates a ListTemplatesService.
func NewListTemplatesService(st StateStore) *ListTemplatesService {
	return &ListTemplatesService{store: st}
}

// Execute returns a summary per template, sorted by name.
func (s *ListTemplatesService) Execute() ([]store.TemplateSummary, error) {
	state, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return state.TemplateSummaries(), nil
}

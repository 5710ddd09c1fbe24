package catalog

import (
	"github.com/go-faster/errors"

	"github.com/derickschaefer/storefront/internal/model"
)

// Event is a user interaction reported by the view.
type Event interface {
	isEvent()
}

// SearchChanged replaces the uncommitted search text.
type SearchChanged struct {
	Text string
}

// SearchCommitted copies the draft into the committed search term.
type SearchCommitted struct{}

// CategorySelected sets the category filter. Label must be one of the
// derived categories.
type CategorySelected struct {
	Label string
}

// ProductSelected opens the detail view for Product, replacing any previous
// selection. Product must point into the loaded collection.
type ProductSelected struct {
	Product *model.Product
}

// DetailClosed closes the detail view.
type DetailClosed struct{}

func (SearchChanged) isEvent()    {}
func (SearchCommitted) isEvent()  {}
func (CategorySelected) isEvent() {}
func (ProductSelected) isEvent()  {}
func (DetailClosed) isEvent()     {}

// Apply applies a single event. A rejected event leaves the state untouched.
func (s *State) Apply(ev Event) error {
	switch e := ev.(type) {
	case SearchChanged:
		s.searchDraft = e.Text
	case SearchCommitted:
		s.searchTerm = s.searchDraft
	case CategorySelected:
		if !s.HasCategory(e.Label) {
			return errors.Wrapf(ErrUnknownCategory, "%q", e.Label)
		}
		s.categoryFilter = e.Label
	case ProductSelected:
		if !s.owns(e.Product) {
			return ErrUnknownProduct
		}
		s.selection = Open{Product: e.Product}
	case DetailClosed:
		s.selection = Closed{}
	default:
		return errors.Errorf("unsupported event %T", ev)
	}
	return nil
}

// owns reports whether p points at an element of the loaded collection.
func (s *State) owns(p *model.Product) bool {
	if p == nil {
		return false
	}
	products := s.Products()
	for i := range products {
		if &products[i] == p {
			return true
		}
	}
	return false
}

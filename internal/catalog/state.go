// Package catalog holds the session state of the product catalog: the load
// status of the product collection, the two-stage search, the category
// filter and the single-product selection. State transitions happen only
// through Load and Apply, one at a time, and each leaves a consistent
// snapshot behind.
package catalog

import (
	"github.com/go-faster/errors"

	"github.com/derickschaefer/storefront/internal/model"
)

// FailureReason is the only load failure message shown to users.
const FailureReason = "Failed to load products."

var (
	// ErrAlreadyLoaded is returned by Load when the state has left Idle.
	ErrAlreadyLoaded = errors.New("catalog already loaded")
	// ErrNotLoaded is returned by operations that need the product collection.
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrUnknownCategory is returned when selecting a label not in Categories.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownProduct is returned when selecting a product that is not loaded.
	ErrUnknownProduct = errors.New("unknown product")
)

// ─── Load Status ──────────────────────────────────────────────────────────────

// Status is the load status of the product collection. It is one of Idle,
// Loading, Loaded or Failed.
type Status interface {
	isStatus()
	String() string
}

// Idle is the status before any load was attempted.
type Idle struct{}

// Loading is the status while the single fetch is outstanding.
type Loading struct{}

// Loaded carries the product collection. The slice is never modified after
// the transition.
type Loaded struct {
	Products []model.Product
}

// Failed carries the user-facing reason and the diagnostic cause.
type Failed struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func (Idle) isStatus()    {}
func (Loading) isStatus() {}
func (Loaded) isStatus()  {}
func (Failed) isStatus()  {}

func (Idle) String() string    { return "idle" }
func (Loading) String() string { return "loading" }
func (Loaded) String() string  { return "loaded" }
func (Failed) String() string  { return "failed" }

// ─── Selection ────────────────────────────────────────────────────────────────

// Selection is the detail view state: Closed or Open.
type Selection interface {
	isSelection()
}

// Closed means no product detail is shown.
type Closed struct{}

// Open holds a non-owning reference into the loaded collection.
type Open struct {
	Product *model.Product
}

func (Closed) isSelection() {}
func (Open) isSelection()   {}

// ─── State ────────────────────────────────────────────────────────────────────

// State is the catalog session state. It is owned by the top-level command
// and passed by pointer to the loader, the session loop and the renderer.
// State is not safe for concurrent use; events are applied serially.
type State struct {
	status         Status
	searchDraft    string
	searchTerm     string
	categoryFilter string
	selection      Selection
}

// New returns an Idle state with default filters and nothing selected.
func New() *State {
	return &State{
		status:         Idle{},
		categoryFilter: AllCategories,
		selection:      Closed{},
	}
}

// Status returns the current load status.
func (s *State) Status() Status { return s.status }

// Selection returns the current detail view state.
func (s *State) Selection() Selection { return s.selection }

// SearchDraft returns the uncommitted search text.
func (s *State) SearchDraft() string { return s.searchDraft }

// SearchTerm returns the committed search text.
func (s *State) SearchTerm() string { return s.searchTerm }

// CategoryFilter returns the selected category label.
func (s *State) CategoryFilter() string { return s.categoryFilter }

// Products returns the loaded collection, or nil unless the status is Loaded.
func (s *State) Products() []model.Product {
	if l, ok := s.status.(Loaded); ok {
		return l.Products
	}
	return nil
}

// Categories returns the derived category list. Before the load completes it
// holds only "All".
func (s *State) Categories() []string {
	return Categories(s.Products())
}

// Visible returns the derived list of products passing the committed search
// term and the category filter.
func (s *State) Visible() []*model.Product {
	return Filter(s.Products(), s.searchTerm, s.categoryFilter)
}

// Lookup returns a reference to the loaded product with the given id.
func (s *State) Lookup(id int) (*model.Product, error) {
	products := s.Products()
	if products == nil {
		return nil, ErrNotLoaded
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownProduct, "id %d", id)
}

// HasCategory reports whether label is one of the derived categories.
func (s *State) HasCategory(label string) bool {
	for _, c := range s.Categories() {
		if c == label {
			return true
		}
	}
	return false
}

// View is the snapshot consumed by renderers.
type View struct {
	Status         Status
	Visible        []*model.Product
	Categories     []string
	CategoryFilter string
	SearchDraft    string
	SearchTerm     string
	Selection      Selection
}

// View computes the renderer snapshot from the current state.
func (s *State) View() View {
	return View{
		Status:         s.status,
		Visible:        s.Visible(),
		Categories:     s.Categories(),
		CategoryFilter: s.categoryFilter,
		SearchDraft:    s.searchDraft,
		SearchTerm:     s.searchTerm,
		Selection:      s.selection,
	}
}

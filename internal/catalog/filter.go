package catalog

import (
	"strings"

	"github.com/derickschaefer/storefront/internal/model"
)

// AllCategories is the sentinel category label that disables category filtering.
const AllCategories = "All"

// Filter returns the products matching both the committed search term and
// the category filter, in input order. The returned pointers reference
// elements of products; nothing is copied.
//
// The search term is a case-insensitive substring test against
// title + " " + category. An empty term matches everything.
func Filter(products []model.Product, searchTerm, category string) []*model.Product {
	term := strings.ToLower(searchTerm)
	out := make([]*model.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if !matchesSearch(p, term) || !matchesCategory(p, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p *model.Product, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.SearchText()), lowerTerm)
}

func matchesCategory(p *model.Product, category string) bool {
	return category == AllCategories || p.Category == category
}

// Categories returns "All" followed by each distinct category label present
// in products, in first-seen order. A blank label is a category of its own;
// a product whose category is literally "All" does not produce a second
// "All" entry.
func Categories(products []model.Product) []string {
	seen := map[string]bool{AllCategories: true}
	out := []string{AllCategories}
	for i := range products {
		c := products[i].Category
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

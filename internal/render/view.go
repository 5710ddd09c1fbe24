package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/util"
)

// skeletonRows is the number of placeholder cards drawn while loading.
const skeletonRows = 6

var (
	activeCategory = color.New(color.FgCyan, color.Bold)
	errorTitle     = color.New(color.FgRed, color.Bold)
	headerTitle    = color.New(color.Bold)
)

// View draws the whole catalog screen: header, search line, category bar,
// the grid area for the current load status, and the detail panel when a
// product is selected.
func View(w io.Writer, v catalog.View) error {
	headerTitle.Fprintln(w, "E-Commerce")
	fmt.Fprintln(w)
	SearchLine(w, v.SearchDraft, v.SearchTerm)
	CategoryBar(w, v.Categories, v.CategoryFilter)
	fmt.Fprintln(w)

	switch st := v.Status.(type) {
	case catalog.Idle, catalog.Loading:
		Skeleton(w)
	case catalog.Failed:
		ErrorBox(w, st.Reason)
	case catalog.Loaded:
		if len(v.Visible) == 0 {
			fmt.Fprintln(w, NoResults)
		} else if err := ProductGrid(w, v.Visible); err != nil {
			return err
		}
	}

	if open, ok := v.Selection.(catalog.Open); ok {
		fmt.Fprintln(w)
		headerTitle.Fprintf(w, "── %s ──\n", util.OrNA(open.Product.Title))
		return ProductDetail(w, open.Product)
	}
	return nil
}

// SearchLine shows the draft and, when they differ, the committed term.
func SearchLine(w io.Writer, draft, term string) {
	fmt.Fprintf(w, "Search: %s", draft)
	if draft != term {
		fmt.Fprintf(w, "   (applied: %q, press Enter to apply)", term)
	}
	fmt.Fprintln(w)
}

// CategoryBar prints every category label. The active one is bracketed and
// highlighted; the others are plain. A blank label is shown as the placeholder.
func CategoryBar(w io.Writer, categories []string, active string) {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		label := util.OrNA(c)
		if c == active {
			parts = append(parts, activeCategory.Sprintf("[%s]", label))
			continue
		}
		parts = append(parts, " "+label+" ")
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// Skeleton draws placeholder cards in the grid layout.
func Skeleton(w io.Writer) {
	tw := newTable(w, []string{"ID", "TITLE", "PRICE", "CATEGORY", "RATING"})
	for i := 0; i < skeletonRows; i++ {
		tw.Append([]string{"░░", "░░░░░░░░░░░░░░░░░░░░", "░░░░░", "░░░░░░░░░", "░░"})
	}
	tw.Render()
}

// ErrorBox draws the user-facing load failure.
func ErrorBox(w io.Writer, reason string) {
	errorTitle.Fprintln(w, "Error")
	fmt.Fprintln(w, reason)
}

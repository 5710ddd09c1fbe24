package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/storefront/internal/app"
	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/model"
	"github.com/derickschaefer/storefront/internal/render"
	"github.com/derickschaefer/storefront/internal/util"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// outputWriter returns the writer selected by --out, or def when unset.
// The returned close function is always safe to call.
func outputWriter(def io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating output file")
	}
	return f, f.Close, nil
}

// loadCatalog performs the single product fetch for a one-shot command.
// A failed load is reported with the user-facing reason only; the cause has
// already been logged by the loader.
func loadCatalog(ctx context.Context, deps *app.Deps) (*catalog.State, error) {
	st := catalog.New()
	if err := deps.NewLoader().Load(ctx, st); err != nil {
		var le *catalog.LoadError
		if errors.As(err, &le) {
			return nil, errors.New(catalog.FailureReason)
		}
		return nil, err
	}
	return st, nil
}

// writeResult renders result to --out or w and prints the footer.
func writeResult(w io.Writer, deps *app.Deps, result *model.Result) error {
	out, closeFn, err := outputWriter(w)
	if err != nil {
		return err
	}
	if err := render.Render(out, result, resolveFormat(deps.Config.Format)); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return errors.Wrap(err, "closing output file")
	}
	if !deps.Config.Quiet {
		render.PrintFooter(os.Stderr, result, deps.Config.Verbose)
	}
	return nil
}

// newResult wraps data in a Result envelope.
func newResult(kind, command string, data interface{}, items int, start time.Time) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats: model.ResultStats{
			DurationMs: time.Since(start).Milliseconds(),
			Items:      items,
		},
	}
}

// listWarnings names the search and category that left a list empty.
func listWarnings(st *catalog.State) []string {
	if len(st.Visible()) > 0 {
		return nil
	}
	var terms []string
	if st.SearchTerm() != "" {
		terms = append(terms, fmt.Sprintf("search %q", st.SearchTerm()))
	}
	if st.CategoryFilter() != catalog.AllCategories {
		terms = append(terms, fmt.Sprintf("category %q", util.OrNA(st.CategoryFilter())))
	}
	if len(terms) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("no products match %s (%d loaded)", strings.Join(terms, " and "), len(st.Products()))}
}

// missingFields lists the detail fields of p that are shown as placeholders.
func missingFields(p *model.Product) []string {
	var missing []string
	check := func(name string, absent bool) {
		if absent {
			missing = append(missing, name)
		}
	}
	check("title", strings.TrimSpace(p.Title) == "")
	check("image", strings.TrimSpace(p.Image) == "")
	check("price", !p.Price.Valid)
	check("category", strings.TrimSpace(p.Category) == "")
	check("rating", p.Rate() == nil)
	check("description", strings.TrimSpace(p.Description) == "")
	check("stock", p.Stock() == nil)
	return missing
}

// productWarnings reports placeholder fields of p, if any.
func productWarnings(p *model.Product) []string {
	missing := missingFields(p)
	if len(missing) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("product %d has no %s; shown as %s", p.ID, strings.Join(missing, ", "), util.Placeholder)}
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string. view.go draws the interactive catalog
// screen from a catalog.View snapshot.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/storefront/internal/model"
	"github.com/derickschaefer/storefront/internal/util"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// NoResults is printed when a loaded catalog has nothing to show.
const NoResults = "No results found."

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch result.Kind {
	case model.KindProductList:
		pl, ok := result.Data.(*model.ProductList)
		if !ok {
			return renderJSON(w, result)
		}
		for _, p := range pl.Products {
			if err := enc.Encode(p); err != nil {
				return err
			}
		}
		return nil
	case model.KindCategories:
		cats, ok := result.Data.([]string)
		if !ok {
			return renderJSON(w, result)
		}
		for _, c := range cats {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(result.Data)
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindProductList:
		pl, ok := result.Data.(*model.ProductList)
		if !ok {
			return errors.New("unexpected data type for product_list")
		}
		if len(pl.Products) == 0 {
			fmt.Fprintln(w, NoResults)
			return nil
		}
		return ProductGrid(w, pl.Products)
	case model.KindProduct:
		p, ok := result.Data.(*model.Product)
		if !ok {
			return errors.New("unexpected data type for product")
		}
		return ProductDetail(w, p)
	case model.KindCategories:
		cats, ok := result.Data.([]string)
		if !ok {
			return errors.New("unexpected data type for categories")
		}
		tw := newTable(w, []string{"CATEGORY"})
		for _, c := range cats {
			tw.Append([]string{util.OrNA(c)})
		}
		tw.Render()
		return nil
	default:
		// Fallback: JSON
		return renderJSON(w, result)
	}
}

// newTable returns a tablewriter configured with the house style.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

// ProductGrid renders products as one row per card.
func ProductGrid(w io.Writer, products []*model.Product) error {
	tw := newTable(w, []string{"ID", "TITLE", "PRICE", "CATEGORY", "RATING"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, p := range products {
		tw.Append([]string{
			strconv.Itoa(p.ID),
			util.Truncate(util.OrNA(p.Title), 50),
			util.FormatPrice(p.Price),
			util.OrNA(p.Category),
			util.FormatRate(p.Rate()),
		})
	}
	tw.Render()
	return nil
}

// ProductDetail renders the full record of a single product.
func ProductDetail(w io.Writer, p *model.Product) error {
	tw := newTable(w, []string{"FIELD", "VALUE"})
	tw.SetColWidth(80)
	tw.SetAutoWrapText(true)

	for _, r := range detailRows(p) {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func detailRows(p *model.Product) [][]string {
	return [][]string{
		{"Title", util.OrNA(p.Title)},
		{"Image", util.OrNA(p.Image)},
		{"Price", util.FormatPrice(p.Price)},
		{"Category", util.OrNA(p.Category)},
		{"Rating", util.FormatRate(p.Rate())},
		{"Description", util.OrNA(p.Description)},
		{"Available Stock", util.FormatCount(p.Stock())},
	}
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch result.Kind {
	case model.KindProductList:
		pl, ok := result.Data.(*model.ProductList)
		if !ok {
			return errors.New("unexpected data type for product_list")
		}
		_ = cw.Write([]string{"id", "title", "price", "category", "rating", "count", "image"})
		for _, p := range pl.Products {
			_ = cw.Write(productRecord(p))
		}
	case model.KindProduct:
		p, ok := result.Data.(*model.Product)
		if !ok {
			return errors.New("unexpected data type for product")
		}
		_ = cw.Write([]string{"field", "value"})
		for _, r := range detailRows(p) {
			_ = cw.Write([]string{strings.ToLower(strings.ReplaceAll(r[0], " ", "_")), r[1]})
		}
	case model.KindCategories:
		cats, _ := result.Data.([]string)
		_ = cw.Write([]string{"category"})
		for _, c := range cats {
			_ = cw.Write([]string{c})
		}
	default:
		// Fallback: serialize as JSON on a single line
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

func productRecord(p *model.Product) []string {
	price := ""
	if p.Price.Valid {
		price = p.Price.Decimal.String()
	}
	rate, count := "", ""
	if r := p.Rate(); r != nil {
		rate = util.FormatRate(r)
	}
	if n := p.Stock(); n != nil {
		count = util.FormatCount(n)
	}
	return []string{strconv.Itoa(p.ID), p.Title, price, p.Category, rate, count, p.Image}
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindProductList:
		pl, ok := result.Data.(*model.ProductList)
		if !ok {
			return renderJSON(w, result)
		}
		if len(pl.Products) == 0 {
			fmt.Fprintln(w, NoResults)
			return nil
		}
		fmt.Fprintf(w, "| ID | TITLE | PRICE | CATEGORY | RATING |\n|----|----|----|----|----|\n")
		for _, p := range pl.Products {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s |\n",
				p.ID,
				mdEscape(util.OrNA(p.Title)),
				util.FormatPrice(p.Price),
				mdEscape(util.OrNA(p.Category)),
				util.FormatRate(p.Rate()),
			)
		}
		return nil
	case model.KindProduct:
		p, ok := result.Data.(*model.Product)
		if !ok {
			return renderJSON(w, result)
		}
		fmt.Fprintf(w, "| FIELD | VALUE |\n|----|----|\n")
		for _, r := range detailRows(p) {
			fmt.Fprintf(w, "| %s | %s |\n", r[0], mdEscape(r[1]))
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

package render_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/model"
	"github.com/derickschaefer/storefront/internal/render"
)

func init() {
	color.NoColor = true
}

type fixedSource struct {
	products []model.Product
	err      error
}

func (f fixedSource) ListProducts(context.Context) ([]model.Product, error) {
	return f.products, f.err
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func backpack() model.Product {
	return model.Product{
		ID:          1,
		Title:       "Fjallraven Backpack",
		Price:       decimal.NewNullDecimal(decimal.RequireFromString("109.95")),
		Category:    "men's clothing",
		Description: "Your perfect pack for everyday use",
		Image:       "https://example.test/1.jpg",
		Rating:      &model.Rating{Rate: ptrFloat(3.9), Count: ptrInt(120)},
	}
}

func bare() model.Product {
	return model.Product{ID: 2}
}

func listResult(products ...*model.Product) *model.Result {
	return &model.Result{
		Kind:        model.KindProductList,
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Command:     "list",
		Data:        &model.ProductList{Category: "All", Products: products},
		Stats:       model.ResultStats{Items: len(products)},
	}
}

func renderString(t *testing.T, result *model.Result, format string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, result, format))
	return buf.String()
}

// ─── Result formats ───────────────────────────────────────────────────────────

func TestTableGrid(t *testing.T) {
	b, n := backpack(), bare()
	out := renderString(t, listResult(&b, &n), render.FormatTable)

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Fjallraven Backpack")
	assert.Contains(t, out, "$109.95")
	assert.Contains(t, out, "3.9")
	// The bare product renders placeholders.
	assert.Contains(t, out, "$N/A")
	assert.GreaterOrEqual(t, strings.Count(out, "N/A"), 4)
}

func TestTableEmptyList(t *testing.T) {
	out := renderString(t, listResult(), render.FormatTable)
	assert.Equal(t, "No results found.\n", out)
}

func TestTableDetail(t *testing.T) {
	b := backpack()
	out := renderString(t, &model.Result{Kind: model.KindProduct, Data: &b}, render.FormatTable)

	for _, want := range []string{"Title", "Image", "Price", "Category", "Rating", "Description", "Available Stock",
		"$109.95", "120", "Your perfect pack"} {
		assert.Contains(t, out, want)
	}
}

func TestTableDetailPlaceholders(t *testing.T) {
	n := bare()
	out := renderString(t, &model.Result{Kind: model.KindProduct, Data: &n}, render.FormatTable)
	// Title, Image, Price, Category, Rating, Description, Stock.
	assert.Equal(t, 7, strings.Count(out, "N/A"))
}

func TestTableCategories(t *testing.T) {
	out := renderString(t, &model.Result{Kind: model.KindCategories, Data: []string{"All", "jewelery"}}, render.FormatTable)
	assert.Contains(t, out, "CATEGORY")
	assert.Less(t, strings.Index(out, "All"), strings.Index(out, "jewelery"))
}

func TestJSONEnvelope(t *testing.T) {
	b := backpack()
	out := renderString(t, listResult(&b), render.FormatJSON)

	var decoded struct {
		Kind string `json:"kind"`
		Data struct {
			Products []model.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, model.KindProductList, decoded.Kind)
	require.Len(t, decoded.Data.Products, 1)
	assert.Equal(t, "109.95", decoded.Data.Products[0].Price.Decimal.String())
}

func TestJSONLOneProductPerLine(t *testing.T) {
	b, n := backpack(), bare()
	out := renderString(t, listResult(&b, &n), render.FormatJSONL)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var p model.Product
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &p))
	assert.Equal(t, 2, p.ID)
	assert.False(t, p.Price.Valid)
}

func TestCSVAndTSV(t *testing.T) {
	b, n := backpack(), bare()
	csvOut := renderString(t, listResult(&b, &n), render.FormatCSV)
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,price,category,rating,count,image", lines[0])
	assert.Equal(t, `1,Fjallraven Backpack,109.95,men's clothing,3.9,120,https://example.test/1.jpg`, lines[1])
	assert.Equal(t, "2,,,,,,", lines[2])

	tsvOut := renderString(t, listResult(&b), render.FormatTSV)
	assert.True(t, strings.HasPrefix(tsvOut, "id\ttitle\tprice"))
}

func TestMarkdownEscapesPipes(t *testing.T) {
	p := backpack()
	p.Title = "Left | Right"
	out := renderString(t, listResult(&p), render.FormatMD)
	assert.Contains(t, out, `Left \| Right`)
}

func TestUnknownFormatFallsBackToTable(t *testing.T) {
	b := backpack()
	assert.Equal(t,
		renderString(t, listResult(&b), render.FormatTable),
		renderString(t, listResult(&b), "bogus"))
}

func TestPrintFooter(t *testing.T) {
	var buf bytes.Buffer
	r := listResult()
	r.Warnings = []string{"careful"}
	render.PrintFooter(&buf, r, true)
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "0 items")

	buf.Reset()
	render.PrintFooter(&buf, listResult(), false)
	assert.Empty(t, buf.String())
}

// ─── Interactive view ─────────────────────────────────────────────────────────

func viewString(t *testing.T, st *catalog.State) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render.View(&buf, st.View()))
	return buf.String()
}

func TestViewLoadingShowsSkeleton(t *testing.T) {
	out := viewString(t, catalog.New())
	assert.Contains(t, out, "░░")
	assert.Contains(t, out, "[All]")
	assert.NotContains(t, out, render.NoResults)
}

func TestViewFailedShowsReasonOnly(t *testing.T) {
	st := catalog.New()
	_ = catalog.NewLoader(fixedSource{}, nil).Load(context.Background(), st)

	out := viewString(t, st)
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Failed to load products.")
	assert.NotContains(t, out, "no products found")
	assert.NotContains(t, out, "░░")
}

func TestViewLoadedGridCategoriesAndDetail(t *testing.T) {
	st := catalog.New()
	require.NoError(t, catalog.NewLoader(fixedSource{products: []model.Product{backpack(), bare()}}, nil).
		Load(context.Background(), st))

	out := viewString(t, st)
	assert.Contains(t, out, "[All]")
	assert.Contains(t, out, " men's clothing ")
	assert.Contains(t, out, "Fjallraven Backpack")
	assert.NotContains(t, out, "Available Stock")

	require.NoError(t, st.Apply(catalog.CategorySelected{Label: "men's clothing"}))
	p, err := st.Lookup(1)
	require.NoError(t, err)
	require.NoError(t, st.Apply(catalog.ProductSelected{Product: p}))

	out = viewString(t, st)
	assert.Contains(t, out, "[men's clothing]")
	assert.Contains(t, out, " All ")
	assert.Contains(t, out, "── Fjallraven Backpack ──")
	assert.Contains(t, out, "Available Stock")
}

func TestViewNoResultsAndPendingSearch(t *testing.T) {
	st := catalog.New()
	require.NoError(t, catalog.NewLoader(fixedSource{products: []model.Product{backpack()}}, nil).
		Load(context.Background(), st))
	require.NoError(t, st.Apply(catalog.SearchChanged{Text: "laptop stand"}))

	out := viewString(t, st)
	assert.Contains(t, out, "Search: laptop stand")
	assert.Contains(t, out, "press Enter to apply")
	assert.Contains(t, out, "Fjallraven Backpack")

	require.NoError(t, st.Apply(catalog.SearchCommitted{}))
	out = viewString(t, st)
	assert.Contains(t, out, render.NoResults)
	assert.NotContains(t, out, "press Enter to apply")
}

func TestCategoryBarShowsBlankLabelAsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	render.CategoryBar(&buf, []string{"All", "", "jewelery"}, "")
	assert.Equal(t, " All  [N/A]  jewelery \n", buf.String())

	out := renderString(t, &model.Result{Kind: model.KindCategories, Data: []string{"All", ""}}, render.FormatTable)
	assert.Contains(t, out, "N/A")
}

// Package model defines the canonical data types used throughout storefront.
// These types are the single source of truth for catalog entities and
// the result envelope that every command returns.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Catalog Entity Types ─────────────────────────────────────────────────────

// Product is a single catalog item as returned by the product source.
// Fields the source omits, or sends with the wrong JSON type, stay at their
// zero value and render as "N/A".
type Product struct {
	ID          int                 `json:"id"`
	Title       string              `json:"title"`
	Price       decimal.NullDecimal `json:"price"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Rating      *Rating             `json:"rating,omitempty"`
}

// Rating is the composite rating block. Count doubles as available stock.
type Rating struct {
	Rate  *float64 `json:"rate,omitempty"`
	Count *int     `json:"count,omitempty"`
}

// Rate returns the average rating, or nil when the product has none.
func (p *Product) Rate() *float64 {
	if p.Rating == nil {
		return nil
	}
	return p.Rating.Rate
}

// Stock returns the rating count, or nil when the product has none.
func (p *Product) Stock() *int {
	if p.Rating == nil {
		return nil
	}
	return p.Rating.Count
}

// SearchText is the string the catalog search matches against.
func (p *Product) SearchText() string {
	return p.Title + " " + p.Category
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by every command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindProductList = "product_list"
	KindProduct     = "product"
	KindCategories  = "categories"
)

// ProductList is the payload of a KindProductList result.
type ProductList struct {
	SearchTerm string     `json:"search_term"`
	Category   string     `json:"category"`
	Products   []*Product `json:"products"`
}

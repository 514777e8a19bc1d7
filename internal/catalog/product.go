package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Status is the publication state of a product.
type Status string

// StatusPublished marks products that may appear on the storefront.
const StatusPublished Status = "published"

// ID identifies products and add-ons. Upstream payloads use either JSON strings
// (document ids) or numbers; both decode into the same string form.
type ID string

// UnmarshalJSON accepts string, number, and null identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("catalog: invalid id %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// Product is a storefront item as delivered by the catalog endpoint.
type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	CategoryID  string   `json:"categoryId"`
	Status      Status   `json:"status"`
	SortOrder   *float64 `json:"sortOrder,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	SalePrice   *float64 `json:"salePrice,omitempty"`
	Image       string   `json:"image,omitempty"`
	Badge       string   `json:"badge,omitempty"`
	AddOnIDs    []ID     `json:"addOnIds,omitempty"`
}

// Published reports whether the product may be shown.
func (p Product) Published() bool {
	return p.Status == StatusPublished
}

// Order returns the sort key, treating a missing sortOrder as 0.
func (p Product) Order() float64 {
	if p.SortOrder == nil {
		return 0
	}
	return *p.SortOrder
}

// OnSale reports whether a lower sale price is set.
func (p Product) OnSale() bool {
	return p.SalePrice != nil && *p.SalePrice < p.Price
}

// Key returns a stable render key: the id, or name-index when the id is missing.
func (p Product) Key(index int) string {
	if p.ID != "" {
		return p.ID.String()
	}
	return p.Name + "-" + strconv.Itoa(index)
}

// AddOn is an optional extra (topping, side, size upgrade) offered with products.
type AddOn struct {
	ID         ID      `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID string  `json:"categoryId,omitempty"`
	ProductIDs []ID    `json:"productIds,omitempty"`
}

// AppliesTo reports whether the add-on can be ordered with p. An add-on is linked
// either explicitly (product ids on either side) or by category.
func (a AddOn) AppliesTo(p Product) bool {
	if a.ID != "" && slices.Contains(p.AddOnIDs, a.ID) {
		return true
	}
	if p.ID != "" && slices.Contains(a.ProductIDs, p.ID) {
		return true
	}
	return a.CategoryID != "" && a.CategoryID == p.CategoryID
}

// AddOnsFor returns the add-ons from all that apply to p, preserving order.
func AddOnsFor(p Product, all []AddOn) []AddOn {
	var out []AddOn
	for _, a := range all {
		if a.AppliesTo(p) {
			out = append(out, a)
		}
	}
	return out
}

// CategoryCounts tallies products per category id. Blank category ids are skipped.
func CategoryCounts(products []Product) map[string]int {
	counts := make(map[string]int)
	for _, p := range products {
		if strings.TrimSpace(p.CategoryID) == "" {
			continue
		}
		counts[p.CategoryID]++
	}
	return counts
}

package productapi

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/numeric"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// unknown replaces missing text attributes.
const unknown = "Unknown"

// Product is one entry of the product service.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// rawProduct mirrors the payload; pointers tell absent from empty.
type rawProduct struct {
	ID       *int     `json:"id"`
	Title    *string  `json:"title"`
	Category *string  `json:"category"`
	Brand    *string  `json:"brand"`
	Price    *float64 `json:"price"`
	Rating   *float64 `json:"rating"`
}

type productPage struct {
	Products []rawProduct `json:"products"`
}

// normalize drops entries without a positive id; they cannot be looked up.
func (p productPage) normalize() []Product {
	out := make([]Product, 0, len(p.Products))
	for _, raw := range p.Products {
		if raw.ID == nil || *raw.ID <= 0 {
			continue
		}
		out = append(out, raw.normalize())
	}
	return out
}

func (r rawProduct) normalize() Product {
	return Product{
		ID:       *r.ID,
		Title:    textOr(r.Title),
		Category: textOr(r.Category),
		Brand:    textOr(r.Brand),
		Price:    numberOr(r.Price),
		Rating:   numberOr(r.Rating),
	}
}

func textOr(s *string) string {
	if s == nil || *s == "" {
		return unknown
	}
	return *s
}

func numberOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// BuildCatalog indexes products by id. Later duplicates replace earlier ones
// and products without a positive id are left out.
func BuildCatalog(products []Product) types.Catalog {
	catalog := make(types.Catalog, len(products))
	for _, p := range products {
		if p.ID <= 0 {
			continue
		}
		catalog[p.ID] = types.ProductInfo{
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Rating:   p.Rating,
		}
	}
	return catalog
}

// SaveJSON writes products to path as indented JSON.
func SaveJSON(path string, products []Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	if err := utils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

// =============================================================================
// CATALOG SUMMARY
// =============================================================================

// LabelCount is a category or brand with its product count.
type LabelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogSummary describes a fetched product list.
type CatalogSummary struct {
	Total         int          `json:"total"`
	AvgPrice      float64      `json:"avg_price"`
	AvgRating     float64      `json:"avg_rating"`
	TopCategories []LabelCount `json:"top_categories"`
	TopBrands     []LabelCount `json:"top_brands"`
}

// Summarize counts categories and brands and keeps the top n of each.
func Summarize(products []Product, n int) CatalogSummary {
	s := CatalogSummary{Total: len(products)}
	if len(products) == 0 {
		s.TopCategories = []LabelCount{}
		s.TopBrands = []LabelCount{}
		return s
	}

	categories := analytics.NewOrderedMap[string, int]()
	brands := analytics.NewOrderedMap[string, int]()
	var price, rating float64
	for _, p := range products {
		price += p.Price
		rating += p.Rating
		bump(categories, p.Category)
		bump(brands, p.Brand)
	}

	s.AvgPrice = numeric.Round2(price / float64(len(products)))
	s.AvgRating = numeric.Round2(rating / float64(len(products)))
	s.TopCategories = topN(categories, n)
	s.TopBrands = topN(brands, n)
	return s
}

func bump(m *analytics.OrderedMap[string, int], label string) {
	c, _ := m.Get(label)
	m.Set(label, c+1)
}

func topN(m *analytics.OrderedMap[string, int], n int) []LabelCount {
	out := make([]LabelCount, 0, m.Len())
	for _, k := range m.Keys() {
		c, _ := m.Get(k)
		out = append(out, LabelCount{Name: k, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

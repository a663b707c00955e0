package catalog

import (
	"strconv"
	"strings"
)

// Product mirrors one entry of /products.json. It is the list-view projection
// of a catalog entry.
type Product struct {
	ID       int    `json:"id"`
	ImageURL string `json:"imageUrl"`
	Summary  string `json:"summary"`
	Title    string `json:"title"`
}

// ProductDetail mirrors /product-details/{id}.json.
type ProductDetail struct {
	ID          int    `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Summary     string `json:"summary"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"` // pre-formatted by the catalog, never parsed
}

// Product projects the detail back onto the list shape, e.g. for wishlisting
// from the detail view.
func (d ProductDetail) Product() Product {
	return Product{
		ID:       d.ID,
		ImageURL: d.ImageURL,
		Summary:  d.Summary,
		Title:    d.Title,
	}
}

// Matches reports whether query occurs in the product title or summary,
// ignoring case and surrounding whitespace. An empty query matches everything.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Summary), q)
}

// DisplayTitle returns the trimmed title or a placeholder naming the id.
func (p Product) DisplayTitle() string {
	if title := strings.TrimSpace(p.Title); title != "" {
		return title
	}
	return "Product #" + strconv.Itoa(p.ID)
}

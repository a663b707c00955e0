package state

import (
	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/location"
	"github.com/five82/kart/internal/messages"
)

// State is everything the screens render. Each transition produces a new
// value; published states are never mutated afterwards.
type State struct {
	IsLoadingList   bool
	IsLoadingDetail bool

	// Products is meaningful only when ProductsLoaded is true; an empty slice
	// then means the catalog had no products.
	Products       []catalog.Product
	ProductsLoaded bool

	SelectedProduct *catalog.ProductDetail
	Error           string

	IsFetchingLocation bool
	CurrentAddress     string
	LocationPermission *bool // nil until the user has been asked
	Location           *location.Coordinates

	Wishlist            []catalog.Product
	LastWishlistMessage string

	SearchQuery string
}

// Initial returns the state a fresh store starts from.
func Initial(msgs messages.Lookup) State {
	if msgs == nil {
		msgs = messages.Default
	}
	return State{CurrentAddress: msgs(messages.AddressNotAvailable)}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	dup := s
	dup.Products = cloneProducts(s.Products, s.ProductsLoaded)
	dup.Wishlist = cloneProducts(s.Wishlist, false)
	if s.SelectedProduct != nil {
		p := *s.SelectedProduct
		dup.SelectedProduct = &p
	}
	if s.LocationPermission != nil {
		g := *s.LocationPermission
		dup.LocationPermission = &g
	}
	if s.Location != nil {
		c := *s.Location
		dup.Location = &c
	}
	return dup
}

// InWishlist reports whether a product with id is wishlisted.
func (s State) InWishlist(id int) bool {
	return wishlistIndex(s.Wishlist, id) >= 0
}

// VisibleProducts returns the loaded products matching SearchQuery.
func (s State) VisibleProducts() []catalog.Product {
	if !s.ProductsLoaded {
		return nil
	}
	out := make([]catalog.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if p.Matches(s.SearchQuery) {
			out = append(out, p)
		}
	}
	return out
}

// keepEmpty preserves a non-nil empty slice so "loaded, nothing found" stays
// distinguishable after copying.
func cloneProducts(items []catalog.Product, keepEmpty bool) []catalog.Product {
	if len(items) == 0 {
		if keepEmpty && items != nil {
			return []catalog.Product{}
		}
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}

func wishlistIndex(items []catalog.Product, id int) int {
	for i, p := range items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

package state

import (
	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/location"
)

// Event is a request to change state. The set is closed: only types in this
// package implement it.
type Event interface {
	isEvent()
}

// LoadProductList fetches the product list.
type LoadProductList struct{}

// LoadProductDetail fetches one product's detail.
type LoadProductDetail struct {
	ID int
}

// ClearError dismisses the current error.
type ClearError struct{}

// RequestLocationAndShare marks the start of a share-with-location flow.
type RequestLocationAndShare struct{}

// LocationPermissionsResult records the user's answer to the location prompt.
type LocationPermissionsResult struct {
	Granted bool
}

// LocationFetched reports the outcome of a location lookup. A nil Address
// means the position could not be named.
type LocationFetched struct {
	Location *location.Coordinates
	Address  *string
}

// ShareProductWithLocation shares the selected product with the current
// address. It does not change state.
type ShareProductWithLocation struct{}

// AddToWishlist adds Product unless it is already present.
type AddToWishlist struct {
	Product catalog.Product
}

// RemoveFromWishlist removes Product if present.
type RemoveFromWishlist struct {
	Product catalog.Product
}

// ClearLastWishlistActionMessage dismisses the wishlist notice.
type ClearLastWishlistActionMessage struct{}

// SearchProducts sets the product list filter.
type SearchProducts struct {
	Query string
}

func (LoadProductList) isEvent()                {}
func (LoadProductDetail) isEvent()              {}
func (ClearError) isEvent()                     {}
func (RequestLocationAndShare) isEvent()        {}
func (LocationPermissionsResult) isEvent()      {}
func (LocationFetched) isEvent()                {}
func (ShareProductWithLocation) isEvent()       {}
func (AddToWishlist) isEvent()                  {}
func (RemoveFromWishlist) isEvent()             {}
func (ClearLastWishlistActionMessage) isEvent() {}
func (SearchProducts) isEvent()                 {}

// Results of the asynchronous loads. The store produces these; callers
// cannot.
type (
	listOffline   struct{}
	listStarted   struct{}
	listLoaded    struct{ products []catalog.Product }
	listFailed    struct{ err *catalog.Error }
	detailOffline struct{}
	detailStarted struct{}
	detailLoaded  struct{ detail catalog.ProductDetail }
	detailFailed  struct{ err *catalog.Error }
)

func (listOffline) isEvent()   {}
func (listStarted) isEvent()   {}
func (listLoaded) isEvent()    {}
func (listFailed) isEvent()    {}
func (detailOffline) isEvent() {}
func (detailStarted) isEvent() {}
func (detailLoaded) isEvent()  {}
func (detailFailed) isEvent()  {}

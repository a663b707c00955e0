package state

import (
	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/messages"
)

// Reduce computes the state that follows ev. It performs no I/O. Events whose
// effect is a side effect (loads, sharing) leave the state as it is; the
// store turns them into result actions first.
func Reduce(st State, ev Event, msgs messages.Lookup) State {
	if msgs == nil {
		msgs = messages.Default
	}
	next := st.Clone()

	switch e := ev.(type) {
	case ClearError:
		next.Error = ""

	case RequestLocationAndShare:
		next.IsFetchingLocation = true

	case LocationPermissionsResult:
		granted := e.Granted
		next.LocationPermission = &granted
		if !granted {
			next.IsFetchingLocation = false
			next.CurrentAddress = msgs(messages.PermissionDenied)
		}

	case LocationFetched:
		next.IsFetchingLocation = false
		if e.Address != nil {
			next.CurrentAddress = *e.Address
		} else {
			next.CurrentAddress = msgs(messages.CouldNotDetermine)
		}
		next.Location = nil
		if e.Location != nil {
			c := *e.Location
			next.Location = &c
		}

	case AddToWishlist:
		if wishlistIndex(next.Wishlist, e.Product.ID) < 0 {
			next.Wishlist = append(next.Wishlist, e.Product)
		}
		next.LastWishlistMessage = msgs(messages.AddedToWishlist, e.Product.DisplayTitle())

	case RemoveFromWishlist:
		if i := wishlistIndex(next.Wishlist, e.Product.ID); i >= 0 {
			next.Wishlist = append(next.Wishlist[:i], next.Wishlist[i+1:]...)
		}
		next.LastWishlistMessage = msgs(messages.RemovedFromWishlist, e.Product.DisplayTitle())

	case ClearLastWishlistActionMessage:
		next.LastWishlistMessage = ""

	case SearchProducts:
		next.SearchQuery = e.Query

	case listOffline:
		next.Error = msgs(messages.NoInternet)
		next.IsLoadingList = false
	case listStarted:
		next.IsLoadingList = true
		next.Error = ""
	case listLoaded:
		next.Products = cloneProducts(e.products, true)
		if next.Products == nil {
			next.Products = []catalog.Product{}
		}
		next.ProductsLoaded = true
		next.IsLoadingList = false
	case listFailed:
		next.Error = errorMessage(e.err, msgs)
		next.IsLoadingList = false

	case detailOffline:
		next.Error = msgs(messages.NoInternet)
		next.IsLoadingDetail = false
	case detailStarted:
		next.IsLoadingDetail = true
		next.Error = ""
		next.SelectedProduct = nil
	case detailLoaded:
		d := e.detail
		next.SelectedProduct = &d
		next.IsLoadingDetail = false
	case detailFailed:
		next.Error = errorMessage(e.err, msgs)
		next.IsLoadingDetail = false
	}

	return next
}

func errorMessage(err *catalog.Error, msgs messages.Lookup) string {
	if err == nil {
		return msgs(messages.UnexpectedError, msgs(messages.UnknownError))
	}
	switch err.Kind {
	case catalog.KindTransport:
		return msgs(messages.NetworkError, err.Detail)
	case catalog.KindStatus:
		return msgs(messages.ServerError, err.StatusCode)
	default:
		return msgs(messages.UnexpectedError, err.Detail)
	}
}

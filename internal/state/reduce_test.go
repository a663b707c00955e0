package state

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/location"
	"github.com/five82/kart/internal/messages"
)

var (
	apple  = catalog.Product{ID: 1, Title: "Apple", Summary: "Crisp and red"}
	banana = catalog.Product{ID: 2, Title: "Banana", Summary: "Ripe"}
	cherry = catalog.Product{ID: 3, Title: "Cherry", Summary: "Red stone fruit"}
)

func TestReduce_WishlistAddIsIdempotent(t *testing.T) {
	st := Initial(nil)
	st = Reduce(st, AddToWishlist{Product: apple}, nil)
	st = Reduce(st, AddToWishlist{Product: apple}, nil)

	if len(st.Wishlist) != 1 || st.Wishlist[0].ID != apple.ID {
		t.Fatalf("Wishlist = %#v, want exactly one apple", st.Wishlist)
	}
	if st.LastWishlistMessage != "Apple added to wishlist" {
		t.Fatalf("LastWishlistMessage = %q", st.LastWishlistMessage)
	}

	st = Reduce(st, RemoveFromWishlist{Product: apple}, nil)
	if len(st.Wishlist) != 0 || st.InWishlist(apple.ID) {
		t.Fatalf("Wishlist = %#v, want empty after remove", st.Wishlist)
	}
	if st.LastWishlistMessage != "Apple removed from wishlist" {
		t.Fatalf("LastWishlistMessage = %q", st.LastWishlistMessage)
	}

	st = Reduce(st, ClearLastWishlistActionMessage{}, nil)
	if st.LastWishlistMessage != "" {
		t.Fatalf("LastWishlistMessage = %q, want cleared", st.LastWishlistMessage)
	}
}

func TestReduce_WishlistMatchesNetHistory(t *testing.T) {
	products := []catalog.Product{apple, banana, cherry, {ID: 4, Title: "Date"}, {ID: 5, Title: "Elderberry"}}
	rng := rand.New(rand.NewSource(42))

	st := Initial(nil)
	var model []int
	for i := 0; i < 500; i++ {
		p := products[rng.Intn(len(products))]
		idx := -1
		for j, id := range model {
			if id == p.ID {
				idx = j
			}
		}
		if rng.Intn(2) == 0 {
			st = Reduce(st, AddToWishlist{Product: p}, nil)
			if idx < 0 {
				model = append(model, p.ID)
			}
		} else {
			st = Reduce(st, RemoveFromWishlist{Product: p}, nil)
			if idx >= 0 {
				model = append(model[:idx], model[idx+1:]...)
			}
		}

		seen := map[int]bool{}
		got := make([]int, 0, len(st.Wishlist))
		for _, w := range st.Wishlist {
			if seen[w.ID] {
				t.Fatalf("step %d: duplicate id %d in %#v", i, w.ID, st.Wishlist)
			}
			seen[w.ID] = true
			got = append(got, w.ID)
		}
		if len(model) == 0 && len(got) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, model) {
			t.Fatalf("step %d: wishlist ids = %v, want %v", i, got, model)
		}
	}
}

func TestReduce_ClearErrorTouchesOnlyError(t *testing.T) {
	granted := true
	st := Initial(nil)
	st.Products = []catalog.Product{apple}
	st.ProductsLoaded = true
	st.Error = "server error: 500"
	st.Wishlist = []catalog.Product{banana}
	st.SearchQuery = "app"
	st.LocationPermission = &granted
	st.IsLoadingDetail = true

	got := Reduce(st, ClearError{}, nil)
	want := st.Clone()
	want.Error = ""
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ClearError changed more than Error:\n got %#v\nwant %#v", got, want)
	}
}

func TestReduce_LoadTransitions(t *testing.T) {
	st := Initial(nil)
	st.Error = "old"

	st = Reduce(st, listStarted{}, nil)
	if !st.IsLoadingList || st.Error != "" {
		t.Fatalf("after start: loading=%v error=%q", st.IsLoadingList, st.Error)
	}
	st = Reduce(st, listLoaded{products: nil}, nil)
	if st.IsLoadingList || !st.ProductsLoaded || st.Products == nil || len(st.Products) != 0 {
		t.Fatalf("after empty load: %#v, want loaded and empty", st)
	}

	st = Reduce(st, listLoaded{products: []catalog.Product{apple}}, nil)
	st = Reduce(st, listFailed{err: &catalog.Error{Kind: catalog.KindStatus, StatusCode: 503}}, nil)
	if st.Error != "server error: 503" || len(st.Products) != 1 {
		t.Fatalf("after failure: error=%q products=%d, want stale list kept", st.Error, len(st.Products))
	}

	st = Reduce(st, detailLoaded{detail: catalog.ProductDetail{ID: 1}}, nil)
	st = Reduce(st, detailStarted{}, nil)
	if !st.IsLoadingDetail || st.SelectedProduct != nil || st.Error != "" {
		t.Fatalf("detail start should reset selection and error: %#v", st)
	}
	st = Reduce(st, detailOffline{}, nil)
	if st.IsLoadingDetail || st.Error != "No internet connection" {
		t.Fatalf("detail offline: loading=%v error=%q", st.IsLoadingDetail, st.Error)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *catalog.Error
		want string
	}{
		{&catalog.Error{Kind: catalog.KindTransport, Detail: "connection refused"}, "network error: connection refused"},
		{&catalog.Error{Kind: catalog.KindStatus, StatusCode: 404}, "server error: 404"},
		{&catalog.Error{Kind: catalog.KindUnexpected, Detail: "decode response"}, "unexpected error: decode response"},
	}
	for _, tt := range tests {
		if got := errorMessage(tt.err, messages.Default); got != tt.want {
			t.Fatalf("errorMessage(%v) = %q, want %q", tt.err.Kind, got, tt.want)
		}
	}
}

func TestReduce_LocationEvents(t *testing.T) {
	st := Reduce(Initial(nil), RequestLocationAndShare{}, nil)
	if !st.IsFetchingLocation {
		t.Fatalf("RequestLocationAndShare should set IsFetchingLocation")
	}

	denied := Reduce(st, LocationPermissionsResult{Granted: false}, nil)
	if denied.IsFetchingLocation || denied.CurrentAddress != "Location permission denied." {
		t.Fatalf("denied: %#v", denied)
	}
	if denied.LocationPermission == nil || *denied.LocationPermission {
		t.Fatalf("LocationPermission = %v, want false", denied.LocationPermission)
	}

	granted := Reduce(st, LocationPermissionsResult{Granted: true}, nil)
	if !granted.IsFetchingLocation || granted.CurrentAddress != Initial(nil).CurrentAddress {
		t.Fatalf("granted should leave fetch running: %#v", granted)
	}

	addr := "Grand Rapids"
	fetched := Reduce(granted, LocationFetched{Location: &location.Coordinates{Latitude: 42.96, Longitude: -85.67}, Address: &addr}, nil)
	if fetched.IsFetchingLocation || fetched.CurrentAddress != addr || fetched.Location == nil {
		t.Fatalf("fetched: %#v", fetched)
	}

	unnamed := Reduce(granted, LocationFetched{}, nil)
	if unnamed.CurrentAddress != "Could not determine address." || unnamed.Location != nil {
		t.Fatalf("unnamed: %#v", unnamed)
	}
}

func TestVisibleProducts(t *testing.T) {
	st := Initial(nil)
	if st.VisibleProducts() != nil {
		t.Fatalf("VisibleProducts before load should be nil")
	}
	st = Reduce(st, listLoaded{products: []catalog.Product{apple, banana, cherry}}, nil)

	st = Reduce(st, SearchProducts{Query: "RED"}, nil)
	got := st.VisibleProducts()
	if len(got) != 2 || got[0].ID != apple.ID || got[1].ID != cherry.ID {
		t.Fatalf("VisibleProducts(RED) = %#v, want apple and cherry", got)
	}
	if len(st.Products) != 3 {
		t.Fatalf("search must not change Products")
	}

	st = Reduce(st, SearchProducts{Query: ""}, nil)
	if len(st.VisibleProducts()) != 3 {
		t.Fatalf("empty query should show everything")
	}
}

func TestCloneIsDeep(t *testing.T) {
	st := Initial(nil)
	st.Products = []catalog.Product{apple}
	st.Wishlist = []catalog.Product{banana}
	st.SelectedProduct = &catalog.ProductDetail{ID: 1, Title: "Apple"}

	dup := st.Clone()
	dup.Products[0].Title = "changed"
	dup.Wishlist[0].Title = "changed"
	dup.SelectedProduct.Title = "changed"

	if st.Products[0].Title != "Apple" || st.Wishlist[0].Title != "Banana" || st.SelectedProduct.Title != "Apple" {
		t.Fatalf("Clone shared memory with the original")
	}
}

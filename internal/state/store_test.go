package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/location"
	"github.com/five82/kart/internal/messages"
	"github.com/five82/kart/internal/netcheck"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCatalog struct {
	listCalls   atomic.Int32
	detailCalls atomic.Int32
	list        func(ctx context.Context) ([]catalog.Product, error)
	detail      func(ctx context.Context, id int) (catalog.ProductDetail, error)
}

func (f *fakeCatalog) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	f.listCalls.Add(1)
	if f.list == nil {
		return []catalog.Product{apple, banana}, nil
	}
	return f.list(ctx)
}

func (f *fakeCatalog) FetchProductDetail(ctx context.Context, id int) (catalog.ProductDetail, error) {
	f.detailCalls.Add(1)
	if f.detail == nil {
		return catalog.ProductDetail{ID: id, Title: "Apple", Price: "$1.00"}, nil
	}
	return f.detail(ctx, id)
}

type fakeLocator struct {
	result  location.Result
	address string
}

func (f fakeLocator) Locate(context.Context) location.Result { return f.result }

func (f fakeLocator) Address(context.Context, location.Coordinates) string { return f.address }

type recordingSharer struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (r *recordingSharer) Share(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return r.err
}

func (r *recordingSharer) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func newStore(t *testing.T, deps Deps) *Store {
	t.Helper()
	if deps.Catalog == nil {
		deps.Catalog = &fakeCatalog{}
	}
	s, err := New(deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func collect(t *testing.T, ch <-chan State, n int) []State {
	t.Helper()
	out := make([]State, 0, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "subscription closed after %d states, want %d", len(out), n)
			out = append(out, st)
		case <-timeout:
			t.Fatalf("received %d states, want %d", len(out), n)
		}
	}
	return out
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestInitialState(t *testing.T) {
	s := newStore(t, Deps{})
	st := s.Snapshot()
	assert.Equal(t, messages.Default(messages.AddressNotAvailable), st.CurrentAddress)
	assert.False(t, st.ProductsLoaded)
	assert.Nil(t, st.LocationPermission)
}

func TestLoadProductList_Offline(t *testing.T) {
	cat := &fakeCatalog{}
	s := newStore(t, Deps{Catalog: cat, Connectivity: netcheck.Static(false)})

	require.NoError(t, s.Dispatch(context.Background(), LoadProductList{}))
	st := s.Snapshot()
	assert.Equal(t, "No internet connection", st.Error)
	assert.False(t, st.IsLoadingList)
	assert.Zero(t, cat.listCalls.Load(), "catalog must not be called while offline")

	require.NoError(t, s.Dispatch(context.Background(), LoadProductDetail{ID: 1}))
	assert.Zero(t, cat.detailCalls.Load())
	assert.False(t, s.Snapshot().IsLoadingDetail)
}

func TestLoadProductList_PublishesStartThenResult(t *testing.T) {
	s := newStore(t, Deps{})
	updates, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Dispatch(context.Background(), LoadProductList{}))
	states := collect(t, updates, 3)

	assert.False(t, states[0].IsLoadingList)
	assert.True(t, states[1].IsLoadingList)
	assert.Empty(t, states[1].Error)
	assert.False(t, states[2].IsLoadingList)
	assert.True(t, states[2].ProductsLoaded)
	assert.Len(t, states[2].Products, 2)
}

func TestLoadProductList_FailureKeepsProducts(t *testing.T) {
	cat := &fakeCatalog{}
	s := newStore(t, Deps{Catalog: cat})
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, LoadProductList{}))
	cat.list = func(context.Context) ([]catalog.Product, error) {
		return nil, &catalog.Error{Kind: catalog.KindStatus, StatusCode: 500}
	}
	require.NoError(t, s.Dispatch(ctx, LoadProductList{}))

	st := s.Snapshot()
	assert.Equal(t, "server error: 500", st.Error)
	assert.False(t, st.IsLoadingList)
	assert.Len(t, st.Products, 2)

	cat.list = func(context.Context) ([]catalog.Product, error) {
		return nil, errors.New("weird payload")
	}
	require.NoError(t, s.Dispatch(ctx, LoadProductList{}))
	assert.Equal(t, "unexpected error: weird payload", s.Snapshot().Error)

	require.NoError(t, s.Dispatch(ctx, ClearError{}))
	assert.Empty(t, s.Snapshot().Error)
}

func TestLoadProductDetail_TransportError(t *testing.T) {
	cat := &fakeCatalog{detail: func(context.Context, int) (catalog.ProductDetail, error) {
		return catalog.ProductDetail{}, context.DeadlineExceeded
	}}
	s := newStore(t, Deps{Catalog: cat})

	require.NoError(t, s.Dispatch(context.Background(), LoadProductDetail{ID: 7}))
	st := s.Snapshot()
	assert.Equal(t, "network error: context deadline exceeded", st.Error)
	assert.Nil(t, st.SelectedProduct)
	assert.False(t, st.IsLoadingDetail)
}

func TestLoadProductDetail_NotFound(t *testing.T) {
	cat := &fakeCatalog{detail: func(context.Context, int) (catalog.ProductDetail, error) {
		return catalog.ProductDetail{}, &catalog.Error{Kind: catalog.KindStatus, StatusCode: 404, Detail: "status 404"}
	}}
	logger, hook := test.NewNullLogger()
	s := newStore(t, Deps{Catalog: cat, Log: logrus.NewEntry(logger)})

	require.NoError(t, s.Dispatch(context.Background(), LoadProductDetail{ID: 99}))
	assert.Equal(t, "server error: 404", s.Snapshot().Error)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, "product not in catalog", last.Message)
}

func TestLoadProductDetail_LastDispatchWins(t *testing.T) {
	firstStarted := make(chan struct{})
	cat := &fakeCatalog{detail: func(ctx context.Context, id int) (catalog.ProductDetail, error) {
		if id == 1 {
			close(firstStarted)
			<-ctx.Done()
			return catalog.ProductDetail{}, ctx.Err()
		}
		return catalog.ProductDetail{ID: id, Title: "Banana"}, nil
	}}
	s := newStore(t, Deps{Catalog: cat})
	updates, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Dispatch(context.Background(), LoadProductDetail{ID: 1}))
	}()
	<-firstStarted
	require.NoError(t, s.Dispatch(context.Background(), LoadProductDetail{ID: 2}))
	wg.Wait()

	st := s.Snapshot()
	require.NotNil(t, st.SelectedProduct)
	assert.Equal(t, 2, st.SelectedProduct.ID)
	assert.Empty(t, st.Error, "superseded load must not surface its cancellation")

	// initial, start(1), start(2), loaded(2)
	states := collect(t, updates, 4)
	for _, st := range states {
		assert.Empty(t, st.Error)
	}
	assert.Equal(t, 2, states[3].SelectedProduct.ID)
}

func TestEventsProceedWhileListLoadInFlight(t *testing.T) {
	listStarted := make(chan struct{})
	release := make(chan struct{})
	detailCalled := make(chan struct{})
	cat := &fakeCatalog{
		list: func(ctx context.Context) ([]catalog.Product, error) {
			close(listStarted)
			select {
			case <-release:
				return []catalog.Product{apple}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
		detail: func(_ context.Context, id int) (catalog.ProductDetail, error) {
			close(detailCalled)
			return catalog.ProductDetail{ID: id, Title: "Banana"}, nil
		},
	}
	s := newStore(t, Deps{Catalog: cat})

	listDone := make(chan error, 1)
	go func() { listDone <- s.Dispatch(context.Background(), LoadProductList{}) }()
	<-listStarted

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Dispatch(ctx, AddToWishlist{Product: banana}))
	require.NoError(t, s.Dispatch(ctx, SearchProducts{Query: "ban"}))
	st := s.Snapshot()
	assert.True(t, st.InWishlist(banana.ID))
	assert.Equal(t, "ban", st.SearchQuery)
	assert.True(t, st.IsLoadingList)

	require.NoError(t, s.Dispatch(ctx, LoadProductDetail{ID: 2}))
	select {
	case <-detailCalled:
	default:
		t.Fatal("detail fetch did not run while the list load was in flight")
	}
	require.NotNil(t, s.Snapshot().SelectedProduct)
	assert.True(t, s.Snapshot().IsLoadingList)

	close(release)
	require.NoError(t, <-listDone)
	st = s.Snapshot()
	assert.False(t, st.IsLoadingList)
	assert.Len(t, st.Products, 1)
	assert.True(t, st.InWishlist(banana.ID), "list result must not undo the wishlist change")
}

func TestSubscribersSeeSameOrder(t *testing.T) {
	s := newStore(t, Deps{})
	a, cancelA := s.Subscribe()
	defer cancelA()
	b, cancelB := s.Subscribe()
	defer cancelB()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := catalog.Product{ID: i, Title: "P"}
			assert.NoError(t, s.Dispatch(ctx, AddToWishlist{Product: p}))
		}(i)
	}
	wg.Wait()

	gotA := collect(t, a, 11)
	gotB := collect(t, b, 11)
	assert.Equal(t, gotA, gotB)
	assert.Len(t, gotA[10].Wishlist, 10)
}

func TestSlowSubscriberNeverDrops(t *testing.T) {
	s := newStore(t, Deps{})
	updates, cancel := s.Subscribe()
	defer cancel()

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Dispatch(ctx, SearchProducts{Query: string(rune('a' + i%26))}))
	}

	states := collect(t, updates, 101)
	for i := 1; i < len(states); i++ {
		assert.Equal(t, string(rune('a'+(i-1)%26)), states[i].SearchQuery)
	}
}

func TestLateSubscriberGetsCurrentState(t *testing.T) {
	s := newStore(t, Deps{})
	require.NoError(t, s.Dispatch(context.Background(), AddToWishlist{Product: apple}))

	updates, cancel := s.Subscribe()
	defer cancel()
	first := collect(t, updates, 1)[0]
	assert.True(t, first.InWishlist(apple.ID))
}

func TestCloseEndsSubscriptions(t *testing.T) {
	s, err := New(Deps{Catalog: &fakeCatalog{}})
	require.NoError(t, err)
	updates, cancel := s.Subscribe()

	s.Close()
	cancel()
	for range updates {
	}
	assert.ErrorIs(t, s.Dispatch(context.Background(), ClearError{}), ErrClosed)

	late, _ := s.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}

func TestShareProductWithLocation(t *testing.T) {
	sharer := &recordingSharer{}
	s := newStore(t, Deps{Sharer: sharer})
	ctx := context.Background()

	assert.ErrorIs(t, s.Dispatch(ctx, ShareProductWithLocation{}), ErrNothingToShare)
	assert.Empty(t, sharer.Texts(), "nothing to share without a selected product")

	require.NoError(t, s.Dispatch(ctx, LoadProductDetail{ID: 1}))
	before := s.Snapshot()
	require.NoError(t, s.Dispatch(ctx, ShareProductWithLocation{}))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, []string{"Check out Apple for $1.00! Shared from Address not available.."}, sharer.Texts())

	sharer.err = errors.New("no clipboard")
	assert.Error(t, s.Dispatch(ctx, ShareProductWithLocation{}))
}

func TestFetchLocationAndShare(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		sharer := &recordingSharer{}
		loc := fakeLocator{
			result:  location.Result{Coordinates: location.Coordinates{Latitude: 42.9, Longitude: -85.6}, Found: true},
			address: "Grand Rapids",
		}
		s := newStore(t, Deps{Locator: loc, Sharer: sharer})
		require.NoError(t, s.Dispatch(ctx, LoadProductDetail{ID: 1}))
		require.NoError(t, s.Dispatch(ctx, RequestLocationAndShare{}))
		require.NoError(t, s.Dispatch(ctx, LocationPermissionsResult{Granted: true}))

		require.NoError(t, s.FetchLocationAndShare(ctx))
		st := s.Snapshot()
		assert.False(t, st.IsFetchingLocation)
		assert.Equal(t, "Grand Rapids", st.CurrentAddress)
		require.NotNil(t, st.Location)
		assert.InDelta(t, 42.9, st.Location.Latitude, 1e-9)
		assert.Equal(t, []string{"Check out Apple for $1.00! Shared from Grand Rapids."}, sharer.Texts())
	})

	t.Run("no fix", func(t *testing.T) {
		sharer := &recordingSharer{}
		s := newStore(t, Deps{Locator: fakeLocator{}, Sharer: sharer})
		require.NoError(t, s.Dispatch(ctx, LoadProductDetail{ID: 1}))
		require.NoError(t, s.Dispatch(ctx, RequestLocationAndShare{}))

		require.NoError(t, s.FetchLocationAndShare(ctx))
		st := s.Snapshot()
		assert.False(t, st.IsFetchingLocation)
		assert.Equal(t, "Could not get current location.", st.CurrentAddress)
		assert.Nil(t, st.Location)
		assert.Equal(t, []string{"Check out Apple for $1.00! Shared from Location unknown."}, sharer.Texts())
	})

	t.Run("disabled", func(t *testing.T) {
		s := newStore(t, Deps{})
		assert.ErrorIs(t, s.FetchLocationAndShare(ctx), ErrNothingToShare)
		assert.Equal(t, "Location services are disabled.", s.Snapshot().CurrentAddress)
	})
}

package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/kart/internal/config"
	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/messages"
	"github.com/five82/kart/internal/netcheck"
	"github.com/five82/kart/internal/share"
	"github.com/five82/kart/internal/state"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products.json":
			fmt.Fprint(w, `[{"id":1,"title":"Lamp","summary":"Warm light","imageUrl":"lamp.png"},{"id":2,"title":"Desk","summary":"Oak","imageUrl":"desk.png"}]`)
		case "/product-details/2.json":
			fmt.Fprint(w, `{"id":2,"title":"Desk","summary":"Oak","imageUrl":"desk.png","description":"Solid oak desk","price":"$250"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGeocodeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"address":{"town":"Lisbon"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.RequestsPerSecond = 0
	cfg.Connectivity.Mode = "assume-online"
	cfg.Share.Target = "stdout"
	cfg.Location.Mode = "none"
	return cfg
}

func TestNewStoreLoadsAndSharesWithStaticLocation(t *testing.T) {
	catalogSrv := newCatalogServer(t)
	geoSrv := newGeocodeServer(t)

	cfg := testConfig(catalogSrv.URL)
	cfg.Location.Mode = "static"
	cfg.Location.Latitude = 38.72
	cfg.Location.Longitude = -9.14
	cfg.Location.GeocodeURL = geoSrv.URL

	var out bytes.Buffer
	store, err := newStore(cfg, messages.Default, &out, logging.Discard())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Dispatch(ctx, state.LoadProductList{}))
	snap := store.Snapshot()
	require.True(t, snap.ProductsLoaded)
	require.Len(t, snap.Products, 2)
	assert.Empty(t, snap.Error)

	require.NoError(t, store.Dispatch(ctx, state.LoadProductDetail{ID: 2}))
	require.NotNil(t, store.Snapshot().SelectedProduct)

	require.NoError(t, store.FetchLocationAndShare(ctx))
	snap = store.Snapshot()
	assert.Equal(t, "Lisbon", snap.CurrentAddress)
	require.NotNil(t, snap.Location)
	assert.InDelta(t, 38.72, snap.Location.Latitude, 1e-9)
	assert.Contains(t, out.String(), "Check out Desk for $250! Shared from Lisbon.")
}

func TestNewStoreWithoutLocationReportsDisabled(t *testing.T) {
	catalogSrv := newCatalogServer(t)

	var out bytes.Buffer
	store, err := newStore(testConfig(catalogSrv.URL), messages.Default, &out, logging.Discard())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Dispatch(ctx, state.LoadProductDetail{ID: 2}))
	require.NoError(t, store.FetchLocationAndShare(ctx))

	assert.Equal(t, messages.Default(messages.LocationServicesOff), store.Snapshot().CurrentAddress)
	assert.Contains(t, out.String(), "Shared from "+messages.Default(messages.LocationUnknown))
}

func TestNewStoreServerErrorSurfacesInState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store, err := newStore(testConfig(srv.URL), messages.Default, &bytes.Buffer{}, logging.Discard())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Dispatch(context.Background(), state.LoadProductList{}))
	assert.Equal(t, "server error: 503", store.Snapshot().Error)
}

func TestNewStoreRejectsBadBaseURL(t *testing.T) {
	cfg := testConfig("://nope")
	_, err := newStore(cfg, messages.Default, &bytes.Buffer{}, logging.Discard())
	require.Error(t, err)
}

func TestNewCheckerModes(t *testing.T) {
	cfg := testConfig("https://example.com")
	checker, err := newChecker(cfg, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, netcheck.Static(true), checker)

	cfg.Connectivity.Mode = "dial"
	checker, err = newChecker(cfg, logging.Discard())
	require.NoError(t, err)
	d, ok := checker.(*netcheck.Dialer)
	require.True(t, ok)
	assert.Equal(t, "example.com:443", d.Addr())
}

func TestNewSharerTargets(t *testing.T) {
	assert.IsType(t, share.Clipboard{}, newSharer(config.Share{Target: "clipboard"}, nil))
	assert.IsType(t, &share.Writer{}, newSharer(config.Share{Target: "stdout"}, &bytes.Buffer{}))

	both, ok := newSharer(config.Share{Target: "both"}, &bytes.Buffer{}).(share.Multi)
	require.True(t, ok)
	require.Len(t, both, 2)
	assert.IsType(t, share.Clipboard{}, both[0])
	assert.IsType(t, &share.Writer{}, both[1])

	assert.Equal(t, messages.SharePrinted, shareNotice(config.Share{Target: "stdout"}))
	assert.Equal(t, messages.ShareCopied, shareNotice(config.Share{Target: "both"}))
	assert.Equal(t, messages.ShareCopied, shareNotice(config.Share{Target: "clipboard"}))
}

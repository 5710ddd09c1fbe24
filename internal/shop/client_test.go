package shop_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/model"
	"github.com/derickschaefer/storefront/internal/render"
	"github.com/derickschaefer/storefront/internal/shop"
)

const twoProducts = `[
  {
    "id": 1,
    "title": "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
    "price": 109.95,
    "description": "Your perfect pack for everyday use",
    "category": "men's clothing",
    "image": "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
    "rating": {"rate": 3.9, "count": 120}
  },
  {"id": 2, "title": "Mystery Item"}
]`

// serve starts a test server answering every request with status and body.
func serve(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func newClient(url string) *shop.Client {
	return shop.NewClient(url, 5*time.Second, 0, nil)
}

func TestListProductsDecodesRecords(t *testing.T) {
	srv, hits := serve(t, http.StatusOK, twoProducts)

	products, err := newClient(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.EqualValues(t, 1, hits.Load())

	p := products[0]
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "men's clothing", p.Category)
	require.True(t, p.Price.Valid)
	assert.Equal(t, "109.95", p.Price.Decimal.String())
	require.NotNil(t, p.Rate())
	assert.Equal(t, 3.9, *p.Rate())
	require.NotNil(t, p.Stock())
	assert.Equal(t, 120, *p.Stock())

	// Missing fields decode to zero values rather than failing.
	q := products[1]
	assert.Equal(t, "Mystery Item", q.Title)
	assert.False(t, q.Price.Valid)
	assert.Nil(t, q.Rating)
	assert.Nil(t, q.Rate())
	assert.Nil(t, q.Stock())
}

func TestListProductsEmptyArray(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `[]`)

	products, err := newClient(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProductsMalformedBodies(t *testing.T) {
	for name, body := range map[string]string{
		"object":         `{"products": []}`,
		"null":           `null`,
		"empty body":     ``,
		"scalar element": `[1, 2]`,
		"html":           `<html>oops</html>`,
		"truncated":      `[{"id": 1}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := serve(t, http.StatusOK, body)

			_, err := newClient(srv.URL).ListProducts(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, shop.ErrMalformedResponse)

			var m catalog.MalformedError
			require.True(t, errors.As(err, &m))
			assert.True(t, m.Malformed())
		})
	}
}

func TestListProductsToleratesMistypedFields(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `[
  {"id": 1, "title": "Backpack", "price": 109.95, "category": "men's clothing", "rating": {"rate": 3.9, "count": 120}},
  {"id": 2, "title": "Gold Ring", "price": 168, "category": "jewelery", "description": "A ring",
   "image": "https://example.test/2.jpg", "rating": {"rate": 4, "count": "120"}},
  {"id": "three", "title": 3, "price": "abc", "category": null, "rating": [1, 2], "extra": {"nested": [true]}}
]`)

	products, err := newClient(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	ring := products[1]
	assert.Equal(t, 2, ring.ID)
	assert.Equal(t, "168", ring.Price.Decimal.String())
	require.NotNil(t, ring.Rate())
	assert.Equal(t, 4.0, *ring.Rate())
	assert.Nil(t, ring.Stock())

	var buf bytes.Buffer
	require.NoError(t, render.Render(&buf, &model.Result{Kind: model.KindProduct, Data: &ring}, render.FormatTable))
	assert.Contains(t, buf.String(), "Gold Ring")
	assert.Equal(t, 1, strings.Count(buf.String(), "N/A"), "only the stock is missing")

	odd := products[2]
	assert.Zero(t, odd.ID)
	assert.Empty(t, odd.Title)
	assert.False(t, odd.Price.Valid)
	assert.Empty(t, odd.Category)
	assert.Nil(t, odd.Rating)
}

func TestListProductsHTTPErrorBodyCutOnRunes(t *testing.T) {
	srv, _ := serve(t, http.StatusBadGateway, strings.Repeat("é", 300))

	_, err := newClient(srv.URL).ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "...")
}

func TestClientLogsThroughInjectedLogger(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, twoProducts)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := shop.NewClient(srv.URL, 5*time.Second, 0, log).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "shop request")
	assert.Contains(t, logs.String(), "status=200")
}

func TestListProductsHTTPErrorIsTransport(t *testing.T) {
	srv, hits := serve(t, http.StatusServiceUnavailable, "down for maintenance")

	_, err := newClient(srv.URL).ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.NotErrorIs(t, err, shop.ErrMalformedResponse)
	assert.EqualValues(t, 1, hits.Load(), "no retries")
}

func TestListProductsConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(url).ListProducts(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, shop.ErrMalformedResponse)
}

func TestListProductsHonoursContext(t *testing.T) {
	srv, hits := serve(t, http.StatusOK, twoProducts)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(srv.URL).ListProducts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, hits.Load())
}

func TestClientFeedsLoader(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   catalog.FailureKind
	}{
		{"empty array", http.StatusOK, `[]`, catalog.EmptyOrMalformedResponse},
		{"not an array", http.StatusOK, `{"error":"nope"}`, catalog.EmptyOrMalformedResponse},
		{"server error", http.StatusInternalServerError, `oops`, catalog.TransportFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := serve(t, tc.status, tc.body)
			st := catalog.New()

			err := catalog.NewLoader(newClient(srv.URL), nil).Load(context.Background(), st)
			require.Error(t, err)
			failed, ok := st.Status().(catalog.Failed)
			require.True(t, ok)
			assert.Equal(t, tc.kind, failed.Kind)
			assert.Equal(t, "Failed to load products.", failed.Reason)
		})
	}

	srv, _ := serve(t, http.StatusOK, twoProducts)
	st := catalog.New()
	require.NoError(t, catalog.NewLoader(newClient(srv.URL), nil).Load(context.Background(), st))
	assert.Len(t, st.Visible(), 2)
	assert.Equal(t, []string{"All", "men's clothing"}, st.Categories())
}

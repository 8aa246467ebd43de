package barcode

import (
	"PantryPal/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productAPI(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/api/v2/product/3017620422003.json":
			_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Nutella","brands":"Ferrero, Nutella","image_front_url":"https://img/n.jpg"}}`))
		case "/api/v2/product/5000112637922.json":
			_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Coca-Cola Zero","brands":"Coca-Cola"}}`))
		case "/api/v2/product/00000000.json":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func TestLookupCombinesBrandAndName(t *testing.T) {
	var hits int32
	svc := NewBarcodeService(productAPI(t, &hits).URL, nil)

	p, err := svc.Lookup(context.Background(), "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, "Ferrero Nutella", p.Name)
	assert.Equal(t, "Ferrero", p.Brand)
	assert.Equal(t, "https://img/n.jpg", p.Image)

	p, err = svc.Lookup(context.Background(), "5000112637922")
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola Zero", p.Name)
}

func TestLookupReadsThroughCache(t *testing.T) {
	var hits int32
	cache, mr := newCache(t)
	svc := NewBarcodeService(productAPI(t, &hits).URL, cache)
	ctx := context.Background()

	first, err := svc.Lookup(ctx, "3017620422003")
	require.NoError(t, err)
	second, err := svc.Lookup(ctx, "3017620422003")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	assert.Equal(t, cacheTTL, mr.TTL(cachePrefix+"3017620422003"))
}

func TestLookupCachesMisses(t *testing.T) {
	var hits int32
	cache, mr := newCache(t)
	svc := NewBarcodeService(productAPI(t, &hits).URL, cache)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "00000000")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = svc.Lookup(ctx, "00000000")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	mr.FastForward(missTTL + time.Minute)
	_, err = svc.Lookup(ctx, "00000000")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestLookupValidatesCode(t *testing.T) {
	svc := NewBarcodeService("http://127.0.0.1:0", nil)
	for _, code := range []string{"", "123", "abcdefghijk", "123456789012345"} {
		_, err := svc.Lookup(context.Background(), code)
		assert.ErrorIs(t, err, domain.ErrInvalidBarcode, code)
	}
}

func TestLookupUpstreamFailureIsNotCached(t *testing.T) {
	var hits int32
	cache, mr := newCache(t)
	svc := NewBarcodeService(productAPI(t, &hits).URL, cache)

	_, err := svc.Lookup(context.Background(), "12345678")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.False(t, mr.Exists(cachePrefix+"12345678"))
}

func TestCacheFailureFallsBackToAPI(t *testing.T) {
	var hits int32
	cache, mr := newCache(t)
	svc := NewBarcodeService(productAPI(t, &hits).URL, cache)
	mr.Close()

	p, err := svc.Lookup(context.Background(), "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, "Ferrero Nutella", p.Name)
}

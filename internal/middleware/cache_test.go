package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func contextFor(method, target, route string) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(method, target, nil), httptest.NewRecorder())
	c.SetPath(route)
	return c
}

func TestCacheKeyIncludesQueryAndPath(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "catalog:cache", KeyStrategy: "route_query"}
	a := cacheKey(cfg, contextFor(http.MethodGet, "/v1/genres?searchTerm=dra", "/v1/genres"))
	b := cacheKey(cfg, contextFor(http.MethodGet, "/v1/genres?searchTerm=com", "/v1/genres"))
	if a == b {
		t.Error("different queries share a key")
	}
	if !strings.HasPrefix(a, "catalog:cache:") {
		t.Errorf("key %q lacks prefix", a)
	}

	x := cacheKey(cfg, contextFor(http.MethodGet, "/v1/genres/by-slug/drama", "/v1/genres/by-slug/:slug"))
	y := cacheKey(cfg, contextFor(http.MethodGet, "/v1/genres/by-slug/comedy", "/v1/genres/by-slug/:slug"))
	if x == y {
		t.Error("different slugs share a key")
	}
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "p", KeyStrategy: "route"}
	a := cacheKey(cfg, contextFor(http.MethodGet, "/v1/movies?searchTerm=a", "/v1/movies"))
	b := cacheKey(cfg, contextFor(http.MethodGet, "/v1/movies?searchTerm=b", "/v1/movies"))
	if a != b {
		t.Error("route strategy should ignore the query")
	}
}

func TestCaptureWriterTruncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	if !cw.truncated {
		t.Error("expected truncation")
	}
	if rec.Body.String() != "abcdef" {
		t.Errorf("client body = %q", rec.Body.String())
	}
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	for name, mw := range map[string]echo.MiddlewareFunc{
		"cache": NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		"purge": PurgeCacheOnWrite(config.CacheConfig{Enabled: true, PurgeOnWrite: true}, nil),
		"rate":  NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	} {
		rec, _ := serveWith(t, "", mw)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", name, rec.Code)
		}
	}
}

func TestRateKeyStrategies(t *testing.T) {
	c := contextFor(http.MethodGet, "/v1/movies", "/v1/movies")
	c.Request().RemoteAddr = "10.0.0.1:1234"
	c.Set(CtxUserID, uint64(7))
	cases := map[string]string{
		"ip":       "rl:ip:10.0.0.1",
		"user":     "rl:user:7",
		"ip_route": "rl:ip:10.0.0.1:route:GET /v1/movies",
	}
	for strategy, want := range cases {
		got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		if got != want {
			t.Errorf("%s: key = %q, want %q", strategy, got, want)
		}
	}
}

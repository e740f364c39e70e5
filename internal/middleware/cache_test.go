package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
)

func ctxFor(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(req.URL.Path)
	return c
}

func TestCacheKeySeparatesQueries(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	a := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/api/submissions/tribes?state=Assam"))
	b := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/api/submissions/tribes?state=Nagaland"))
	if a == b {
		t.Fatal("different filter combinations share a cache key")
	}
}

func TestCacheKeyStableForSameRequest(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	a := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/api/submissions/tribes?state=Assam"))
	b := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/api/submissions/tribes?state=Assam"))
	if a != b {
		t.Fatalf("same request produced different keys: %q vs %q", a, b)
	}
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	a := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/api/submissions/tribes?state=Assam"))
	b := cacheKeyFrom(cfg, ctxFor(http.MethodGet, "/api/submissions/tribes?state=Nagaland"))
	if a != b {
		t.Fatal("route strategy should ignore query strings")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	body := []byte(`{"tribes":["khasi"]}`)

	enc, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(enc)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("header = %v", gotHdr)
	}
	if len(gotHdr["X-Custom"]) != 2 {
		t.Fatalf("multi-value header lost: %v", gotHdr["X-Custom"])
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body = %s", gotBody)
	}
}

func TestDecodePayloadRejectsShortInput(t *testing.T) {
	if _, _, _, ok := decodePayload([]byte{1, 2, 3}); ok {
		t.Fatal("short input should not decode")
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	c := ctxFor(http.MethodPost, "/api/auth/login")
	key := buildRateKey(cfg, c)
	if key == "" {
		t.Fatal("empty key")
	}
	// Same request shape yields the same key.
	if key != buildRateKey(cfg, ctxFor(http.MethodPost, "/api/auth/login")) {
		t.Fatal("key not stable")
	}
	// A different route changes the key.
	if key == buildRateKey(cfg, ctxFor(http.MethodPost, "/api/auth/register")) {
		t.Fatal("routes share a rate key")
	}
}

func TestBuildRateKeyUserStrategy(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	anon := buildRateKey(cfg, ctxFor(http.MethodPost, "/api/auth/login"))

	c := ctxFor(http.MethodPost, "/api/auth/login")
	c.Set("user_id", uint64(7))
	authed := buildRateKey(cfg, c)

	if anon == authed {
		t.Fatal("anonymous and authenticated callers share a rate key")
	}
}

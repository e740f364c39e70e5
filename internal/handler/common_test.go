package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestErrsEnvelope(t *testing.T) {
	b, err := json.Marshal(errs("First", "Second"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"errors":[{"msg":"First"},{"msg":"Second"}]}`
	if string(b) != want {
		t.Fatalf("envelope = %s, want %s", b, want)
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, err := getUserID(c); err == nil {
		t.Fatal("missing user_id should error")
	}

	c.Set("user_id", uint64(12))
	uid, err := getUserID(c)
	if err != nil || uid != 12 {
		t.Fatalf("uid = %d, err = %v", uid, err)
	}

	c.Set("user_id", "34")
	uid, err = getUserID(c)
	if err != nil || uid != 34 {
		t.Fatalf("string uid = %d, err = %v", uid, err)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=50", 3, 50},
		{"?page=0&limit=-5", 1, 20},
		{"?page=abc&limit=xyz", 1, 20},
		{"?limit=5000", 1, 100},
	}
	e := echo.New()
	for _, tc := range cases {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), httptest.NewRecorder())
		page, limit := parsePagination(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("query %q: got page=%d limit=%d, want page=%d limit=%d",
				tc.query, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}

package router

import (
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
	"github.com/virasat-labs/heritage-archive/internal/handler"
)

func TestRegisterPublicRoutes(t *testing.T) {
	e := echo.New()
	RegisterPublic(e, handler.NewBrowseHandler(config.Config{}, nil, nil, nil), nil)

	want := map[string]bool{
		"/api/submissions":          false,
		"/api/submissions/tribes":   false,
		"/api/submissions/villages": false,
		"/api/taxonomy":             false,
		"/api/reference/villages":   false,
		"/api/approved":             false,
		"/api/approved/:id":         false,
	}
	for _, r := range e.Routes() {
		if r.Method != "GET" {
			continue
		}
		if _, ok := want[r.Path]; ok {
			want[r.Path] = true
		}
	}
	for path, seen := range want {
		if !seen {
			t.Errorf("GET %s not registered", path)
		}
	}
}

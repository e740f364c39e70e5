package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/utils"
)

const testSecret = "middleware-test-secret"

func runProtected(t *testing.T, mw []echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _ := runProtected(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing token") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _ := runProtected(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid token") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestJWTAuthEmptySecretIsServerError(t *testing.T) {
	rec, _ := runProtected(t, []echo.MiddlewareFunc{JWTAuth("")}, "Bearer anything")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestJWTAuthValidTokenSetsContext(t *testing.T) {
	tok, err := utils.NewUserToken(testSecret, 99, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, c := runProtected(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if uid, ok := c.Get("user_id").(uint64); !ok || uid != 99 {
		t.Fatalf("user_id = %v", c.Get("user_id"))
	}
	if role, ok := c.Get("role").(string); !ok || role != utils.RoleUser {
		t.Fatalf("role = %v", c.Get("role"))
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	tok, err := utils.NewUserToken(testSecret, 5, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, _ := runProtected(t,
		[]echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(utils.RoleAdmin)},
		"Bearer "+tok.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleAllowsAdminToken(t *testing.T) {
	tok, err := utils.NewAdminToken(testSecret, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, _ := runProtected(t,
		[]echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(utils.RoleAdmin)},
		"Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	rec, _ := runProtected(t, []echo.MiddlewareFunc{RequireRole(utils.RoleUser)}, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

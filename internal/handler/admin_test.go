package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
	"github.com/virasat-labs/heritage-archive/internal/utils"
)

func adminLoginCtx(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAdminLoginSuccess(t *testing.T) {
	h := &AdminHandler{Cfg: config.Config{
		AdminEmail:    "curator@example.org",
		AdminPassword: "Sup3r!secret",
		JWTSecret:     "test-secret",
		TokenTTLDays:  30,
	}}
	c, rec := adminLoginCtx(`{"email":"Curator@Example.org","password":"Sup3r!secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	start := strings.Index(body, `"token":"`)
	if start < 0 {
		t.Fatalf("no token in body %s", body)
	}
	tok := body[start+len(`"token":"`):]
	tok = tok[:strings.Index(tok, `"`)]

	claims, err := utils.VerifyToken("test-secret", tok)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Role != utils.RoleAdmin || claims.Subject != 0 {
		t.Fatalf("claims = %+v, want role-only admin", claims)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	h := &AdminHandler{Cfg: config.Config{
		AdminEmail:    "curator@example.org",
		AdminPassword: "Sup3r!secret",
		JWTSecret:     "test-secret",
		TokenTTLDays:  30,
	}}
	c, rec := adminLoginCtx(`{"email":"curator@example.org","password":"nope"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminGetSubmissionBadID(t *testing.T) {
	h := &AdminHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.GetSubmission(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminLoginUnconfigured(t *testing.T) {
	h := &AdminHandler{Cfg: config.Config{JWTSecret: "test-secret"}}
	c, rec := adminLoginCtx(`{"email":"a@b.c","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

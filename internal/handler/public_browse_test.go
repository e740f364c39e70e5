package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
	"github.com/virasat-labs/heritage-archive/internal/utils"
)

func browseCtx(target, bearer string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCallerIsAdmin(t *testing.T) {
	h := &BrowseHandler{Cfg: config.Config{JWTSecret: "browse-secret"}}

	c, _ := browseCtx("/api/submissions", "")
	if h.callerIsAdmin(c) {
		t.Fatal("anonymous caller counted as admin")
	}

	userTok, err := utils.NewUserToken("browse-secret", 3, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, _ = browseCtx("/api/submissions", userTok.Token)
	if h.callerIsAdmin(c) {
		t.Fatal("contributor token counted as admin")
	}

	adminTok, err := utils.NewAdminToken("browse-secret", 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, _ = browseCtx("/api/submissions", adminTok.Token)
	if !h.callerIsAdmin(c) {
		t.Fatal("admin token not recognized")
	}

	c, _ = browseCtx("/api/submissions", "broken.token.here")
	if h.callerIsAdmin(c) {
		t.Fatal("broken token counted as admin")
	}
}

func TestExploreItemNonNumericID(t *testing.T) {
	h := &BrowseHandler{}
	c, rec := browseCtx("/api/approved/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.ExploreItem(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var out struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Errors) != 1 || out.Errors[0].Msg != "Not found" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestReferenceVillagesByState(t *testing.T) {
	h := &BrowseHandler{}
	c, rec := browseCtx("/api/reference/villages?state=Nagaland", "")
	if err := h.ReferenceVillages(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		State    string   `json:"state"`
		Villages []string `json:"villages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.State != "nagaland" || len(out.Villages) == 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestReferenceVillagesUnknownState(t *testing.T) {
	h := &BrowseHandler{}
	c, rec := browseCtx("/api/reference/villages?state=atlantis", "")
	if err := h.ReferenceVillages(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	var out struct {
		Villages []string `json:"villages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Villages) != 0 {
		t.Fatalf("unknown state returned villages: %v", out.Villages)
	}
}

func TestReferenceVillagesAllStates(t *testing.T) {
	h := &BrowseHandler{}
	c, rec := browseCtx("/api/reference/villages", "")
	if err := h.ReferenceVillages(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	var out struct {
		States map[string][]string `json:"states"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.States) == 0 {
		t.Fatal("no states returned")
	}
}

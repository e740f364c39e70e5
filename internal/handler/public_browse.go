package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
	"github.com/virasat-labs/heritage-archive/internal/model"
	"github.com/virasat-labs/heritage-archive/internal/repository"
	"github.com/virasat-labs/heritage-archive/internal/utils"
)

// BrowseHandler serves the public archive listing plus the filter
// dropdown sources.  All routes here are unauthenticated; an admin
// bearer token widens the visible statuses, everyone else is pinned to
// approved.
type BrowseHandler struct {
	Cfg         config.Config
	Submissions *repository.SubmissionRepo
	Taxonomies  *repository.TaxonomyRepo
	Approved    *repository.ApprovedRepo
}

func NewBrowseHandler(cfg config.Config, s *repository.SubmissionRepo, t *repository.TaxonomyRepo, a *repository.ApprovedRepo) *BrowseHandler {
	return &BrowseHandler{Cfg: cfg, Submissions: s, Taxonomies: t, Approved: a}
}

// callerIsAdmin checks an optional bearer token on a public route.  A
// missing or broken token is not an error here, just a non-admin caller.
func (h *BrowseHandler) callerIsAdmin(c echo.Context) bool {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	claims, err := utils.VerifyToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return false
	}
	return claims.Role == utils.RoleAdmin
}

// List is the public archive search.  Filters: status (admin only),
// category, tribe, country, state, village, search, page, limit.
func (h *BrowseHandler) List(c echo.Context) error {
	page, limit := parsePagination(c)

	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.StatusApproved
	}
	// Only an admin token may look past the published set.
	if status != model.StatusApproved && !h.callerIsAdmin(c) {
		status = model.StatusApproved
	}

	q := repository.SubmissionSearchQuery{
		Status:   status,
		Category: strings.TrimSpace(c.QueryParam("category")),
		Tribe:    strings.TrimSpace(c.QueryParam("tribe")),
		Country:  strings.TrimSpace(c.QueryParam("country")),
		State:    strings.TrimSpace(c.QueryParam("state")),
		Village:  strings.TrimSpace(c.QueryParam("village")),
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		PageSize: limit,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Submissions.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Explore is the public listing over published copies, the source for
// the explore page.  Unlike the submission search it reads the
// denormalized approved_content table, so owner edits after approval
// never show here.
func (h *BrowseHandler) Explore(c echo.Context) error {
	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Approved.Search(ctx, repository.ApprovedSearchQuery{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Tribe:    strings.TrimSpace(c.QueryParam("tribe")),
		Village:  strings.TrimSpace(c.QueryParam("village")),
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ExploreItem serves the public detail page for one published copy.
func (h *BrowseHandler) ExploreItem(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, errs("Not found"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	item, err := h.Approved.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, item)
}

// Tribes returns the distinct tribe names present on approved
// submissions.  Sits behind the Redis response cache.
func (h *BrowseHandler) Tribes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tribes, err := h.Submissions.DistinctTribes(ctx,
		strings.TrimSpace(c.QueryParam("country")),
		strings.TrimSpace(c.QueryParam("state")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"tribes": tribes})
}

// Villages returns the distinct village names present on approved
// submissions, optionally narrowed by tribe.
func (h *BrowseHandler) Villages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	villages, err := h.Submissions.DistinctVillages(ctx,
		strings.TrimSpace(c.QueryParam("tribe")),
		strings.TrimSpace(c.QueryParam("country")),
		strings.TrimSpace(c.QueryParam("state")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"villages": villages})
}

// Taxonomy returns the accumulated tribe/village sets for one
// (country,state) pair.  Unknown pairs answer empty sets rather than 404
// so the frontend can render blank dropdowns.
func (h *BrowseHandler) Taxonomy(c echo.Context) error {
	country := strings.TrimSpace(c.QueryParam("country"))
	state := strings.TrimSpace(c.QueryParam("state"))
	if country == "" || state == "" {
		return c.JSON(http.StatusBadRequest, errs("country and state are required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Taxonomies.Lookup(ctx, country, state)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusOK, echo.Map{
				"country":  country,
				"state":    state,
				"tribes":   []string{},
				"villages": []string{},
			})
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, t)
}

// referenceVillages is the static seed list shown before the archive has
// accumulated enough approved material of its own.
var referenceVillages = map[string][]string{
	"arunachal pradesh": {"ziro", "along", "daporijo", "basar"},
	"assam":             {"majuli", "sualkuchi", "hajo", "sarthebari"},
	"meghalaya":         {"mawlynnong", "kongthong", "nongriat"},
	"nagaland":          {"khonoma", "touphema", "longwa"},
	"manipur":           {"andro", "langthabal", "moirang"},
	"mizoram":           {"reiek", "falkawn", "hmuifang"},
	"tripura":           {"unakoti", "jampui", "melaghar"},
	"sikkim":            {"lachen", "lachung", "yuksom"},
}

// ReferenceVillages serves the curated per-state village list, optionally
// narrowed to one state.
func (h *BrowseHandler) ReferenceVillages(c echo.Context) error {
	state := strings.ToLower(strings.TrimSpace(c.QueryParam("state")))
	if state != "" {
		villages, ok := referenceVillages[state]
		if !ok {
			villages = []string{}
		}
		return c.JSON(http.StatusOK, echo.Map{"state": state, "villages": villages})
	}
	return c.JSON(http.StatusOK, echo.Map{"states": referenceVillages})
}

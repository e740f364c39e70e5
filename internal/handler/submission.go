package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/model"
	"github.com/virasat-labs/heritage-archive/internal/repository"
)

// SubmissionHandler covers the contributor-facing submission CRUD.
type SubmissionHandler struct {
	Submissions *repository.SubmissionRepo
	Taxonomies  *repository.TaxonomyRepo
}

func NewSubmissionHandler(s *repository.SubmissionRepo, t *repository.TaxonomyRepo) *SubmissionHandler {
	return &SubmissionHandler{Submissions: s, Taxonomies: t}
}

type createSubmissionReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
	ContentURL  string `json:"contentUrl"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Tribe       string `json:"tribe"`
	Country     string `json:"country"`
	State       string `json:"state"`
	Village     string `json:"village"`
	Consent     struct {
		Given    bool   `json:"given"`
		Name     string `json:"name"`
		Relation string `json:"relation"`
		FileURL  string `json:"fileUrl"`
	} `json:"consent"`
}

func validSubmissionType(t string) bool {
	switch t {
	case model.TypeText, model.TypeAudio, model.TypeVideo, model.TypeImage:
		return true
	}
	return false
}

// Create records a new submission.  The caller never controls status:
// everything enters the archive pending.  Consent must be explicitly
// given with the declarant's name; text submissions need body text,
// media submissions need a content URL.
func (h *SubmissionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}

	var req createSubmissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))

	var msgs []string
	if req.Title == "" {
		msgs = append(msgs, "Title is required")
	}
	if req.Description == "" {
		msgs = append(msgs, "Description is required")
	}
	if !validSubmissionType(req.Type) {
		msgs = append(msgs, "Type must be one of text, audio, video, image")
	}
	if strings.TrimSpace(req.Category) == "" {
		msgs = append(msgs, "Category is required")
	}
	if !req.Consent.Given {
		msgs = append(msgs, "Consent must be given")
	}
	if strings.TrimSpace(req.Consent.Name) == "" {
		msgs = append(msgs, "Consent name is required")
	}
	if req.Type == model.TypeText && strings.TrimSpace(req.Text) == "" {
		msgs = append(msgs, "Text content is required for text submissions")
	}
	if req.Type != model.TypeText && req.Type != "" && strings.TrimSpace(req.ContentURL) == "" {
		msgs = append(msgs, "Content URL is required for media submissions")
	}
	if len(msgs) > 0 {
		return c.JSON(http.StatusBadRequest, errs(msgs...))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s := model.Submission{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Text,
		ContentURL:  strings.TrimSpace(req.ContentURL),
		Type:        req.Type,
		Category:    strings.TrimSpace(req.Category),
		Tribe:       req.Tribe,
		Country:     strings.TrimSpace(req.Country),
		State:       strings.TrimSpace(req.State),
		Village:     strings.TrimSpace(req.Village),
		Consent: model.Consent{
			Given:    req.Consent.Given,
			Name:     strings.TrimSpace(req.Consent.Name),
			Relation: strings.TrimSpace(req.Consent.Relation),
			FileURL:  strings.TrimSpace(req.Consent.FileURL),
		},
	}

	created, err := h.Submissions.Create(ctx, s)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}

	// Best effort: a taxonomy failure never fails the submission.
	if err := h.Taxonomies.Accumulate(ctx, created.Country, created.State, created.Tribe, created.Village); err != nil {
		log.Printf("submission: taxonomy accumulate failed: %v", err)
	}

	return c.JSON(http.StatusCreated, created)
}

// ListMine returns the caller's own submissions across all statuses.
func (h *SubmissionHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Submissions.ListByUser(ctx, uid, limit, (page-1)*limit)
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

type updateSubmissionReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Text        *string `json:"text"`
	ContentURL  *string `json:"contentUrl"`
}

// Update patches the content fields of a submission the caller owns.
// Ownership scoping means a foreign id answers 404, not 403; status and
// moderation fields cannot be touched from here.
func (h *SubmissionHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid submission id"))
	}

	var req updateSubmissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return c.JSON(http.StatusBadRequest, errs("Title cannot be empty"))
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return c.JSON(http.StatusBadRequest, errs("Description cannot be empty"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	updated, err := h.Submissions.UpdateOwned(ctx, id, uid, repository.SubmissionPatch{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Text,
		ContentURL:  req.ContentURL,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Submission not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a submission the caller owns, whatever its status.  An
// already-published approved_content copy stays in the archive.
func (h *SubmissionHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid submission id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Submissions.DeleteOwned(ctx, id, uid); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Submission not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Submission deleted"})
}

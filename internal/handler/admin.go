package handler

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
	"github.com/virasat-labs/heritage-archive/internal/model"
	"github.com/virasat-labs/heritage-archive/internal/queue"
	"github.com/virasat-labs/heritage-archive/internal/repository"
	queue_publisher "github.com/virasat-labs/heritage-archive/internal/service"
	"github.com/virasat-labs/heritage-archive/internal/utils"
)

// AdminHandler covers the moderation console: operator login, the review
// queue, approve/reject decisions, and archive housekeeping.
type AdminHandler struct {
	Cfg         config.Config
	Users       *repository.UserRepo
	Submissions *repository.SubmissionRepo
	Moderation  *repository.ModerationRepo
	Approved    *repository.ApprovedRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, s *repository.SubmissionRepo, m *repository.ModerationRepo, a *repository.ApprovedRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u, Submissions: s, Moderation: m, Approved: a}
}

type adminLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the operator credentials from the environment and issues
// a role-only admin token.  There is no admin row in the database; the
// single operator identity lives entirely in configuration.
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	if h.Cfg.AdminEmail == "" || h.Cfg.AdminPassword == "" {
		return c.JSON(http.StatusInternalServerError, errs("Admin login not configured"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(h.Cfg.AdminEmail))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Cfg.AdminPassword)) == 1
	if !emailOK || !passOK {
		return c.JSON(http.StatusUnauthorized, errs("Invalid credentials"))
	}

	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"token": tok.Token})
}

// ListSubmissions returns the review queue, default pending.  "all"
// widens to every status.
func (h *AdminHandler) ListSubmissions(c echo.Context) error {
	page, limit := parsePagination(c)
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.StatusPending
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		items []model.Submission
		total int64
		err   error
	)
	if status == "all" {
		items, total, err = h.Submissions.Search(ctx, repository.SubmissionSearchQuery{
			Status: "all", Page: page, PageSize: limit,
		})
	} else {
		items, total, err = h.Submissions.ListByStatus(ctx, status, limit, (page-1)*limit)
	}
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

// GetSubmission fetches one submission of any status for review.  For
// approved submissions the published copy is attached so the console can
// show the snapshot next to the (possibly since-edited) source.
func (h *AdminHandler) GetSubmission(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid submission id"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Submissions.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Submission not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	out := echo.Map{"submission": s}
	if s.Status == model.StatusApproved {
		if copyRec, err := h.Approved.GetBySubmissionID(ctx, s.ID); err == nil {
			out["published"] = copyRec
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Approve moves a pending submission to approved and publishes the
// snapshot copy, all in one transaction.  The moderated event goes to
// the broker only after commit; a publish failure never unwinds the
// decision.
func (h *AdminHandler) Approve(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid submission id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Moderation.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	s, err := h.Moderation.ApproveTx(ctx, tx, id, h.Cfg.AdminEmail)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, errs("Submission not found"))
		case repository.ErrAlreadyProcessed:
			return c.JSON(http.StatusBadRequest, errs("Submission already processed"))
		default:
			return c.JSON(http.StatusInternalServerError, errs("Server error"))
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	committed = true

	h.publishModerated(ctx, s, "")
	return c.JSON(http.StatusOK, s)
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// Reject moves a pending submission to rejected with an optional reason.
// Both moderation outcomes are terminal; re-rejecting answers 400.
func (h *AdminHandler) Reject(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid submission id"))
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Moderation.Reject(ctx, id, strings.TrimSpace(req.Reason))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, errs("Submission not found"))
		case repository.ErrAlreadyProcessed:
			return c.JSON(http.StatusBadRequest, errs("Submission already processed"))
		default:
			return c.JSON(http.StatusInternalServerError, errs("Server error"))
		}
	}

	h.publishModerated(ctx, s, s.RejectionReason)
	return c.JSON(http.StatusOK, s)
}

// publishModerated emits the post-decision event.  The contributor's
// email is looked up best-effort; a missing user or broker failure is
// logged and swallowed.
func (h *AdminHandler) publishModerated(ctx context.Context, s model.Submission, reason string) {
	email := ""
	if u, err := h.Users.GetByID(ctx, s.UserID); err == nil {
		email = u.Email
	}
	processedAt := ""
	if s.ProcessedAt != nil {
		processedAt = s.ProcessedAt.UTC().Format(time.RFC3339)
	}
	ev := queue.SubmissionModeratedEvent{
		SubmissionID: s.ID,
		UserID:       s.UserID,
		UserEmail:    email,
		Title:        s.Title,
		Category:     s.Category,
		Status:       s.Status,
		Reason:       reason,
		ModeratedBy:  h.Cfg.AdminEmail,
		ProcessedAt:  processedAt,
	}
	if err := queue_publisher.PublishSubmissionModerated(ctx, ev); err != nil {
		log.Printf("admin: moderated event publish failed: %v", err)
	}
}

// DeleteSubmission removes a submission of any status and owner.
func (h *AdminHandler) DeleteSubmission(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid submission id"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Submissions.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Submission not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Submission deleted"})
}

// ListUsers returns the contributor roster without password hashes.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"id":        u.ID,
			"name":      u.Name,
			"email":     u.Email,
			"createdAt": u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// DeleteUser removes a contributor and all their submissions in one
// transaction, same cascade as self-service account deletion.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid user id"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Users.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Submissions.DeleteAllForUserTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if err := h.Users.DeleteTx(ctx, tx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}

// ListApproved returns published copies, newest first.
func (h *AdminHandler) ListApproved(c echo.Context) error {
	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Approved.List(ctx, limit, (page-1)*limit)
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

// DeleteApproved removes a published copy without touching the source
// submission.
func (h *AdminHandler) DeleteApproved(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid content id"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Approved.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Content not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Content deleted"})
}

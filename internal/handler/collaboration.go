package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/model"
	"github.com/virasat-labs/heritage-archive/internal/repository"
)

// CollaborationHandler covers the request/accept/reject handshake that
// opens the chat channel between two contributors.
type CollaborationHandler struct {
	Collabs *repository.CollaborationRepo
	Users   *repository.UserRepo
}

func NewCollaborationHandler(c *repository.CollaborationRepo, u *repository.UserRepo) *CollaborationHandler {
	return &CollaborationHandler{Collabs: c, Users: u}
}

type createCollabReq struct {
	RecipientID uint64 `json:"recipientId"`
	Category    string `json:"category"`
}

// Create sends a collaboration request to another contributor.
func (h *CollaborationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	var req createCollabReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.RecipientID == 0 {
		return c.JSON(http.StatusBadRequest, errs("Recipient is required"))
	}
	if req.RecipientID == uid {
		return c.JSON(http.StatusBadRequest, errs("Cannot request collaboration with yourself"))
	}
	if req.Category == "" {
		return c.JSON(http.StatusBadRequest, errs("Category is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Surface a clean 404 for unknown recipients instead of a dangling row.
	if _, err := h.Users.GetByID(ctx, req.RecipientID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, errs("Recipient not found"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}

	cr, err := h.Collabs.Create(ctx, uid, req.RecipientID, req.Category)
	if err != nil {
		if err == repository.ErrDuplicateRequest {
			return c.JSON(http.StatusConflict, errs("Request already exists"))
		}
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusCreated, cr)
}

// List returns requests involving the caller in either role.
func (h *CollaborationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Collabs.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Accept and Reject let the recipient answer a pending request.
func (h *CollaborationHandler) Accept(c echo.Context) error {
	return h.respond(c, model.CollabAccepted)
}

func (h *CollaborationHandler) Reject(c echo.Context) error {
	return h.respond(c, model.CollabRejected)
}

func (h *CollaborationHandler) respond(c echo.Context, status string) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errs("Invalid token"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid request id"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cr, err := h.Collabs.Respond(ctx, id, uid, status)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, errs("Request not found"))
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, errs("Only the recipient can respond"))
		case repository.ErrAlreadyProcessed:
			return c.JSON(http.StatusBadRequest, errs("Request already processed"))
		default:
			return c.JSON(http.StatusInternalServerError, errs("Server error"))
		}
	}
	return c.JSON(http.StatusOK, cr)
}

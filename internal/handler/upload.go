package handler

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/virasat-labs/heritage-archive/internal/config"
	"github.com/virasat-labs/heritage-archive/internal/media"
)

// maxUploadBytes caps a single upload at 200MB, matching the provider's
// plan limit.
const maxUploadBytes = 200 << 20

// Allowed extensions per upload purpose.  Content media rides the full
// audio/video/image set; consent proofs are documents and scans.
var (
	contentExts = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
		"mp4": true, "mov": true, "avi": true, "mkv": true, "webm": true,
		"mp3": true, "wav": true, "ogg": true, "m4a": true, "flac": true,
	}
	consentExts = map[string]bool{
		"pdf": true, "jpg": true, "jpeg": true, "png": true, "webp": true,
	}
)

// UploadHandler accepts multipart uploads and forwards them to the
// media store.  One endpoint serves both submission media and consent
// proofs; the purpose parameter picks the folder and the extension
// allow-list.
type UploadHandler struct {
	Cfg   config.Config
	Store *media.Store
}

func NewUploadHandler(cfg config.Config, store *media.Store) *UploadHandler {
	return &UploadHandler{Cfg: cfg, Store: store}
}

// Upload handles POST /api/uploads?purpose=content|consent with a
// multipart "file" field.
func (h *UploadHandler) Upload(c echo.Context) error {
	if h.Store == nil || !h.Cfg.MediaConfigured() {
		return c.JSON(http.StatusInternalServerError, errs("Media storage not configured"))
	}

	purpose := strings.ToLower(strings.TrimSpace(c.QueryParam("purpose")))
	if purpose == "" {
		purpose = "content"
	}
	var allowed map[string]bool
	switch purpose {
	case "content":
		allowed = contentExts
	case "consent":
		allowed = consentExts
	default:
		return c.JSON(http.StatusBadRequest, errs("purpose must be content or consent"))
	}
	folder := "uploads/" + purpose

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs("File is required"))
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, errs("File exceeds the 200MB limit"))
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	if !allowed[ext] {
		return c.JSON(http.StatusBadRequest, errs("File type not allowed"))
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	defer f.Close()

	// The size header is client-supplied; the hard cap is enforced on the
	// actual read as well.
	buf, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Server error"))
	}
	if len(buf) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, errs("File exceeds the 200MB limit"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()

	res, err := h.Store.Upload(ctx, buf, fh.Filename, folder)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Upload failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"url":          res.URL,
		"path":         res.PublicID,
		"publicId":     res.PublicID,
		"resourceType": res.ResourceType,
	})
}

type deleteUploadReq struct {
	PublicID     string `json:"publicId"`
	ResourceType string `json:"resourceType"`
}

// Delete removes a stored object by public id.
func (h *UploadHandler) Delete(c echo.Context) error {
	if h.Store == nil || !h.Cfg.MediaConfigured() {
		return c.JSON(http.StatusInternalServerError, errs("Media storage not configured"))
	}
	var req deleteUploadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errs("Invalid body"))
	}
	req.PublicID = strings.TrimSpace(req.PublicID)
	if req.PublicID == "" {
		return c.JSON(http.StatusBadRequest, errs("publicId is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, req.PublicID, strings.TrimSpace(req.ResourceType)); err != nil {
		return c.JSON(http.StatusInternalServerError, errs("Delete failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}

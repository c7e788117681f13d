package profiles

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/metrics"
	"github.com/yugant99/TaylorAI/internal/shared/server/middleware"
	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// Handler exposes the document slots over HTTP.
type Handler struct {
	svc     *Service
	metrics *metrics.Registry
}

// NewHandler builds the profile handler.
func NewHandler(svc *Service, reg *metrics.Registry) *Handler {
	return &Handler{svc: svc, metrics: reg}
}

// Register mounts profile routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.POST("/profile/documents/:slot", h.UploadDocument)
	rg.PUT("/profile/documents/:slot/text", h.SaveText)
}

type documentView struct {
	Slot       string `json:"slot"`
	FilePath   string `json:"filePath,omitempty"`
	FileName   string `json:"fileName,omitempty"`
	URL        string `json:"url,omitempty"`
	TextCached bool   `json:"textCached"`
}

// GetProfile returns both document slots with signed download URLs.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		telemetry.Error("profiles.get_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load profile", nil)
		return
	}

	view := func(d *Document) *documentView {
		if d == nil {
			return nil
		}
		v := &documentView{
			Slot:       string(d.Slot),
			FilePath:   d.FilePath,
			FileName:   d.FileName,
			TextCached: d.Text != "",
		}
		if d.FilePath != "" {
			if url, err := h.svc.SignedURL(c.Request.Context(), userID, d.Slot); err == nil {
				v.URL = url
			}
		}
		return v
	}

	respond.OK(c, gin.H{
		"userId":      profile.UserID,
		"resume":      view(profile.Resume),
		"coverLetter": view(profile.CoverLetter),
	})
}

// UploadDocument stores a multipart file upload in the named slot.
func (h *Handler) UploadDocument(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	slot := Slot(c.Param("slot"))
	if !slot.Valid() {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unknown document slot", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file field is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file too large", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	doc, url, err := h.svc.Upload(c.Request.Context(), userID, slot, fileHeader.Filename, data, contentType)
	if err != nil {
		telemetry.Error("profiles.upload_failed", map[string]any{
			"user_id": userID, "slot": string(slot), "error": err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal", "Upload failed", nil)
		return
	}

	if h.metrics != nil {
		h.metrics.IncUploads()
	}
	respond.OK(c, gin.H{
		"document": documentView{
			Slot:       string(doc.Slot),
			FilePath:   doc.FilePath,
			FileName:   doc.FileName,
			URL:        url,
			TextCached: doc.Text != "",
		},
	})
}

type saveTextRequest struct {
	Text string `json:"text"`
}

// SaveText stores caller-provided text for the slot without a file upload.
func (h *Handler) SaveText(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	slot := Slot(c.Param("slot"))
	if !slot.Valid() {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unknown document slot", nil)
		return
	}

	var req saveTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body", nil)
		return
	}

	doc, err := h.svc.SaveText(c.Request.Context(), userID, slot, req.Text)
	if err != nil {
		if errors.Is(err, ErrInvalidSlot) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "unknown document slot", nil)
			return
		}
		telemetry.Error("profiles.save_text_failed", map[string]any{
			"user_id": userID, "slot": string(slot), "error": err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not save text", nil)
		return
	}

	respond.OK(c, gin.H{
		"document": documentView{
			Slot:       string(doc.Slot),
			FilePath:   doc.FilePath,
			FileName:   doc.FileName,
			TextCached: doc.Text != "",
		},
	})
}

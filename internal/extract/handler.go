package extract

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/metrics"
	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
	"github.com/yugant99/TaylorAI/internal/shared/storage/object"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
)

// Handler serves ad-hoc text extraction for stored documents.
type Handler struct {
	store     object.Store
	extractor *Extractor
	metrics   *metrics.Registry
}

// NewHandler builds the extraction handler.
func NewHandler(store object.Store, extractor *Extractor, reg *metrics.Registry) *Handler {
	return &Handler{store: store, extractor: extractor, metrics: reg}
}

// Register mounts the extraction route on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/extract-text", h.ExtractText)
}

type extractRequest struct {
	Bucket   string `json:"bucket"`
	FilePath string `json:"filePath"`
}

// ExtractText loads an object and returns its sanitized plain text.
func (h *Handler) ExtractText(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body", nil)
		return
	}

	req.Bucket = strings.Trim(strings.TrimSpace(req.Bucket), "/")
	req.FilePath = strings.TrimLeft(strings.TrimSpace(req.FilePath), "/")
	if req.Bucket == "" || req.FilePath == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "bucket and filePath are required", nil)
		return
	}

	key := req.Bucket + "/" + req.FilePath
	data, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found", nil)
			return
		}
		telemetry.Error("extract.fetch_failed", map[string]any{"key": key, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not read file", nil)
		return
	}

	text, err := h.extractor.FromBytes(req.FilePath, data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "Unsupported file format", nil)
			return
		}
		telemetry.Error("extract.failed", map[string]any{"key": key, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "extraction_failed", "Could not extract text from file", nil)
		return
	}

	if h.metrics != nil {
		h.metrics.IncTextExtractions()
	}
	respond.OK(c, gin.H{"text": text})
}

package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/server/middleware"
	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
)

// Handler exposes job listings and per-user selections over HTTP.
type Handler struct {
	repo Repo
}

// NewHandler builds the jobs handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

// Register mounts job routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.List)
	rg.GET("/jobs/selections", h.GetSelections)
	rg.GET("/jobs/:id", h.Get)
	rg.PUT("/jobs/selections", h.SetSelections)
}

// List returns recent job postings.
func (h *Handler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	list, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		telemetry.Error("jobs.list_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load jobs", nil)
		return
	}
	if list == nil {
		list = []*Job{}
	}
	respond.OK(c, gin.H{"jobs": list})
}

// Get returns one job posting.
func (h *Handler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	job, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Job not found", nil)
			return
		}
		telemetry.Error("jobs.get_failed", map[string]any{"job_id": id, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load job", nil)
		return
	}
	respond.OK(c, gin.H{"job": job})
}

type setSelectionsRequest struct {
	JobIDs []string `json:"jobIds"`
}

// SetSelections replaces the user's selected jobs.
func (h *Handler) SetSelections(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req setSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body", nil)
		return
	}

	seen := make(map[string]struct{}, len(req.JobIDs))
	ids := make([]string, 0, len(req.JobIDs))
	for _, id := range req.JobIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := h.repo.SetSelections(c.Request.Context(), userID, ids); err != nil {
		telemetry.Error("jobs.set_selections_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not save selections", nil)
		return
	}

	c.Set("jobCount", len(ids))
	respond.OK(c, gin.H{"jobIds": ids})
}

// GetSelections returns the user's selected job ids.
func (h *Handler) GetSelections(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	ids, err := h.repo.GetSelections(c.Request.Context(), userID)
	if err != nil {
		telemetry.Error("jobs.get_selections_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load selections", nil)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respond.OK(c, gin.H{"jobIds": ids})
}
